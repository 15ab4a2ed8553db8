package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/priyanshu73/theUniBay/internal/domain"
	"github.com/priyanshu73/theUniBay/internal/service"
	"github.com/priyanshu73/theUniBay/pkg/httputil"
	"github.com/priyanshu73/theUniBay/pkg/middleware"
	"github.com/priyanshu73/theUniBay/pkg/validator"
)

// ProductHandler handles HTTP requests for listing endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateListingRequest is the JSON request body for posting a listing.
// Price is in cents.
type CreateListingRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	PriceCents  int64   `json:"price_cents" validate:"required,gt=0"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
	Condition   string  `json:"condition" validate:"required,oneof=new like_new good fair poor"`
	ImagePath   *string `json:"image_path" validate:"omitempty,max=500"`
}

// UpdateListingRequest is the JSON request body for editing a listing.
type UpdateListingRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	PriceCents  *int64  `json:"price_cents" validate:"omitempty,gt=0"`
	CategoryID  *int64  `json:"category_id" validate:"omitempty,gt=0"`
	Condition   *string `json:"condition" validate:"omitempty,oneof=new like_new good fair poor"`
	ImagePath   *string `json:"image_path" validate:"omitempty,max=500"`
}

// AddCommentRequest is the JSON request body for commenting on a listing.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// ToggleResponse reports the state after a toggle endpoint.
type ToggleResponse struct {
	Liked     *bool `json:"liked,omitempty"`
	IsSold    *bool `json:"is_sold,omitempty"`
	LikeCount *int  `json:"like_count,omitempty"`
}

// --- Handlers ---

// Search handles GET /api/v1/products
// Query parameters: q, category, min_price, max_price, condition, status,
// page, per_page. Prices are decimal dollars, e.g. min_price=19.99.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := domain.SearchQuery{
		Keyword:   q.Get("q"),
		Category:  q.Get("category"),
		MinPrice:  q.Get("min_price"),
		MaxPrice:  q.Get("max_price"),
		Condition: q.Get("condition"),
		Status:    q.Get("status"),
	}

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	result, err := h.service.Search(r.Context(), query, page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Get handles GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	viewerID := middleware.UserIDFromContext(r.Context())

	detail, err := h.service.GetListing(r.Context(), productID, viewerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	sellerID := middleware.UserIDFromContext(r.Context())

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateListing(r.Context(), service.CreateListingInput{
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		CategoryID:  req.CategoryID,
		Condition:   req.Condition,
		ImagePath:   req.ImagePath,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// Update handles PUT /api/v1/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	userID := middleware.UserIDFromContext(r.Context())

	var req UpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateListing(r.Context(), userID, productID, service.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		CategoryID:  req.CategoryID,
		Condition:   req.Condition,
		ImagePath:   req.ImagePath,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Delete handles DELETE /api/v1/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.DeleteListing(r.Context(), userID, productID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleSold handles POST /api/v1/products/{id}/sold
func (h *ProductHandler) ToggleSold(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	userID := middleware.UserIDFromContext(r.Context())

	sold, err := h.service.ToggleSold(r.Context(), userID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ToggleResponse{IsSold: &sold}})
}

// ToggleLike handles POST /api/v1/products/{id}/like
func (h *ProductHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	userID := middleware.UserIDFromContext(r.Context())

	liked, count, err := h.service.ToggleLike(r.Context(), userID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ToggleResponse{Liked: &liked, LikeCount: &count}})
}

// ListComments handles GET /api/v1/products/{id}/comments
func (h *ProductHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	comments, err := h.service.ListComments(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: comments})
}

// AddComment handles POST /api/v1/products/{id}/comments
func (h *ProductHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	userID := middleware.UserIDFromContext(r.Context())

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	comment, err := h.service.AddComment(r.Context(), userID, productID, req.Text)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: comment})
}
