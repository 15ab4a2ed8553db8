package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/priyanshu73/theUniBay/internal/domain"
	"github.com/priyanshu73/theUniBay/internal/event"
	"github.com/priyanshu73/theUniBay/internal/repository"
	"github.com/priyanshu73/theUniBay/internal/storage"
	apperrors "github.com/priyanshu73/theUniBay/pkg/errors"
)

// defaultPerPage is the page size used when the caller does not provide one.
const defaultPerPage = 20

// maxPerPage caps the page size a caller may request.
const maxPerPage = 100

// ProductService implements the business logic for listings, likes, and comments.
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	commentRepo  repository.CommentRepository
	likeRepo     repository.LikeRepository
	images       storage.Releaser
	producer     *event.Producer
	logger       *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	images storage.Releaser,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		commentRepo:  commentRepo,
		likeRepo:     likeRepo,
		images:       images,
		producer:     producer,
		logger:       logger,
	}
}

// --- Input/Output types ---

// CreateListingInput holds the parameters for posting a new listing.
type CreateListingInput struct {
	SellerID    int64
	Title       string
	Description string
	PriceCents  int64
	CategoryID  int64
	Condition   string
	ImagePath   *string
}

// UpdateListingInput holds the parameters for editing a listing. Nil fields
// are left unchanged.
type UpdateListingInput struct {
	Title       *string
	Description *string
	PriceCents  *int64
	CategoryID  *int64
	Condition   *string
	ImagePath   *string
}

// SearchResult is a page of listings plus the flag telling the caller whether
// any filter beyond the default available view was in effect.
type SearchResult struct {
	Listings       []domain.Listing `json:"listings"`
	Total          int              `json:"total"`
	Page           int              `json:"page"`
	PerPage        int              `json:"per_page"`
	FiltersApplied bool             `json:"filters_applied"`
}

// ListingDetail is a single listing with its comment thread and the viewer's
// like state.
type ListingDetail struct {
	Listing      *domain.Listing  `json:"listing"`
	Comments     []domain.Comment `json:"comments"`
	CommentCount int              `json:"comment_count"`
	ViewerLiked  bool             `json:"viewer_liked"`
}

// --- Listing Operations ---

// CreateListing posts a new product for sale.
func (s *ProductService) CreateListing(ctx context.Context, input CreateListingInput) (*domain.Product, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.PriceCents <= 0 {
		return nil, apperrors.InvalidInput("price must be positive")
	}
	if !domain.IsValidCondition(input.Condition) {
		return nil, apperrors.InvalidInput("condition must be one of: new, like_new, good, fair, poor")
	}

	if _, err := s.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unknown category %d", input.CategoryID))
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	product := &domain.Product{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		PriceCents:  input.PriceCents,
		CategoryID:  input.CategoryID,
		Condition:   domain.Condition(input.Condition),
		ImagePath:   input.ImagePath,
		SellerID:    input.SellerID,
		DatePosted:  time.Now().UTC(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishListingCreated(ctx, listingEvent(product)); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish listing.created event",
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "listing created",
		slog.Int64("product_id", product.ID),
		slog.Int64("seller_id", product.SellerID),
	)

	return product, nil
}

// GetListing returns a listing with its comment thread. viewerID is the
// authenticated viewer, or 0 for an anonymous request.
func (s *ProductService) GetListing(ctx context.Context, productID, viewerID int64) (*ListingDetail, error) {
	listing, err := s.productRepo.GetListing(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}

	comments, err := s.commentRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	viewerLiked := false
	if viewerID > 0 {
		viewerLiked, err = s.likeRepo.Exists(ctx, viewerID, productID)
		if err != nil {
			return nil, fmt.Errorf("check viewer like: %w", err)
		}
	}

	return &ListingDetail{
		Listing:      listing,
		Comments:     comments,
		CommentCount: len(comments),
		ViewerLiked:  viewerLiked,
	}, nil
}

// Search normalizes the raw query and returns a page of matching listings
// newest-first.
func (s *ProductService) Search(ctx context.Context, query domain.SearchQuery, page, perPage int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	filter := query.Normalize()

	listings, total, err := s.productRepo.Search(ctx, repository.ListingFilter{
		Filter:  filter,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}

	return &SearchResult{
		Listings:       listings,
		Total:          total,
		Page:           page,
		PerPage:        perPage,
		FiltersApplied: filter.FiltersApplied(),
	}, nil
}

// UpdateListing edits a listing. Only the seller may edit their own listing.
func (s *ProductService) UpdateListing(ctx context.Context, userID, productID int64, input UpdateListingInput) (*domain.Product, error) {
	product, err := s.ownedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.InvalidInput("title must not be empty")
		}
		product.Title = title
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return nil, apperrors.InvalidInput("price must be positive")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.InvalidInput(fmt.Sprintf("unknown category %d", *input.CategoryID))
			}
			return nil, fmt.Errorf("get category: %w", err)
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Condition != nil {
		if !domain.IsValidCondition(*input.Condition) {
			return nil, apperrors.InvalidInput("condition must be one of: new, like_new, good, fair, poor")
		}
		product.Condition = domain.Condition(*input.Condition)
	}
	if input.ImagePath != nil {
		product.ImagePath = input.ImagePath
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "listing updated",
		slog.Int64("product_id", product.ID),
	)

	return product, nil
}

// ToggleSold flips a listing between available and sold. Only the seller may
// do this. Returns the resulting sold state.
func (s *ProductService) ToggleSold(ctx context.Context, userID, productID int64) (bool, error) {
	product, err := s.ownedProduct(ctx, userID, productID)
	if err != nil {
		return false, err
	}

	product.IsSold = !product.IsSold
	if err := s.productRepo.Update(ctx, product); err != nil {
		return false, fmt.Errorf("update product: %w", err)
	}

	if product.IsSold {
		if err := s.producer.PublishListingSold(ctx, listingEvent(product)); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish listing.sold event",
				slog.Int64("product_id", product.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "listing sold state toggled",
		slog.Int64("product_id", product.ID),
		slog.Bool("is_sold", product.IsSold),
	)

	return product.IsSold, nil
}

// DeleteListing removes a listing and releases its image. Only the seller may
// delete their own listing.
func (s *ProductService) DeleteListing(ctx context.Context, userID, productID int64) error {
	product, err := s.ownedProduct(ctx, userID, productID)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if product.ImagePath != nil {
		if err := s.images.Release(*product.ImagePath); err != nil {
			s.logger.ErrorContext(ctx, "failed to release listing image",
				slog.Int64("product_id", productID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.producer.PublishListingDeleted(ctx, listingEvent(product)); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish listing.deleted event",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "listing deleted",
		slog.Int64("product_id", productID),
		slog.Int64("seller_id", userID),
	)

	return nil
}

// --- Like and Comment Operations ---

// ToggleLike flips the caller's like on a product and returns the new state
// with the updated like count.
func (s *ProductService) ToggleLike(ctx context.Context, userID, productID int64) (bool, int, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return false, 0, fmt.Errorf("get product: %w", err)
	}

	liked, err := s.likeRepo.Toggle(ctx, userID, productID)
	if err != nil {
		return false, 0, fmt.Errorf("toggle like: %w", err)
	}

	count, err := s.likeRepo.CountByProduct(ctx, productID)
	if err != nil {
		return false, 0, fmt.Errorf("count likes: %w", err)
	}

	return liked, count, nil
}

// AddComment leaves a comment on a product. Any authenticated user may
// comment, including the seller.
func (s *ProductService) AddComment(ctx context.Context, userID, productID int64, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.InvalidInput("comment text is required")
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	comment := &domain.Comment{
		UserID:    userID,
		ProductID: productID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment added",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("product_id", productID),
	)

	return comment, nil
}

// ListComments returns a product's comment thread, oldest first.
func (s *ProductService) ListComments(ctx context.Context, productID int64) ([]domain.Comment, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	comments, err := s.commentRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// --- Helpers ---

// ownedProduct fetches a product and verifies the caller is its seller.
// A missing product surfaces as not found before the ownership check, so a
// non-owner probing a dead ID cannot tell the difference.
func (s *ProductService) ownedProduct(ctx context.Context, userID, productID int64) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if product.SellerID != userID {
		return nil, apperrors.Forbidden("you do not own this listing")
	}

	return product, nil
}

func listingEvent(p *domain.Product) event.ListingData {
	return event.ListingData{
		ID:         p.ID,
		Title:      p.Title,
		PriceCents: p.PriceCents,
		CategoryID: p.CategoryID,
		SellerID:   p.SellerID,
		IsSold:     p.IsSold,
	}
}
