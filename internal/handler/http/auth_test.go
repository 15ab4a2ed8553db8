package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/priyanshu73/theUniBay/internal/auth"
	"github.com/priyanshu73/theUniBay/internal/domain"
	"github.com/priyanshu73/theUniBay/internal/event"
	"github.com/priyanshu73/theUniBay/internal/service"
	apperrors "github.com/priyanshu73/theUniBay/pkg/errors"
	"github.com/priyanshu73/theUniBay/pkg/httputil"
	"github.com/priyanshu73/theUniBay/pkg/middleware"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) ListByReviewedUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) AverageRating(ctx context.Context, userID int64) (*float64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

// ============================================================================
// Test Helpers
// ============================================================================

const authedUserID = int64(7)

func handlerTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func handlerTestProducer() *event.Producer {
	return event.NewProducer(event.Nop{}, handlerTestLogger())
}

func handlerUserService(userRepo *mockUserRepo, productRepo *mockProductRepo, reviewRepo *mockReviewRepo) *service.UserService {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return service.NewUserService(userRepo, productRepo, reviewRepo, jwtManager, handlerTestProducer(), []string{".edu"}, handlerTestLogger())
}

// fakeTokenValidator returns a middleware.TokenValidator that always succeeds
// and injects the given userID into the request context.
func fakeTokenValidator(userID int64) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		return &middleware.Claims{UserID: userID, Email: "alice@uw.edu"}, nil
	}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func handlerSampleUser() *domain.User {
	campusID := int64(2)
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse1"), bcrypt.MinCost)
	return &domain.User{
		ID:           authedUserID,
		Name:         "Alice",
		Email:        "alice@uw.edu",
		PasswordHash: string(hash),
		ProfileInfo:  "CS senior, selling textbooks",
		CampusID:     &campusID,
		JoinDate:     time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func setupAuthRouter(handler *AuthHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
	})
	return r
}

// ============================================================================
// Register
// ============================================================================

func TestRegister_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := handlerUserService(userRepo, new(mockProductRepo), new(mockReviewRepo))
	router := setupAuthRouter(NewAuthHandler(svc, handlerTestLogger()))

	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = authedUserID
		}).
		Return(nil)

	body := RegisterRequest{
		Name:     "Alice",
		Email:    "alice@uw.edu",
		Password: "correct-horse1",
	}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])
	userRepo.AssertExpectations(t)
}

func TestRegister_InvalidJSON(t *testing.T) {
	svc := handlerUserService(new(mockUserRepo), new(mockProductRepo), new(mockReviewRepo))
	router := setupAuthRouter(NewAuthHandler(svc, handlerTestLogger()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte(`{invalid`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestRegister_ValidationError_BadEmail(t *testing.T) {
	svc := handlerUserService(new(mockUserRepo), new(mockProductRepo), new(mockReviewRepo))
	router := setupAuthRouter(NewAuthHandler(svc, handlerTestLogger()))

	body := RegisterRequest{Name: "Alice", Email: "not-an-email", Password: "correct-horse1"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_NonInstitutionalEmail(t *testing.T) {
	svc := handlerUserService(new(mockUserRepo), new(mockProductRepo), new(mockReviewRepo))
	router := setupAuthRouter(NewAuthHandler(svc, handlerTestLogger()))

	body := RegisterRequest{Name: "Alice", Email: "alice@gmail.com", Password: "correct-horse1"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := handlerUserService(userRepo, new(mockProductRepo), new(mockReviewRepo))
	router := setupAuthRouter(NewAuthHandler(svc, handlerTestLogger()))

	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "alice@uw.edu"))

	body := RegisterRequest{Name: "Alice", Email: "alice@uw.edu", Password: "correct-horse1"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)
}

// ============================================================================
// Login
// ============================================================================

func TestLogin_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := handlerUserService(userRepo, new(mockProductRepo), new(mockReviewRepo))
	router := setupAuthRouter(NewAuthHandler(svc, handlerTestLogger()))

	userRepo.On("GetByEmail", mock.Anything, "alice@uw.edu").Return(handlerSampleUser(), nil)

	body := LoginRequest{Email: "alice@uw.edu", Password: "correct-horse1"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := handlerUserService(userRepo, new(mockProductRepo), new(mockReviewRepo))
	router := setupAuthRouter(NewAuthHandler(svc, handlerTestLogger()))

	userRepo.On("GetByEmail", mock.Anything, "alice@uw.edu").Return(handlerSampleUser(), nil)

	body := LoginRequest{Email: "alice@uw.edu", Password: "wrong-password"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := handlerUserService(userRepo, new(mockProductRepo), new(mockReviewRepo))
	router := setupAuthRouter(NewAuthHandler(svc, handlerTestLogger()))

	userRepo.On("GetByEmail", mock.Anything, "nobody@uw.edu").Return(nil, apperrors.ErrNotFound)

	body := LoginRequest{Email: "nobody@uw.edu", Password: "correct-horse1"}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_MissingPassword(t *testing.T) {
	svc := handlerUserService(new(mockUserRepo), new(mockProductRepo), new(mockReviewRepo))
	router := setupAuthRouter(NewAuthHandler(svc, handlerTestLogger()))

	body := `{"email":"alice@uw.edu"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
