package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/priyanshu73/theUniBay/internal/auth"
	"github.com/priyanshu73/theUniBay/internal/domain"
	"github.com/priyanshu73/theUniBay/internal/event"
	"github.com/priyanshu73/theUniBay/internal/repository"
	apperrors "github.com/priyanshu73/theUniBay/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// UserService implements the business logic for accounts, profiles, and reviews.
type UserService struct {
	userRepo      repository.UserRepository
	productRepo   repository.ProductRepository
	reviewRepo    repository.ReviewRepository
	jwtManager    *auth.JWTManager
	producer      *event.Producer
	emailSuffixes []string
	logger        *slog.Logger
}

// NewUserService creates a new user service. emailSuffixes lists the email
// domain suffixes accepted at registration, e.g. ".edu".
func NewUserService(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	jwtManager *auth.JWTManager,
	producer *event.Producer,
	emailSuffixes []string,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		productRepo:   productRepo,
		reviewRepo:    reviewRepo,
		jwtManager:    jwtManager,
		producer:      producer,
		emailSuffixes: emailSuffixes,
		logger:        logger,
	}
}

// --- Input/Output types ---

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	ProfileInfo string
	CampusID    *int64
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput holds the parameters for updating a user's profile.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name        *string
	Email       *string
	ProfileInfo *string
	CampusID    *int64
}

// AddReviewInput holds the parameters for leaving a review about a user.
type AddReviewInput struct {
	ReviewerID     int64
	ReviewedUserID int64
	ProductID      *int64
	Rating         int
	Comment        string
}

// Profile is a user together with their listings and received reviews.
// AverageRating is nil when the user has no reviews yet.
type Profile struct {
	User          *domain.User     `json:"user"`
	Listings      []domain.Listing `json:"listings"`
	Reviews       []domain.Review  `json:"reviews"`
	AverageRating *float64         `json:"average_rating"`
}

// --- Auth Operations ---

// Register creates a new account, hashes the password, and returns the user
// with a signed access token. Emails are lowercased before storage so
// uniqueness is case-insensitive.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, "", apperrors.InvalidInput("name is required")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, "", apperrors.InvalidInput("email is required")
	}
	if !s.allowedEmail(email) {
		return nil, "", apperrors.InvalidInput(fmt.Sprintf("email must end with one of: %s", strings.Join(s.emailSuffixes, ", ")))
	}

	if len(input.Password) < minPasswordLength {
		return nil, "", apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		ProfileInfo:  strings.TrimSpace(input.ProfileInfo),
		CampusID:     input.CampusID,
		JoinDate:     time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, event.UserRegisteredData{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		CampusID: user.CampusID,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// Login authenticates a user with email and password, returning the user and
// a signed access token. The same error covers an unknown email and a wrong
// password so callers cannot tell which emails are registered.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, "", apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, "", apperrors.InvalidInput("password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.Int64("user_id", user.ID),
	)

	return user, token, nil
}

// --- Profile Operations ---

// GetProfile returns a user together with their listings, received reviews,
// and average rating.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}

	listings, err := s.productRepo.ListBySeller(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user products: %w", err)
	}

	reviews, err := s.reviewRepo.ListByReviewedUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}

	avg, err := s.reviewRepo.AverageRating(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("average user rating: %w", err)
	}

	return &Profile{
		User:          user,
		Listings:      listings,
		Reviews:       reviews,
		AverageRating: avg,
	}, nil
}

// UpdateProfile updates a user's own profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.InvalidInput("name must not be empty")
		}
		user.Name = name
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, apperrors.InvalidInput("email must not be empty")
		}
		if !s.allowedEmail(email) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("email must end with one of: %s", strings.Join(s.emailSuffixes, ", ")))
		}
		user.Email = email
	}

	if input.ProfileInfo != nil {
		user.ProfileInfo = strings.TrimSpace(*input.ProfileInfo)
	}

	if input.CampusID != nil {
		user.CampusID = input.CampusID
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user profile updated",
		slog.Int64("user_id", user.ID),
	)

	return user, nil
}

// DeleteAccount removes a user's own account. Their products, comments,
// likes, and authored reviews go with it; reviews they received survive.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.producer.PublishUserDeleted(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.deleted event",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user account deleted",
		slog.Int64("user_id", userID),
	)

	return nil
}

// --- Review Operations ---

// AddReview records feedback about another user. Users cannot review
// themselves, and ratings are integers from 1 to 5.
func (s *UserService) AddReview(ctx context.Context, input AddReviewInput) (*domain.Review, error) {
	if input.ReviewerID == input.ReviewedUserID {
		return nil, apperrors.InvalidInput("you cannot review yourself")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return nil, apperrors.InvalidInput("comment is required")
	}

	// The reviewed user must exist; the FK would catch this too, but a clean
	// not-found beats a surfaced constraint error.
	if _, err := s.userRepo.GetByID(ctx, input.ReviewedUserID); err != nil {
		return nil, fmt.Errorf("get reviewed user: %w", err)
	}

	review := &domain.Review{
		ReviewerID:     input.ReviewerID,
		ReviewedUserID: input.ReviewedUserID,
		ProductID:      input.ProductID,
		Rating:         input.Rating,
		Comment:        comment,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.producer.PublishReviewSubmitted(ctx, event.ReviewSubmittedData{
		ID:             review.ID,
		ReviewerID:     review.ReviewerID,
		ReviewedUserID: review.ReviewedUserID,
		Rating:         review.Rating,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.submitted event",
			slog.Int64("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review submitted",
		slog.Int64("review_id", review.ID),
		slog.Int64("reviewed_user_id", review.ReviewedUserID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// ListReviews returns the reviews a user has received, newest-first.
func (s *UserService) ListReviews(ctx context.Context, userID int64) ([]domain.Review, error) {
	reviews, err := s.reviewRepo.ListByReviewedUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// allowedEmail reports whether the lowercase email ends with one of the
// configured institutional suffixes. An empty suffix list allows any email.
func (s *UserService) allowedEmail(email string) bool {
	if len(s.emailSuffixes) == 0 {
		return true
	}
	for _, suffix := range s.emailSuffixes {
		if strings.HasSuffix(email, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}
