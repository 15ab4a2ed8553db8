package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/priyanshu73/theUniBay/internal/auth"
	"github.com/priyanshu73/theUniBay/internal/service"
	"github.com/priyanshu73/theUniBay/pkg/health"
	"github.com/priyanshu73/theUniBay/pkg/middleware"
)

// RouterConfig bundles the knobs the router needs beyond its services.
type RouterConfig struct {
	CORS          middleware.CORSConfig
	AuthRateRPS   int
	AuthRateBurst int
}

// NewRouter creates a chi router with all marketplace routes registered.
func NewRouter(
	userService *service.UserService,
	productService *service.ProductService,
	catalogService *service.CatalogService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("unibay"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
		}, nil
	}

	authHandler := NewAuthHandler(userService, logger)
	userHandler := NewUserHandler(userService, logger)
	productHandler := NewProductHandler(productService, logger)
	catalogHandler := NewCatalogHandler(catalogService, logger)

	// Auth endpoints (public, rate-limited against credential stuffing)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.RateLimit(cfg.AuthRateRPS, cfg.AuthRateBurst, logger))

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Reference data (public)
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", catalogHandler.ListCategories)
		r.Get("/stats", catalogHandler.CategoryStats)
	})
	r.Get("/api/v1/campuses", catalogHandler.ListCampuses)

	// Listings: browsing is public, mutation requires auth. Reads carry
	// OptionalAuth so a signed-in viewer sees their own like state.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(tokenValidator))

			r.Get("/", productHandler.Search)
			r.Get("/{id}", productHandler.Get)
			r.Get("/{id}/comments", productHandler.ListComments)
		})

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))

			r.Post("/", productHandler.Create)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
			r.Post("/{id}/sold", productHandler.ToggleSold)
			r.Post("/{id}/like", productHandler.ToggleLike)
			r.Post("/{id}/comments", productHandler.AddComment)
		})
	})

	// Profiles: viewing is public, self-management and reviews require auth.
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))

			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.UpdateMe)
			r.Delete("/me", userHandler.DeleteMe)
			r.Post("/{id}/reviews", userHandler.AddReview)
		})

		r.Get("/{id}", userHandler.GetProfile)
		r.Get("/{id}/reviews", userHandler.ListReviews)
	})

	return r
}
