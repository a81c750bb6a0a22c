package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/timelessthreads/storefront/utils"
	"go.uber.org/zap"
)

// NewRouter wires the middleware stack and all storefront routes.
func NewRouter(h *Handler) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggerMiddleware(utils.Logger()))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	router.Group(func(r chi.Router) {
		r.Use(h.SessionMiddleware)

		r.Get("/", h.Home)
		r.Get("/search", h.Search)
		r.Get("/category/{name}", h.CategoryView)
		r.Get("/products/{productID}", h.ProductDetail)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/send-otp", h.SendOTP)
			r.Post("/verify-otp", h.VerifyOTP)
			r.Post("/signup", h.SignupStart)
			r.Post("/signup/name", h.SignupName)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.RequireAuth(h.Me))
			r.Get("/google/login", h.GoogleLogin)
			r.Get("/google/callback", h.GoogleCallback)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.ViewCart)
			r.Post("/add", h.AddToCart)
			r.Delete("/{productID}/{size}/{color}", h.RemoveFromCart)
			r.Get("/checkout", h.Checkout)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/{productID}", h.RequireAuth(h.AddReview))
			r.Delete("/{reviewID}", h.RequireAuth(h.DeleteReview))
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "endpoint not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return router
}

// LoggerMiddleware logs every request with its final status and duration.
func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				logger.Info("HTTP request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
