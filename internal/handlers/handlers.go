package handlers

import (
	"WebCarros/internal/config"
	"WebCarros/internal/metrics"
	"WebCarros/internal/middleware"
	"WebCarros/internal/service"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров. gatherer может быть nil — тогда /metrics не публикуется.
func NewHandler(
	userService *service.UserService,
	blobService *service.BlobService,
	docService *service.DocumentService,
	logger *zap.SugaredLogger,
	config *config.Config,
	gatherer prometheus.Gatherer,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithAuth(config.AuthSecret))
	r.Use(middleware.WithLogging)

	userHandler := NewUserHandler(userService, logger, config)
	blobHandler := NewBlobHandler(blobService, logger, config)
	docHandler := NewDocumentHandler(docService, logger)

	// User routes
	limiter := middleware.NewAuthRateLimiter(config.AuthRatePerMin)
	r.With(limiter.Middleware).Post("/api/user/register", userHandler.Register)
	r.With(limiter.Middleware).Post("/api/user/login", userHandler.Login)
	r.Post("/api/user/logout", userHandler.Logout)
	r.Get("/api/user/me", userHandler.Me)
	r.Post("/api/user/profile", userHandler.UpdateProfile)

	// Blob storage
	r.Post("/api/blobs/upload", blobHandler.Upload)
	r.Post("/api/blobs/url", blobHandler.DownloadURL)
	r.Delete("/api/blobs", blobHandler.Delete)
	r.Get("/files/*", blobHandler.Serve)

	// Documents
	r.Post("/api/docs/{collection}", docHandler.Create)
	r.Get("/api/docs/{collection}/{id}", docHandler.Get)

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))
	}

	return &Handler{Router: r}
}

// requireUser отвечает 401, если запрос не аутентифицирован.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return uid, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
