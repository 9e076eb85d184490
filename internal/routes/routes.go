package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vetusrex/internal/handlers"
	"vetusrex/internal/middleware"
	"vetusrex/internal/models"
)

func InitRoutes(
	router *mux.Router,
	auth *middleware.Authenticator,
	newsHandler *handlers.NewsHandler,
	logsHandler *handlers.AdminLogsHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.Logging)

	router.HandleFunc("/healthz", healthHandler.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты (сессия прикладывается, если токен есть) ---
	public := api.PathPrefix("/news").Subrouter()
	public.Use(auth.Optional)
	public.HandleFunc("", newsHandler.ListNews).Methods(http.MethodGet)
	public.HandleFunc("/latest", newsHandler.LatestNews).Methods(http.MethodGet)
	public.HandleFunc("/tags", newsHandler.ListTags).Methods(http.MethodGet)
	public.HandleFunc("/{id}", newsHandler.GetNews).Methods(http.MethodGet)

	// --- Админка: JWT + роль ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Required, middleware.OnlyRole(models.RoleAdmin))

	admin.HandleFunc("/news", newsHandler.CreateNews).Methods(http.MethodPost)
	admin.HandleFunc("/news/preview", newsHandler.Preview).Methods(http.MethodPost)
	admin.HandleFunc("/news/stats", newsHandler.Stats).Methods(http.MethodGet)
	admin.HandleFunc("/news/cover", newsHandler.UploadCover).Methods(http.MethodPost)
	admin.HandleFunc("/news/cover", newsHandler.DeleteCover).Methods(http.MethodDelete)
	admin.HandleFunc("/news/{id}", newsHandler.UpdateNews).Methods(http.MethodPatch)
	admin.HandleFunc("/news/{id}", newsHandler.DeleteNews).Methods(http.MethodDelete)

	admin.HandleFunc("/logs/days", logsHandler.ListDays).Methods(http.MethodGet)
	admin.HandleFunc("/logs", logsHandler.GetLogs).Methods(http.MethodGet)
}
