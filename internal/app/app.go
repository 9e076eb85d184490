package app

import (
	"context"
	"fmt"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"vetusrex/internal/config"
	"vetusrex/internal/db"
	"vetusrex/internal/handlers"
	"vetusrex/internal/logger"
	"vetusrex/internal/middleware"
	"vetusrex/internal/repository"
	"vetusrex/internal/routes"
	"vetusrex/internal/services"
	"vetusrex/internal/storage"
)

// Container — собранные зависимости; общий для HTTP-сервера и newsctl.
type Container struct {
	Pool     *pgxpool.Pool
	Profiles repository.ProfileRepo
	Content  *services.ContentService
}

func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// Build подключается к БД и S3 и собирает сервисы.
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	conn, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	logger.Log.Info("Подключение к БД установлено", zap.String("dsn", cfg.GetDSNSafe()))

	s3Store, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Репозитории
	articleRepo := repository.NewArticleRepo(conn)
	profileRepo := repository.NewProfileRepo(conn)

	// Сервисы
	covers := storage.NewCoverStore(s3Store, cfg.S3PublicURL)
	content := services.NewContentService(articleRepo, covers, cfg.RequestTimeout)

	return &Container{Pool: conn, Profiles: profileRepo, Content: content}, nil
}

func InitApp(ctx context.Context, cfg *config.Config) (*mux.Router, *Container, error) {
	c, err := Build(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Migrate(ctx, c.Pool); err != nil {
		c.Close()
		return nil, nil, err
	}

	// Хендлеры
	auth := middleware.NewAuthenticator(cfg.JWTSecret, c.Profiles)
	newsHandler := handlers.NewNewsHandler(c.Content, cfg.NewsPageSize, cfg.NewsPreviewSize)
	logsHandler := handlers.NewAdminLogsHandler(cfg.LogDir)
	healthHandler := handlers.NewHealthHandler(c.Pool)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, auth, newsHandler, logsHandler, healthHandler)

	return router, c, nil
}
