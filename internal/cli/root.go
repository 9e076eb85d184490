// Package cli — newsctl, консольная админка новостей поверх тех же сервисов, что и HTTP API.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vetusrex/internal/app"
	"vetusrex/internal/apperr"
	"vetusrex/internal/config"
	"vetusrex/internal/db"
	"vetusrex/internal/logger"
	"vetusrex/internal/models"
	"vetusrex/internal/repository"
	"vetusrex/internal/services"
)

var (
	asUser  string
	asJSON  bool
	verbose bool
	cfg     *config.Config
)

// backend — то, что нужно командам от приложения. В тестах подменяется через openBackend.
type backend struct {
	content  *services.ContentService
	profiles repository.ProfileRepo
	migrate  func(ctx context.Context) error
	close    func()
}

var openBackend = func(ctx context.Context, cfg *config.Config) (*backend, error) {
	c, err := app.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &backend{
		content:  c.Content,
		profiles: c.Profiles,
		migrate:  func(ctx context.Context) error { return db.Migrate(ctx, c.Pool) },
		close:    c.Close,
	}, nil
}

var rootCmd = &cobra.Command{
	Use:   "newsctl",
	Short: "Управление новостями VetusRex из консоли",
	Long: `newsctl работает с той же БД и тем же S3, что и HTTP API.

Мутирующие команды выполняются от имени профиля из --as (id или username),
права проверяются так же, как в админке: нужна роль admin.

Примеры:
  newsctl list --tag patch --pages 2
  newsctl show 0b8e6a52-1c4f-4f0a-8d8e-5f3b2c1a9e77
  newsctl publish --as gm --title "Patch 1.2" --tag patch --file notes.html --cover cover.png
  newsctl edit <id> --as gm --remove-cover
  newsctl token <user-id> --ttl 1h`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute запускает корневую команду с контекстом (отмена по сигналу).
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&asUser, "as", "", "профиль, от имени которого выполняется команда (id или username)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "вывод в JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "подробный лог в stderr")
}

func initConfig() error {
	logger.Log = zap.NewNop()
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger.Log = l
		}
	}

	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		return fmt.Errorf("загрузка конфига: %w", err)
	}
	logger.Log.Debug("newsctl: конфиг загружен", zap.String("dsn", cfg.GetDSNSafe()))
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withBackend открывает подключения на время одной команды.
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *backend) error) error {
	ctx := commandContext(cmd)
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("подключение: %w", err)
	}
	defer b.close()
	return fn(ctx, b)
}

// session разрешает --as в сессию. Без --as — анонимная сессия.
func session(ctx context.Context, b *backend) (models.Session, error) {
	if asUser == "" {
		return models.Session{}, nil
	}
	if _, err := uuid.Parse(asUser); err == nil {
		return services.ResolveSession(ctx, b.profiles, asUser)
	}
	p, err := b.profiles.GetByUsername(ctx, asUser)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Session{}, fmt.Errorf("профиль %q не найден", asUser)
		}
		return models.Session{}, err
	}
	return p.Session(), nil
}

// ErrorMessage — текст ошибки для терминала: для ошибок сервисов без внутренних подробностей.
func ErrorMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return apperr.Message(err)
	}
	return err.Error()
}
