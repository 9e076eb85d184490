package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vetusrex/internal/richtext"
	"vetusrex/internal/sanitizer"
	"vetusrex/internal/utils"
)

var tokenCmd = &cobra.Command{
	Use:   "token USER_ID",
	Short: "Выпустить access-токен для локальной разработки",
	Long:  `Подписывает токен секретом JWT_SECRET в формате провайдера идентификации (sub = id профиля).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if _, err := uuid.Parse(args[0]); err != nil {
			return fmt.Errorf("USER_ID должен быть UUID")
		}
		if strings.TrimSpace(cfg.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET не задан")
		}
		if ttl <= 0 {
			return fmt.Errorf("--ttl должно быть положительным")
		}
		tok, err := utils.GenerateToken(cfg.JWTSecret, args[0], ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [FILE]",
	Short: "Прогнать HTML через санитайзер",
	Long:  `Читает HTML из файла или stdin и печатает то, что увидит читатель новости.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if len(args) == 0 || args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		clean := sanitizer.Sanitize(string(data))
		if text, _ := cmd.Flags().GetBool("text"); text {
			clean = richtext.PlainText(clean)
		}
		fmt.Fprintln(cmd.OutOrStdout(), clean)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "срок жизни токена")
	sanitizeCmd.Flags().Bool("text", false, "вывести только видимый текст")

	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(sanitizeCmd)
}
