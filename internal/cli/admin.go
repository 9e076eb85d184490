package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vetusrex/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Сводка по новостям (нужна роль admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withBackend(cmd, func(ctx context.Context, b *backend) error {
			sess, err := session(ctx, b)
			if err != nil {
				return err
			}
			st, err := b.content.Stats(ctx, sess)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, st)
			}

			t := newTable(out)
			t.Header([]string{"tag", "count", "share"})
			for _, ti := range models.Tags() {
				if err := t.Append([]string{
					ti.Label,
					strconv.Itoa(st.ByTag[ti.Key]),
					strconv.Itoa(st.ByTagPct[ti.Key]) + "%",
				}); err != nil {
					return err
				}
			}
			if err := t.Render(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nвсего %d, с обложкой %d\n", st.Total, st.WithCover)
			return nil
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить схему БД",
	Long:  `Создаёт таблицы profiles и news и индексы, если их ещё нет. Повторный запуск безопасен.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withBackend(cmd, func(ctx context.Context, b *backend) error {
			if err := b.migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "схема применена")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(migrateCmd)
}
