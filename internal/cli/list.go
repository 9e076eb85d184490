package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vetusrex/internal/models"
	"vetusrex/internal/services"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Лента новостей с фильтром по тегу",
	Long: `Загружает ленту так же, как страница /news: первая страница и
дальше по одной через «Показать ещё», пока не наберётся --pages страниц.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Последние новости (превью для главной)",
	Args:  cobra.NoArgs,
	RunE:  runLatest,
}

func init() {
	listCmd.Flags().String("tag", "", "фильтр: update, patch, event, announcement, community")
	listCmd.Flags().Int("pages", 1, "сколько страниц загрузить")
	listCmd.Flags().Int("page-size", 0, "размер страницы (по умолчанию NEWS_PAGE_SIZE)")
	latestCmd.Flags().Int("limit", 0, "сколько новостей (по умолчанию NEWS_PREVIEW_SIZE)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(latestCmd)
}

type listOutput struct {
	Items      []*models.Article `json:"items"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	HasMore    bool              `json:"has_more"`
}

func runList(cmd *cobra.Command, _ []string) error {
	rawTag, _ := cmd.Flags().GetString("tag")
	pages, _ := cmd.Flags().GetInt("pages")
	pageSize, _ := cmd.Flags().GetInt("page-size")

	tag, ok := models.ParseTag(rawTag)
	if !ok {
		return fmt.Errorf("неизвестный тег %q", rawTag)
	}
	if pages < 1 {
		return fmt.Errorf("--pages должно быть положительным")
	}
	if pageSize < 1 {
		pageSize = cfg.NewsPageSize
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		list := services.NewNewsList(b.content, pageSize)
		defer list.Close()

		if err := list.SetFilter(ctx, tag); err != nil {
			return err
		}
		for i := 1; i < pages; i++ {
			err := list.LoadMore(ctx)
			if errors.Is(err, services.ErrNoMore) {
				break
			}
			if err != nil {
				return err
			}
		}

		st := list.State()
		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, listOutput{
				Items:      st.Items,
				TotalCount: st.TotalCount,
				Page:       st.Page,
				HasMore:    st.HasMore(),
			})
		}
		if len(st.Items) == 0 {
			fmt.Fprintln(out, "Новостей пока нет")
			return nil
		}
		if err := renderArticles(out, st.Items); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nпоказано %d из %d\n", len(st.Items), st.TotalCount)
		return nil
	})
}

func runLatest(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 1 {
		limit = cfg.NewsPreviewSize
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		items, err := services.NewNewsList(b.content, cfg.NewsPageSize).Latest(ctx, limit)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), items)
		}
		return renderArticles(cmd.OutOrStdout(), items)
	})
}
