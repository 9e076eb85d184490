package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vetusrex/internal/models"
	"vetusrex/internal/services"
	"vetusrex/internal/storage"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Опубликовать новость",
	Long: `Создаёт новость от имени профиля --as (нужна роль admin).
Текст берётся из --content или из файла --file ("-" — stdin).`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Отредактировать новость",
	Long: `Меняет только переданные поля. --cover заменяет обложку (прежний файл
удаляется после сохранения), --remove-cover убирает её.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Удалить новость вместе с обложкой",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "заголовок")
	cmd.Flags().String("tag", "", "тег: update, patch, event, announcement, community")
	cmd.Flags().String("content", "", "текст новости (HTML)")
	cmd.Flags().String("file", "", "файл с текстом новости; - читает stdin")
	cmd.Flags().String("cover", "", "файл обложки (png, jpeg, webp, gif)")
}

func init() {
	addFormFlags(publishCmd)
	addFormFlags(editCmd)
	editCmd.Flags().Bool("remove-cover", false, "убрать обложку")
	deleteCmd.Flags().Bool("yes", false, "подтвердить удаление")

	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
}

// readBody возвращает текст из --content или --file и признак того, что он задан.
func readBody(cmd *cobra.Command) (string, bool, error) {
	content, _ := cmd.Flags().GetString("content")
	file, _ := cmd.Flags().GetString("file")

	switch {
	case file != "" && cmd.Flags().Changed("content"):
		return "", false, fmt.Errorf("--content и --file взаимоисключающие")
	case file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	}
	return content, cmd.Flags().Changed("content"), nil
}

func readCover(cmd *cobra.Command) (*services.CoverFile, error) {
	path, _ := cmd.Flags().GetString("cover")
	if path == "" {
		return nil, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > storage.MaxCoverSize {
		return nil, fmt.Errorf("обложка больше %d МБ", storage.MaxCoverSize>>20)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &services.CoverFile{Data: data, Filename: filepath.Base(path)}, nil
}

func printArticle(cmd *cobra.Command, verb string, a *models.Article) error {
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), services.Present(a))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", verb, a.ID, a.Title)
	return nil
}

func runPublish(cmd *cobra.Command, _ []string) error {
	title, _ := cmd.Flags().GetString("title")
	tag, _ := cmd.Flags().GetString("tag")
	body, _, err := readBody(cmd)
	if err != nil {
		return err
	}
	cover, err := readCover(cmd)
	if err != nil {
		return err
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		sess, err := session(ctx, b)
		if err != nil {
			return err
		}
		created, err := services.NewNewsDetail(b.content, sess).Submit(ctx, services.SubmitInput{
			Title:   title,
			Content: body,
			Tag:     models.Tag(tag),
			Cover:   cover,
		}, services.SubmitOptions{})
		if err != nil {
			return err
		}
		return printArticle(cmd, "опубликовано", created)
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	id := args[0]
	body, hasBody, err := readBody(cmd)
	if err != nil {
		return err
	}
	cover, err := readCover(cmd)
	if err != nil {
		return err
	}
	removeCover, _ := cmd.Flags().GetBool("remove-cover")
	if cover != nil && removeCover {
		return fmt.Errorf("--cover и --remove-cover взаимоисключающие")
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		sess, err := session(ctx, b)
		if err != nil {
			return err
		}
		current, err := b.content.GetByID(ctx, id)
		if err != nil {
			return err
		}

		in := services.SubmitInput{
			Title:       current.Title,
			Content:     current.Content,
			Tag:         current.Tag,
			Cover:       cover,
			RemoveCover: removeCover,
		}
		if cmd.Flags().Changed("title") {
			in.Title, _ = cmd.Flags().GetString("title")
		}
		if cmd.Flags().Changed("tag") {
			tag, _ := cmd.Flags().GetString("tag")
			in.Tag = models.Tag(tag)
		}
		if hasBody {
			in.Content = body
		}

		updated, err := services.NewNewsDetail(b.content, sess).Submit(ctx, in,
			services.SubmitOptions{IsEdit: true, ID: id})
		if err != nil {
			return err
		}
		return printArticle(cmd, "сохранено", updated)
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return fmt.Errorf("удаление необратимо, повторите с --yes")
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		sess, err := session(ctx, b)
		if err != nil {
			return err
		}
		if err := services.NewNewsDetail(b.content, sess).Remove(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "удалено: %s\n", args[0])
		return nil
	})
}
