package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vetusrex/internal/richtext"
	"vetusrex/internal/services"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Одна новость",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Bool("html", false, "вывести санитизированный HTML вместо текста")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	asHTML, _ := cmd.Flags().GetBool("html")

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		sess, err := session(ctx, b)
		if err != nil {
			return err
		}
		view, err := services.NewNewsDetail(b.content, sess).Load(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, view)
		}

		a := view.Article
		fmt.Fprintln(out, a.Title)
		fmt.Fprintf(out, "%s · %s", view.TagInfo.Label, a.CreatedAt.Format(time.DateTime))
		if a.Author != nil {
			fmt.Fprintf(out, " · %s", a.Author.Username)
		}
		fmt.Fprintln(out)
		if a.HasCover() {
			fmt.Fprintf(out, "обложка: %s\n", *a.CoverImageURL)
		}
		fmt.Fprintln(out)
		if asHTML {
			fmt.Fprintln(out, view.SafeHTML)
		} else {
			fmt.Fprintln(out, richtext.PlainText(view.SafeHTML))
		}
		return nil
	})
}
