package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"vetusrex/internal/models"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func articleRows(items []*models.Article) [][]string {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		cover := "-"
		if a.HasCover() {
			cover = "да"
		}
		rows = append(rows, []string{
			a.ID,
			a.CreatedAt.Format(time.DateOnly),
			string(a.Tag),
			a.Title,
			cover,
		})
	}
	return rows
}

func renderArticles(w io.Writer, items []*models.Article) error {
	t := newTable(w)
	t.Header([]string{"id", "date", "tag", "title", "cover"})
	if err := t.Bulk(articleRows(items)); err != nil {
		return err
	}
	return t.Render()
}
