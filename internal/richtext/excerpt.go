package richtext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultExcerptLen — длина превью в карточке новости.
const DefaultExcerptLen = 150

// PlainText извлекает видимый текст из HTML; блоки разделяются пробелом.
func PlainText(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript, template").Remove()
	doc.Find("p, h1, h2, h3, h4, h5, h6, li, blockquote, div, br").AppendHtml(" ")
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Truncate обрезает текст до max рун и добавляет многоточие.
func Truncate(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return strings.TrimRight(string(r[:max]), " \t\n") + "..."
}

func Excerpt(src string, max int) string {
	return Truncate(PlainText(src), max)
}
