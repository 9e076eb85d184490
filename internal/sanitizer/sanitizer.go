// Package sanitizer очищает авторский HTML перед выводом.
//
// Первый проход — bluemonday: вырезает исполняемые конструкции (script, style,
// обработчики событий, javascript:-адреса) и всё, что вне словаря редактора.
// Второй — каноническая сериализация через richtext, поэтому результат
// идемпотентен и совпадает с тем, что отдаёт редактор.
package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"

	"vetusrex/internal/richtext"
)

type Sanitizer struct {
	policy *bluemonday.Policy
}

func New() *Sanitizer {
	p := bluemonday.NewPolicy()

	// словарь редактора
	p.AllowElements("p", "h2", "h3", "strong", "em", "s", "ul", "ol", "li", "blockquote", "hr")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")

	// теги, которые сводятся к словарю при разборе
	p.AllowElements("h1", "h4", "h5", "h6", "div", "br", "pre", "code", "b", "i", "u", "del", "strike", "span")

	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)

	return &Sanitizer{policy: p}
}

// Sanitize возвращает безопасный канонический HTML. Пустой вход даёт "<p></p>".
func (s *Sanitizer) Sanitize(raw string) string {
	return richtext.Parse(s.policy.Sanitize(raw)).HTML()
}

// Document — то же, что Sanitize, но без сериализации.
func (s *Sanitizer) Document(raw string) *richtext.Document {
	return richtext.Parse(s.policy.Sanitize(raw))
}

var std = New()

func Sanitize(raw string) string { return std.Sanitize(raw) }

func Document(raw string) *richtext.Document { return std.Document(raw) }
