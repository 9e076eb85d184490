// Package editor — модель редактора новостей: документ, выделение и команды
// тулбара. После каждой команды Apply возвращает сериализованный HTML, который
// вызывающий держит как черновик.
package editor

import (
	"strings"

	"vetusrex/internal/apperr"
	"vetusrex/internal/richtext"
	"vetusrex/internal/sanitizer"
)

// Pos — позиция в документе: номер строки и смещение в рунах.
// Строка-вставка (hr, img) имеет длину 1: смещение 0 перед ней, 1 после.
type Pos struct {
	Line   int
	Offset int
}

func (p Pos) before(o Pos) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Offset < o.Offset)
}

// Selection — диапазон [From, To); при From == To это курсор.
type Selection struct {
	From Pos
	To   Pos
}

func Cursor(line, offset int) Selection {
	p := Pos{Line: line, Offset: offset}
	return Selection{From: p, To: p}
}

func (s Selection) Collapsed() bool { return s.From == s.To }

type Editor struct {
	doc *richtext.Document
	sel Selection
	// метки для следующего ввода при свёрнутом курсоре; nil — наследовать от текста
	stored *richtext.Mark
}

// New создаёт редактор, засеянный HTML; пустая строка даёт пустой документ.
// Seed проходит санитайзер, поэтому Serialize сразу после New совпадает с
// sanitizer.Sanitize(seed).
func New(seed string) *Editor {
	return &Editor{doc: sanitizer.Document(seed)}
}

func (e *Editor) Selection() Selection { return e.sel }

// Select устанавливает выделение; позиции приводятся к границам документа.
func (e *Editor) Select(sel Selection) {
	from, to := e.clamp(sel.From), e.clamp(sel.To)
	if to.before(from) {
		from, to = to, from
	}
	e.sel = Selection{From: from, To: to}
	e.stored = nil
}

func (e *Editor) SelectAll() {
	last := len(e.doc.Lines) - 1
	e.Select(Selection{To: Pos{Line: last, Offset: e.lineLen(last)}})
}

func (e *Editor) Serialize() string { return e.doc.HTML() }

func (e *Editor) IsEmpty() bool { return e.doc.IsEmpty() }

// Document возвращает копию текущего документа.
func (e *Editor) Document() *richtext.Document { return e.doc.Clone() }

// Apply выполняет команду и возвращает HTML после неё.
// При ошибке документ не меняется.
func (e *Editor) Apply(cmd Command) (string, error) {
	const op = "editor.Apply"

	switch c := cmd.(type) {
	case Bold:
		e.toggleMark(richtext.Bold)
	case Italic:
		e.toggleMark(richtext.Italic)
	case Strike:
		e.toggleMark(richtext.Strike)
	case ToggleHeading:
		if c.Level != 2 && c.Level != 3 {
			return "", apperr.Validation(op, "допустимы заголовки уровней 2 и 3")
		}
		e.toggleHeading(c.Level)
	case BulletList:
		e.toggleList(richtext.ListBullet)
	case OrderedList:
		e.toggleList(richtext.ListOrdered)
	case Blockquote:
		e.toggleQuote()
	case HorizontalRule:
		e.insertEmbed(richtext.Embed{Kind: richtext.EmbedRule})
	case Image:
		src, ok := richtext.NormalizeURL(c.Src, richtext.ImageURL)
		if !ok {
			return "", apperr.Validation(op, "недопустимый адрес изображения")
		}
		alt := strings.Join(strings.Fields(cleanText(c.Alt)), " ")
		e.insertEmbed(richtext.Embed{Kind: richtext.EmbedImage, Src: src, Alt: alt})
	case SetLink:
		if strings.TrimSpace(c.Href) == "" {
			e.unsetLink()
			break
		}
		href, ok := richtext.NormalizeURL(c.Href, richtext.LinkURL)
		if !ok {
			return "", apperr.Validation(op, "недопустимый адрес ссылки")
		}
		e.setLink(href)
	case UnsetLink:
		e.unsetLink()
	case InsertText:
		e.insertText(c.Text)
	case Delete:
		if e.sel.Collapsed() {
			e.deleteBackward()
		} else {
			e.deleteRange(e.sel.From, e.sel.To)
		}
	case nil:
		return "", apperr.Validation(op, "пустая команда")
	default:
		return "", apperr.Validation(op, "неизвестная команда")
	}

	e.doc.Normalize()
	e.sel = Selection{From: e.clamp(e.sel.From), To: e.clamp(e.sel.To)}
	return e.Serialize(), nil
}

func (e *Editor) lineLen(i int) int {
	l := &e.doc.Lines[i]
	if l.IsEmbed() {
		return 1
	}
	return l.Len()
}

func (e *Editor) clamp(p Pos) Pos {
	if p.Line < 0 {
		return Pos{}
	}
	if last := len(e.doc.Lines) - 1; p.Line > last {
		return Pos{Line: last, Offset: e.lineLen(last)}
	}
	p.Offset = max(0, min(p.Offset, e.lineLen(p.Line)))
	return p
}

func (e *Editor) setCursor(p Pos) {
	e.sel = Selection{From: p, To: p}
}
