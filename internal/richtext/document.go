// Package richtext — модель документа новостного редактора.
//
// Документ — последовательность строк (абзацы, заголовки, элементы списков,
// вставки hr/img). Блочные свойства строки — уровень заголовка, тип списка и
// признак цитаты; текст строки — спаны с метками bold/italic/strike и ссылкой.
// Parse и HTML образуют неподвижную точку: Parse(d.HTML()) равен d для
// нормализованного документа.
package richtext

import (
	"strings"
	"unicode/utf8"
)

// EmptyHTML — сериализация пустого документа.
const EmptyHTML = "<p></p>"

type Mark uint8

const (
	Bold Mark = 1 << iota
	Italic
	Strike
)

func (m Mark) Has(x Mark) bool { return m&x == x }

type ListKind uint8

const (
	ListNone ListKind = iota
	ListBullet
	ListOrdered
)

type EmbedKind uint8

const (
	EmbedRule EmbedKind = iota + 1
	EmbedImage
)

type Embed struct {
	Kind EmbedKind
	Src  string
	Alt  string
}

type Span struct {
	Text  string
	Marks Mark
	Href  string
}

func (s Span) sameFormat(o Span) bool {
	return s.Marks == o.Marks && s.Href == o.Href
}

type Line struct {
	Spans   []Span
	Heading int // 0, 2 или 3
	List    ListKind
	Quote   bool
	Embed   *Embed
}

func (l *Line) IsEmbed() bool { return l.Embed != nil }

// Len — длина строки в рунах; у вставок 0.
func (l *Line) Len() int {
	n := 0
	for _, s := range l.Spans {
		n += utf8.RuneCountInString(s.Text)
	}
	return n
}

func (l *Line) Text() string {
	var sb strings.Builder
	for _, s := range l.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func (l Line) clone() Line {
	c := l
	if l.Spans != nil {
		c.Spans = make([]Span, len(l.Spans))
		copy(c.Spans, l.Spans)
	}
	if l.Embed != nil {
		e := *l.Embed
		c.Embed = &e
	}
	return c
}

type Document struct {
	Lines []Line
}

// New — пустой документ из одного пустого абзаца.
func New() *Document {
	return &Document{Lines: []Line{{}}}
}

func (d *Document) Clone() *Document {
	c := &Document{Lines: make([]Line, len(d.Lines))}
	for i, l := range d.Lines {
		c.Lines[i] = l.clone()
	}
	return c
}

// IsEmpty — в документе нет ни видимого текста, ни вставок.
func (d *Document) IsEmpty() bool {
	for i := range d.Lines {
		l := &d.Lines[i]
		if l.IsEmbed() || strings.TrimSpace(l.Text()) != "" {
			return false
		}
	}
	return true
}

// Normalize приводит документ к канонической форме: соседние спаны с одинаковым
// форматированием склеиваются, пустые спаны удаляются, недопустимые уровни
// заголовков сбрасываются, в документе всегда есть хотя бы одна строка.
func (d *Document) Normalize() {
	for i := range d.Lines {
		d.Lines[i].normalize()
	}
	if len(d.Lines) == 0 {
		d.Lines = []Line{{}}
	}
}

func (l *Line) normalize() {
	if l.Embed != nil {
		l.Spans = nil
		l.Heading = 0
		return
	}
	if l.Heading != 2 && l.Heading != 3 {
		l.Heading = 0
	}
	l.Spans = MergeSpans(l.Spans)
}

// MergeSpans удаляет пустые спаны и склеивает соседние с одинаковым форматированием.
func MergeSpans(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].sameFormat(s) {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

// CutSpans делит спаны по смещению off (в рунах).
func CutSpans(spans []Span, off int) (left, right []Span) {
	if off <= 0 {
		return nil, append([]Span(nil), spans...)
	}
	pos := 0
	for i, s := range spans {
		n := utf8.RuneCountInString(s.Text)
		switch {
		case pos+n <= off:
			left = append(left, s)
		case pos >= off:
			right = append(right, spans[i:]...)
			return left, right
		default:
			r := []rune(s.Text)
			k := off - pos
			a, b := s, s
			a.Text, b.Text = string(r[:k]), string(r[k:])
			left = append(left, a)
			right = append(right, b)
			right = append(right, spans[i+1:]...)
			return left, right
		}
		pos += n
	}
	return left, right
}
