package editor

import (
	"sort"

	"vetusrex/internal/richtext"
)

// MarkID — идентификатор метки или блока для подсветки кнопок тулбара.
type MarkID string

const (
	MarkBold        MarkID = "bold"
	MarkItalic      MarkID = "italic"
	MarkStrike      MarkID = "strike"
	MarkLink        MarkID = "link"
	MarkHeading2    MarkID = "heading2"
	MarkHeading3    MarkID = "heading3"
	MarkBulletList  MarkID = "bulletList"
	MarkOrderedList MarkID = "orderedList"
	MarkBlockquote  MarkID = "blockquote"
)

type MarkSet map[MarkID]bool

func (s MarkSet) Has(id MarkID) bool { return s[id] }

// List — активные идентификаторы по алфавиту.
func (s MarkSet) List() []MarkID {
	out := make([]MarkID, 0, len(s))
	for id, ok := range s {
		if ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var inlineMarks = []struct {
	mark richtext.Mark
	id   MarkID
}{
	{richtext.Bold, MarkBold},
	{richtext.Italic, MarkItalic},
	{richtext.Strike, MarkStrike},
}

// ActiveMarks возвращает метки, покрывающие всё выделение целиком.
// Частичное покрытие считается неактивным.
func (e *Editor) ActiveMarks() MarkSet {
	set := MarkSet{}

	if e.sel.Collapsed() {
		s := e.spanAt(e.sel.From)
		marks := e.marksAt(e.sel.From)
		for _, m := range inlineMarks {
			if marks.Has(m.mark) {
				set[m.id] = true
			}
		}
		if s.Href != "" {
			set[MarkLink] = true
		}
	} else {
		segs := e.segments()
		for _, m := range inlineMarks {
			mark := m.mark
			if e.every(segs, func(s richtext.Span) bool { return s.Marks.Has(mark) }) {
				set[m.id] = true
			}
		}
		if e.every(segs, func(s richtext.Span) bool { return s.Href != "" }) {
			set[MarkLink] = true
		}
	}

	if e.allLines(true, func(l *richtext.Line) bool { return l.Heading == 2 }) {
		set[MarkHeading2] = true
	}
	if e.allLines(true, func(l *richtext.Line) bool { return l.Heading == 3 }) {
		set[MarkHeading3] = true
	}
	if e.allLines(false, func(l *richtext.Line) bool { return l.List == richtext.ListBullet }) {
		set[MarkBulletList] = true
	}
	if e.allLines(false, func(l *richtext.Line) bool { return l.List == richtext.ListOrdered }) {
		set[MarkOrderedList] = true
	}
	if e.allLines(false, func(l *richtext.Line) bool { return l.Quote }) {
		set[MarkBlockquote] = true
	}
	return set
}

// LinkHref — адрес ссылки под курсором или общий адрес всего выделения.
func (e *Editor) LinkHref() string {
	if e.sel.Collapsed() {
		return e.spanAt(e.sel.From).Href
	}
	segs := e.segments()
	if len(segs) == 0 {
		return ""
	}
	first := e.doc.Lines[segs[0].line]
	_, rest := richtext.CutSpans(first.Spans, segs[0].from)
	href := rest[0].Href
	if href == "" || !e.every(segs, func(s richtext.Span) bool { return s.Href == href }) {
		return ""
	}
	return href
}
