package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"vetusrex/internal/richtext"
)

// segment — часть текстовой строки [from, to), попавшая в выделение.
type segment struct {
	line     int
	from, to int
}

func (e *Editor) segments() []segment {
	var out []segment
	for i := e.sel.From.Line; i <= e.sel.To.Line; i++ {
		l := &e.doc.Lines[i]
		if l.IsEmbed() {
			continue
		}
		from, to := 0, l.Len()
		if i == e.sel.From.Line {
			from = e.sel.From.Offset
		}
		if i == e.sel.To.Line {
			to = e.sel.To.Offset
		}
		if from < to {
			out = append(out, segment{line: i, from: from, to: to})
		}
	}
	return out
}

func (e *Editor) mapRange(segs []segment, f func(richtext.Span) richtext.Span) {
	for _, s := range segs {
		l := &e.doc.Lines[s.line]
		left, rest := richtext.CutSpans(l.Spans, s.from)
		mid, right := richtext.CutSpans(rest, s.to-s.from)
		for k := range mid {
			mid[k] = f(mid[k])
		}
		spans := append(left, mid...)
		l.Spans = richtext.MergeSpans(append(spans, right...))
	}
}

// every — все символы сегментов удовлетворяют pred; пустой диапазон даёт false.
func (e *Editor) every(segs []segment, pred func(richtext.Span) bool) bool {
	if len(segs) == 0 {
		return false
	}
	for _, s := range segs {
		_, rest := richtext.CutSpans(e.doc.Lines[s.line].Spans, s.from)
		mid, _ := richtext.CutSpans(rest, s.to-s.from)
		for _, sp := range mid {
			if !pred(sp) {
				return false
			}
		}
	}
	return true
}

// spanAt — спан, формат которого получит текст, введённый в позицию p.
func (e *Editor) spanAt(p Pos) richtext.Span {
	l := &e.doc.Lines[p.Line]
	if l.IsEmbed() || len(l.Spans) == 0 {
		return richtext.Span{}
	}
	if p.Offset == 0 {
		return l.Spans[0]
	}
	left, _ := richtext.CutSpans(l.Spans, p.Offset)
	return left[len(left)-1]
}

func (e *Editor) marksAt(p Pos) richtext.Mark {
	if e.stored != nil {
		return *e.stored
	}
	return e.spanAt(p).Marks
}

// hrefInside — ссылка продолжается только при вводе внутри неё, не на краях.
func (e *Editor) hrefInside(p Pos) string {
	l := &e.doc.Lines[p.Line]
	if l.IsEmbed() || p.Offset == 0 || p.Offset >= l.Len() {
		return ""
	}
	left, right := richtext.CutSpans(l.Spans, p.Offset)
	if a, b := left[len(left)-1].Href, right[0].Href; a == b {
		return a
	}
	return ""
}

// linkRange — границы ссылки под курсором в пределах строки.
func (e *Editor) linkRange(p Pos) (from, to int, ok bool) {
	l := &e.doc.Lines[p.Line]
	if l.IsEmbed() || len(l.Spans) == 0 {
		return 0, 0, false
	}
	starts := make([]int, len(l.Spans)+1)
	for i, s := range l.Spans {
		starts[i+1] = starts[i] + utf8.RuneCountInString(s.Text)
	}
	k := 0
	for k < len(l.Spans)-1 && starts[k+1] < p.Offset {
		k++
	}
	href := l.Spans[k].Href
	if href == "" {
		return 0, 0, false
	}
	i, j := k, k
	for i > 0 && l.Spans[i-1].Href == href {
		i--
	}
	for j < len(l.Spans)-1 && l.Spans[j+1].Href == href {
		j++
	}
	return starts[i], starts[j+1], true
}

func withHref(href string) func(richtext.Span) richtext.Span {
	return func(s richtext.Span) richtext.Span {
		s.Href = href
		return s
	}
}

func (e *Editor) toggleMark(m richtext.Mark) {
	if e.sel.Collapsed() {
		next := e.marksAt(e.sel.From) ^ m
		e.stored = &next
		return
	}
	segs := e.segments()
	if e.every(segs, func(s richtext.Span) bool { return s.Marks.Has(m) }) {
		e.mapRange(segs, func(s richtext.Span) richtext.Span {
			s.Marks &^= m
			return s
		})
		return
	}
	e.mapRange(segs, func(s richtext.Span) richtext.Span {
		s.Marks |= m
		return s
	})
}

// allLines — все строки выделения удовлетворяют pred. textOnly пропускает вставки.
func (e *Editor) allLines(textOnly bool, pred func(*richtext.Line) bool) bool {
	seen := false
	for i := e.sel.From.Line; i <= e.sel.To.Line; i++ {
		l := &e.doc.Lines[i]
		if textOnly && l.IsEmbed() {
			continue
		}
		seen = true
		if !pred(l) {
			return false
		}
	}
	return seen
}

func (e *Editor) eachLine(f func(*richtext.Line)) {
	for i := e.sel.From.Line; i <= e.sel.To.Line; i++ {
		f(&e.doc.Lines[i])
	}
}

func (e *Editor) toggleHeading(level int) {
	set := level
	if e.allLines(true, func(l *richtext.Line) bool { return l.Heading == level }) {
		set = 0
	}
	e.eachLine(func(l *richtext.Line) {
		if !l.IsEmbed() {
			l.Heading = set
		}
	})
}

func (e *Editor) toggleList(kind richtext.ListKind) {
	set := kind
	if e.allLines(false, func(l *richtext.Line) bool { return l.List == kind }) {
		set = richtext.ListNone
	}
	e.eachLine(func(l *richtext.Line) { l.List = set })
}

func (e *Editor) toggleQuote() {
	set := !e.allLines(false, func(l *richtext.Line) bool { return l.Quote })
	e.eachLine(func(l *richtext.Line) { l.Quote = set })
}

func (e *Editor) setLink(href string) {
	if !e.sel.Collapsed() {
		e.mapRange(e.segments(), withHref(href))
		return
	}
	p := e.sel.From
	if from, to, ok := e.linkRange(p); ok {
		e.mapRange([]segment{{line: p.Line, from: from, to: to}}, withHref(href))
		return
	}
	// без выделения вставляется сам адрес
	e.insertText(href)
	end := e.sel.From
	n := utf8.RuneCountInString(href)
	e.mapRange([]segment{{line: end.Line, from: end.Offset - n, to: end.Offset}}, withHref(href))
}

func (e *Editor) unsetLink() {
	if !e.sel.Collapsed() {
		e.mapRange(e.segments(), withHref(""))
		return
	}
	p := e.sel.From
	if from, to, ok := e.linkRange(p); ok {
		e.mapRange([]segment{{line: p.Line, from: from, to: to}}, withHref(""))
	}
}

func (e *Editor) replaceLines(from, to int, repl ...richtext.Line) {
	lines := make([]richtext.Line, 0, len(e.doc.Lines)-(to-from)+len(repl))
	lines = append(lines, e.doc.Lines[:from]...)
	lines = append(lines, repl...)
	lines = append(lines, e.doc.Lines[to:]...)
	e.doc.Lines = lines
}

// insertEmbed вставляет hr/img в позицию курсора, разрезая текущую строку.
// Курсор встаёт в начало строки после вставки.
func (e *Editor) insertEmbed(emb richtext.Embed) {
	if !e.sel.Collapsed() {
		e.deleteRange(e.sel.From, e.sel.To)
	}
	p := e.sel.From
	cur := e.doc.Lines[p.Line]
	line := richtext.Line{List: cur.List, Quote: cur.Quote, Embed: &emb}

	if cur.IsEmbed() {
		at := p.Line + p.Offset
		e.replaceLines(at, at, line)
		e.setCursor(Pos{Line: at, Offset: 1})
		return
	}

	left, right := richtext.CutSpans(cur.Spans, p.Offset)
	tail := richtext.Line{Spans: right, List: cur.List, Quote: cur.Quote}
	if len(right) > 0 {
		tail.Heading = cur.Heading
	}
	var repl []richtext.Line
	if p.Offset > 0 {
		head := cur
		head.Spans = left
		repl = append(repl, head)
	}
	repl = append(repl, line, tail)
	e.replaceLines(p.Line, p.Line+1, repl...)
	e.setCursor(Pos{Line: p.Line + len(repl) - 1})
	e.stored = nil
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func (e *Editor) insertText(text string) {
	text = cleanText(text)
	if text == "" {
		return
	}
	if !e.sel.Collapsed() {
		e.deleteRange(e.sel.From, e.sel.To)
	}

	p := e.sel.From
	cur := e.doc.Lines[p.Line]
	if cur.IsEmbed() {
		// текст рядом со вставкой получает свою строку
		at := p.Line + p.Offset
		cur = richtext.Line{List: cur.List, Quote: cur.Quote}
		e.replaceLines(at, at, cur)
		p = Pos{Line: at}
	}

	format := richtext.Span{Marks: e.marksAt(p), Href: e.hrefInside(p)}
	left, right := richtext.CutSpans(cur.Spans, p.Offset)
	parts := strings.Split(text, "\n")
	lines := make([]richtext.Line, len(parts))
	cursor := Pos{Line: p.Line + len(parts) - 1}

	for i, part := range parts {
		l := richtext.Line{List: cur.List, Quote: cur.Quote}
		if i == 0 {
			l.Heading = cur.Heading
			l.Spans = append(l.Spans, left...)
		}
		s := format
		s.Text = part
		l.Spans = append(l.Spans, s)
		if i == len(parts)-1 {
			cursor.Offset = l.Len()
			if len(right) > 0 {
				l.Heading = cur.Heading
			}
			l.Spans = append(l.Spans, right...)
		}
		l.Spans = richtext.MergeSpans(l.Spans)
		lines[i] = l
	}

	e.replaceLines(p.Line, p.Line+1, lines...)
	e.setCursor(cursor)
	e.stored = nil
}

// deleteRange удаляет [from, to) и ставит курсор в точку удаления.
// Части первой и последней строк склеиваются в одну с блочными свойствами
// первой текстовой из них.
func (e *Editor) deleteRange(from, to Pos) {
	first, last := e.doc.Lines[from.Line], e.doc.Lines[to.Line]

	var head, tail []richtext.Line
	var left, right []richtext.Span
	var attrs *richtext.Line

	if first.IsEmbed() {
		if from.Offset > 0 {
			head = append(head, first)
		}
	} else {
		left, _ = richtext.CutSpans(first.Spans, from.Offset)
		attrs = &first
	}
	if last.IsEmbed() {
		if to.Offset == 0 {
			tail = append(tail, last)
		}
	} else {
		_, right = richtext.CutSpans(last.Spans, to.Offset)
		if attrs == nil {
			attrs = &last
		}
	}

	repl := head
	cursor := Pos{Line: from.Line + len(head)}
	if attrs != nil {
		merged := richtext.Line{Heading: attrs.Heading, List: attrs.List, Quote: attrs.Quote}
		merged.Spans = append(merged.Spans, left...)
		merged.Spans = richtext.MergeSpans(append(merged.Spans, right...))
		cursor.Offset = merged.Len() - spansLen(right)
		repl = append(repl, merged)
	}
	repl = append(repl, tail...)

	e.replaceLines(from.Line, to.Line+1, repl...)
	if len(e.doc.Lines) == 0 {
		e.doc.Lines = []richtext.Line{{}}
	}
	e.setCursor(e.clamp(cursor))
}

// deleteBackward — Backspace при свёрнутом курсоре.
func (e *Editor) deleteBackward() {
	p := e.sel.From
	switch {
	case p.Offset > 0:
		e.deleteRange(Pos{Line: p.Line, Offset: p.Offset - 1}, p)
	case p.Line > 0:
		prev := p.Line - 1
		if e.doc.Lines[prev].IsEmbed() {
			e.deleteRange(Pos{Line: prev}, p)
			return
		}
		e.deleteRange(Pos{Line: prev, Offset: e.lineLen(prev)}, p)
	}
}

func spansLen(spans []richtext.Span) int {
	n := 0
	for _, s := range spans {
		n += utf8.RuneCountInString(s.Text)
	}
	return n
}
