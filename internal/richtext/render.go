package richtext

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// HTML — каноническая сериализация документа. Выводит только словарь редактора;
// ссылки всегда открываются в новой вкладке без opener/referrer.
func (d *Document) HTML() string {
	if len(d.Lines) == 0 {
		return EmptyHTML
	}

	var sb strings.Builder
	lines := d.Lines
	for i := 0; i < len(lines); {
		j := i
		for j < len(lines) && lines[j].Quote == lines[i].Quote {
			j++
		}
		if lines[i].Quote {
			sb.WriteString("<blockquote>")
			renderLists(&sb, lines[i:j])
			sb.WriteString("</blockquote>")
		} else {
			renderLists(&sb, lines[i:j])
		}
		i = j
	}
	return sb.String()
}

func renderLists(sb *strings.Builder, lines []Line) {
	for i := 0; i < len(lines); {
		kind := lines[i].List
		if kind == ListNone {
			renderLine(sb, &lines[i])
			i++
			continue
		}
		tag := "ul"
		if kind == ListOrdered {
			tag = "ol"
		}
		sb.WriteString("<" + tag + ">")
		for ; i < len(lines) && lines[i].List == kind; i++ {
			sb.WriteString("<li>")
			renderLine(sb, &lines[i])
			sb.WriteString("</li>")
		}
		sb.WriteString("</" + tag + ">")
	}
}

func renderLine(sb *strings.Builder, l *Line) {
	if l.Embed != nil {
		switch l.Embed.Kind {
		case EmbedRule:
			sb.WriteString("<hr>")
		case EmbedImage:
			sb.WriteString(`<img src="`)
			sb.WriteString(html.EscapeString(l.Embed.Src))
			sb.WriteString(`"`)
			if l.Embed.Alt != "" {
				sb.WriteString(` alt="`)
				sb.WriteString(html.EscapeString(l.Embed.Alt))
				sb.WriteString(`"`)
			}
			sb.WriteString(">")
		}
		return
	}

	tag := "p"
	if l.Heading == 2 || l.Heading == 3 {
		tag = "h" + strconv.Itoa(l.Heading)
	}
	sb.WriteString("<" + tag + ">")
	renderSpans(sb, l.Spans)
	sb.WriteString("</" + tag + ">")
}

// Порядок вложенности меток: a > strong > em > s.
type openMark struct {
	mark Mark
	href string
}

var markOrder = []struct {
	mark Mark
	tag  string
}{
	{Bold, "strong"},
	{Italic, "em"},
	{Strike, "s"},
}

func spanStack(s Span) []openMark {
	var st []openMark
	if s.Href != "" {
		st = append(st, openMark{href: s.Href})
	}
	for _, m := range markOrder {
		if s.Marks.Has(m.mark) {
			st = append(st, openMark{mark: m.mark})
		}
	}
	return st
}

func renderSpans(sb *strings.Builder, spans []Span) {
	var open []openMark
	for _, s := range spans {
		want := spanStack(s)
		common := 0
		for common < len(open) && common < len(want) && open[common] == want[common] {
			common++
		}
		for k := len(open) - 1; k >= common; k-- {
			sb.WriteString(closeTag(open[k]))
		}
		for k := common; k < len(want); k++ {
			sb.WriteString(openTag(want[k]))
		}
		open = want
		sb.WriteString(html.EscapeString(s.Text))
	}
	for k := len(open) - 1; k >= 0; k-- {
		sb.WriteString(closeTag(open[k]))
	}
}

func openTag(m openMark) string {
	if m.href != "" {
		return `<a href="` + html.EscapeString(m.href) + `" target="_blank" rel="noopener noreferrer">`
	}
	for _, o := range markOrder {
		if o.mark == m.mark {
			return "<" + o.tag + ">"
		}
	}
	return ""
}

func closeTag(m openMark) string {
	if m.href != "" {
		return "</a>"
	}
	for _, o := range markOrder {
		if o.mark == m.mark {
			return "</" + o.tag + ">"
		}
	}
	return ""
}
