package richtext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type blockCtx struct {
	heading int
	list    ListKind
	quote   bool
}

type inlineCtx struct {
	marks Mark
	href  string
}

type parser struct {
	lines []Line
	open  bool // последняя строка принимает инлайн-содержимое
}

// Parse разбирает HTML в документ. Всё, что не входит в словарь редактора,
// либо раскрывается (содержимое сохраняется), либо отбрасывается целиком
// (script, style и т.п.). Небезопасные href/src игнорируются.
func Parse(src string) *Document {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return New()
	}

	p := &parser{}
	for _, n := range nodes {
		p.walk(n, blockCtx{}, inlineCtx{})
	}

	d := &Document{Lines: p.lines}
	d.Normalize()
	return d
}

func (p *parser) startLine(b blockCtx) {
	p.lines = append(p.lines, Line{Heading: b.heading, List: b.list, Quote: b.quote})
	p.open = true
}

func (p *parser) close() { p.open = false }

func (p *parser) addEmbed(b blockCtx, e Embed) {
	p.close()
	p.lines = append(p.lines, Line{List: b.list, Quote: b.quote, Embed: &e})
}

func (p *parser) children(n *html.Node, b blockCtx, in inlineCtx) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, b, in)
	}
}

// block оборачивает блочный элемент: до и после него инлайн-строка закрыта.
// Если внутри не появилось ни одной строки и ensure=true, добавляется пустая.
func (p *parser) block(n *html.Node, b blockCtx, in inlineCtx, ensure bool) {
	p.close()
	before := len(p.lines)
	p.children(n, b, in)
	p.close()
	if ensure && len(p.lines) == before {
		p.lines = append(p.lines, Line{Heading: b.heading, List: b.list, Quote: b.quote})
	}
}

func (p *parser) walk(n *html.Node, b blockCtx, in inlineCtx) {
	switch n.Type {
	case html.TextNode:
		p.text(n.Data, b, in)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Iframe, atom.Object, atom.Embed, atom.Noscript,
		atom.Template, atom.Head, atom.Title, atom.Meta, atom.Link, atom.Svg, atom.Math:
		return

	case atom.P:
		b.heading = 0
		p.close()
		p.startLine(b)
		p.children(n, b, in)
		p.close()

	case atom.H1, atom.H2:
		b.heading = 2
		p.close()
		p.startLine(b)
		p.children(n, b, in)
		p.close()

	case atom.H3, atom.H4, atom.H5, atom.H6:
		b.heading = 3
		p.close()
		p.startLine(b)
		p.children(n, b, in)
		p.close()

	case atom.Ul:
		b.list = ListBullet
		p.block(n, b, in, false)

	case atom.Ol:
		b.list = ListOrdered
		p.block(n, b, in, false)

	case atom.Li:
		p.block(n, b, in, true)

	case atom.Blockquote:
		b.quote = true
		p.block(n, b, in, false)

	case atom.Div, atom.Pre, atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.Figure, atom.Table, atom.Tr, atom.Td, atom.Th:
		p.block(n, b, in, false)

	case atom.Br:
		p.close()

	case atom.Hr:
		p.addEmbed(b, Embed{Kind: EmbedRule})

	case atom.Img:
		src, ok := NormalizeURL(attr(n, "src"), ImageURL)
		if !ok {
			return
		}
		p.addEmbed(b, Embed{Kind: EmbedImage, Src: src, Alt: attr(n, "alt")})

	case atom.Strong, atom.B:
		in.marks |= Bold
		p.children(n, b, in)

	case atom.Em, atom.I:
		in.marks |= Italic
		p.children(n, b, in)

	case atom.S, atom.Strike, atom.Del:
		in.marks |= Strike
		p.children(n, b, in)

	case atom.A:
		if href, ok := NormalizeURL(attr(n, "href"), LinkURL); ok {
			in.href = href
		}
		p.children(n, b, in)

	default:
		p.children(n, b, in)
	}
}

func (p *parser) text(s string, b blockCtx, in inlineCtx) {
	if !p.open {
		if strings.TrimSpace(s) == "" {
			return
		}
		p.startLine(b)
	}
	l := &p.lines[len(p.lines)-1]
	l.Spans = append(l.Spans, Span{Text: s, Marks: in.marks, Href: in.href})
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
