package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CanonicalHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "paragraph", in: "<p>Fixes</p>", want: "<p>Fixes</p>"},
		{name: "empty input", in: "", want: EmptyHTML},
		{name: "bare text", in: "hello", want: "<p>hello</p>"},
		{
			name: "nested marks",
			in:   "<p><b>a</b><i><b>b</b></i></p>",
			want: "<p><strong>a<em>b</em></strong></p>",
		},
		{
			name: "strike aliases",
			in:   "<p><del>x</del><strike>y</strike></p>",
			want: "<p><s>xy</s></p>",
		},
		{
			name: "link gets target and rel",
			in:   `<p><a href="https://vetusrex.com/news" onclick="evil()" target="_self">x</a></p>`,
			want: `<p><a href="https://vetusrex.com/news" target="_blank" rel="noopener noreferrer">x</a></p>`,
		},
		{
			name: "javascript link dropped",
			in:   `<p><a href="javascript:alert(1)">x</a></p>`,
			want: "<p>x</p>",
		},
		{
			name: "list items wrap paragraphs",
			in:   "<ul><li>a</li><li><p>b</p></li></ul>",
			want: "<ul><li><p>a</p></li><li><p>b</p></li></ul>",
		},
		{
			name: "ordered list",
			in:   "<ol><li>one</li></ol>",
			want: "<ol><li><p>one</p></li></ol>",
		},
		{
			name: "blockquote",
			in:   "<blockquote><p>q</p></blockquote><p>n</p>",
			want: "<blockquote><p>q</p></blockquote><p>n</p>",
		},
		{
			name: "image splits paragraph",
			in:   `<p>a<img src="/i.png" alt="x" onerror="evil()">b</p><hr>`,
			want: `<p>a</p><img src="/i.png" alt="x"><p>b</p><hr>`,
		},
		{
			name: "unsafe image dropped",
			in:   `<p>a</p><img src="javascript:alert(1)">`,
			want: "<p>a</p>",
		},
		{
			name: "script and style removed",
			in:   "<p>a</p><script>alert(1)</script><style>p{}</style>",
			want: "<p>a</p>",
		},
		{
			name: "heading levels clamped",
			in:   "<h1>A</h1><h2>B</h2><h3>C</h3><h5>D</h5>",
			want: "<h2>A</h2><h2>B</h2><h3>C</h3><h3>D</h3>",
		},
		{
			name: "text escaped",
			in:   `<p>a &lt; b &amp; "c"</p>`,
			want: "<p>a &lt; b &amp; &#34;c&#34;</p>",
		},
		{
			name: "whitespace between blocks ignored",
			in:   "<p>a</p>\n  <p>b</p>\n",
			want: "<p>a</p><p>b</p>",
		},
		{
			name: "br splits line",
			in:   "<p>a<br>b</p>",
			want: "<p>a</p><p>b</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in).HTML())
		})
	}
}

var fixpointInputs = []string{
	"",
	"<p>Fixes</p>",
	`<h2>Patch <em>1.2</em></h2><ul><li><b>bold <a href="https://x.io/a?b=1&c=2">link</a></b> tail</li><li>two</li></ul>`,
	`<blockquote><ol><li><h3>deep</h3></li></ol><p>q</p><hr></blockquote><p></p>`,
	`<div>loose <span>text</span><p>para</p>more</div>`,
	`<p><a href="/rel">r</a><a href="mailto:gm@vetusrex.com">m</a></p>`,
	`<table><tr><td>cell</td></tr></table><img src="https://cdn.example.com/covers/a.png">`,
	`<p><s><em><strong>all</strong></em></s> <a href="https://a.b"><s>x</s>y</a></p>`,
	"<p>  spaced   text  </p>",
	"<ul><li></li></ul><blockquote></blockquote>",
}

func TestRender_IsFixpoint(t *testing.T) {
	for _, in := range fixpointInputs {
		first := Parse(in)
		second := Parse(first.HTML())

		assert.Equal(t, first, second, "input %q", in)
		assert.Equal(t, first.HTML(), second.HTML(), "input %q", in)
	}
}

func TestDocument_IsEmpty(t *testing.T) {
	assert.True(t, Parse("").IsEmpty())
	assert.True(t, Parse(EmptyHTML).IsEmpty())
	assert.True(t, Parse("<p> </p><p></p>").IsEmpty())
	assert.False(t, Parse("<hr>").IsEmpty())
	assert.False(t, Parse("<p>x</p>").IsEmpty())
	assert.True(t, New().IsEmpty())
}

func TestDocument_CloneIsDeep(t *testing.T) {
	d := Parse(`<p><b>a</b></p><img src="/a.png">`)
	c := d.Clone()
	c.Lines[0].Spans[0].Text = "changed"
	c.Lines[1].Embed.Src = "/b.png"

	assert.Equal(t, "a", d.Lines[0].Spans[0].Text)
	assert.Equal(t, "/a.png", d.Lines[1].Embed.Src)
}

func TestCutSpans(t *testing.T) {
	spans := []Span{{Text: "héllo", Marks: Bold}, {Text: " world"}}

	left, right := CutSpans(spans, 3)
	require.Len(t, left, 1)
	assert.Equal(t, "hél", left[0].Text)
	assert.Equal(t, Bold, left[0].Marks)
	require.Len(t, right, 2)
	assert.Equal(t, "lo", right[0].Text)

	left, right = CutSpans(spans, 5)
	assert.Equal(t, []Span{{Text: "héllo", Marks: Bold}}, left)
	assert.Equal(t, []Span{{Text: " world"}}, right)

	left, right = CutSpans(spans, 0)
	assert.Nil(t, left)
	assert.Len(t, right, 2)

	left, right = CutSpans(spans, 100)
	assert.Len(t, left, 2)
	assert.Nil(t, right)
}

func TestMergeSpans(t *testing.T) {
	got := MergeSpans([]Span{
		{Text: "a", Marks: Bold},
		{Text: ""},
		{Text: "b", Marks: Bold},
		{Text: "c", Marks: Bold, Href: "/x"},
	})
	assert.Equal(t, []Span{{Text: "ab", Marks: Bold}, {Text: "c", Marks: Bold, Href: "/x"}}, got)
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		raw  string
		kind URLKind
		want string
		ok   bool
	}{
		{raw: "https://vetusrex.com/a", kind: LinkURL, want: "https://vetusrex.com/a", ok: true},
		{raw: "  /news/1 ", kind: LinkURL, want: "/news/1", ok: true},
		{raw: "mailto:gm@vetusrex.com", kind: LinkURL, want: "mailto:gm@vetusrex.com", ok: true},
		{raw: "mailto:gm@vetusrex.com", kind: ImageURL, ok: false},
		{raw: "JavaScript:alert(1)", kind: LinkURL, ok: false},
		{raw: "data:image/png;base64,AAAA", kind: ImageURL, ok: false},
		{raw: "java script:alert(1)", kind: LinkURL, ok: false},
		{raw: "", kind: LinkURL, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeURL(tt.raw, tt.kind)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Hello World", PlainText("<p>Hello</p><p>World</p>"))
	assert.Equal(t, "a b", PlainText("<ul><li><p>a</p></li><li>b</li></ul><script>x()</script>"))
	assert.Equal(t, "", PlainText("  "))

	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abc def", 4))
	assert.Equal(t, "ñandú...", Excerpt("<p>ñandú ñandú</p>", 5))
}
