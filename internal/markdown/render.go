package markdown

import (
	"strconv"
	"strings"
)

// Render translates nodes into an HTML fragment. Every emitted tag carries
// class verbatim, including an empty class. Content is not escaped.
func Render(nodes []Node, class string) string {
	var b strings.Builder
	for _, n := range nodes {
		renderNode(&b, n, class)
	}
	return b.String()
}

func renderNode(b *strings.Builder, n Node, class string) {
	switch n := n.(type) {
	case Heading:
		level := strconv.Itoa(n.Level)
		b.WriteString("<h" + level + ` class="` + class + `">`)
		b.WriteString(n.Content)
		b.WriteString("</h" + level + ">")
	case Paragraph:
		b.WriteString(`<p class="` + class + `">`)
		for _, s := range n.Spans {
			renderSpan(b, s)
		}
		b.WriteString("</p>")
	case List:
		tag := "ul"
		if n.Type == Numbered {
			tag = "ol"
		}
		b.WriteString("<" + tag + ` class="` + class + `">`)
		for _, item := range n.Items {
			b.WriteString(`<li class="` + class + `">`)
			b.WriteString(item)
			b.WriteString("</li>")
		}
		b.WriteString("</" + tag + ">")
	case Link:
		if n.IsImage {
			b.WriteString(`<img src="` + n.URL + `" alt="` + n.Alt + `" class="` + class + `" />`)
			return
		}
		b.WriteString(`<a href="` + n.URL + `" class="` + class + `">`)
		b.WriteString(n.Alt)
		b.WriteString("</a>")
	case CodeBlock:
		b.WriteString(`<pre><code class="language-` + n.Language + " " + class + `">`)
		b.WriteString(n.Content)
		b.WriteString("</code></pre>")
	case HorizontalRule:
		b.WriteString(`<hr class="` + class + `" />`)
	}
}

func renderSpan(b *strings.Builder, s Span) {
	switch s.Variant {
	case Bold:
		b.WriteString("<strong>" + s.Content + "</strong>")
	case Italic:
		b.WriteString("<em>" + s.Content + "</em>")
	case InlineCode:
		b.WriteString("<code>" + s.Content + "</code>")
	default:
		b.WriteString(s.Content)
	}
}
