package pipeline

import (
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-mdsite/internal/markdown"
)

// sourceExtensions are the link targets treated as markdown sources.
var sourceExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// RewriteSourceLink maps a site-internal link to a markdown source onto the
// page generated for it, keeping any query or fragment:
//
//	guide/intro.md#setup -> guide/intro.html#setup
//
// External URLs, anchors and links to other files are returned unchanged.
func RewriteSourceLink(link string) string {
	if !isSiteLink(link) {
		return link
	}

	end := strings.IndexAny(link, "?#")
	if end < 0 {
		end = len(link)
	}
	target := link[:end]

	ext := path.Ext(target)
	if !sourceExtensions[strings.ToLower(ext)] {
		return link
	}

	return target[:len(target)-len(ext)] + ".html" + link[end:]
}

// RewriteLinkNodes returns nodes with every non-image link rewritten by
// RewriteSourceLink. The input slice is not modified.
func RewriteLinkNodes(nodes []markdown.Node) []markdown.Node {
	if nodes == nil {
		return nil
	}

	out := make([]markdown.Node, len(nodes))
	for i, n := range nodes {
		if link, ok := n.(markdown.Link); ok && !link.IsImage {
			link.URL = RewriteSourceLink(link.URL)
			n = link
		}
		out[i] = n
	}
	return out
}

// rewriteDocumentLinks rewrites every a[href] under sel.
func rewriteDocumentLinks(sel *goquery.Selection) {
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if rewritten := RewriteSourceLink(href); rewritten != href {
			a.SetAttr("href", rewritten)
		}
	})
}

// isSiteLink reports whether link points inside the generated site.
func isSiteLink(link string) bool {
	if link == "" {
		return false
	}

	// Anchors and protocol-relative URLs
	if strings.HasPrefix(link, "#") || strings.HasPrefix(link, "//") {
		return false
	}

	// Any scheme (http:, mailto:, data:, file:) before the first slash
	if colon := strings.IndexByte(link, ':'); colon >= 0 {
		if slash := strings.IndexByte(link, '/'); slash < 0 || colon < slash {
			return false
		}
	}

	return true
}
