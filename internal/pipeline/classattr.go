package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ApplyClass adds class to every element of an HTML fragment. Existing
// classes are kept. An empty class returns the fragment unchanged.
func ApplyClass(fragment, class string) (string, error) {
	if class == "" {
		return fragment, nil
	}
	return decorateFragment(fragment, EngineOptions{Class: class})
}

// decorateFragment parses fragment once and applies every decoration
// requested by opts.
func decorateFragment(fragment string, opts EngineOptions) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	body := doc.Find("body")
	if opts.Class != "" {
		addClass(body.Find("*"), opts.Class)
	}
	if opts.RewriteLinks {
		rewriteDocumentLinks(body)
	}

	return body.Html()
}

// addClass appends class to each element's class list and collapses the
// whitespace left around the existing classes.
func addClass(sel *goquery.Selection, class string) {
	sel.AddClass(class).Each(func(_ int, s *goquery.Selection) {
		if attr, ok := s.Attr("class"); ok {
			s.SetAttr("class", strings.Join(strings.Fields(attr), " "))
		}
	})
}
