package site

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// Link is a reference found in a generated page.
type Link struct {
	URL       string
	Tag       string
	Attribute string
}

// Internal reports whether the link points into the site itself rather
// than to another host, a fragment on the same page or a special scheme.
func (l Link) Internal() bool {
	if l.URL == "" || strings.HasPrefix(l.URL, "#") {
		return false
	}
	u, err := url.Parse(l.URL)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// Target resolves an internal link against the page's site path and
// returns the site path it refers to, without query or fragment.
func (l Link) Target(pagePath string) string {
	u, err := url.Parse(l.URL)
	if err != nil {
		return ""
	}
	if strings.HasPrefix(u.Path, "/") {
		return path.Clean(u.Path)
	}
	return path.Join(path.Dir("/"+strings.TrimPrefix(pagePath, "/")), u.Path)
}

// ExtractLinks parses an HTML page and returns the href and src references
// of a, img, link and script elements in document order.
func ExtractLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var links []Link
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr := linkAttribute(n.Data); attr != "" {
				for _, a := range n.Attr {
					if a.Key == attr && a.Val != "" {
						links = append(links, Link{URL: a.Val, Tag: n.Data, Attribute: attr})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)

	return links, nil
}

func linkAttribute(tag string) string {
	switch tag {
	case "a", "link":
		return "href"
	case "img", "script":
		return "src"
	default:
		return ""
	}
}
