package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

// Page is a rendered markdown document.
type Page struct {
	Title string // Text of the first heading, if any
	HTML  string // Body fragment
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Markdown renders src to HTML and picks the page title from the first
// heading of the output. fallbackTitle is used when there is none.
func Markdown(src []byte, fallbackTitle string) (Page, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return Page{}, fmt.Errorf("render markdown: %w", err)
	}

	title, err := firstHeading(buf.String())
	if err != nil {
		return Page{}, err
	}
	if title == "" {
		title = fallbackTitle
	}
	return Page{Title: title, HTML: buf.String()}, nil
}

// firstHeading returns the text of the highest-level heading that appears
// first in the fragment.
func firstHeading(fragment string) (string, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	best, bestLevel := "", 7
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if level < bestLevel {
					best, bestLevel = textContent(n), level
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return best, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
