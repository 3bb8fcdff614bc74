package htmlutil

import (
	"bytes"
	"isqexplorer-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under node, in document order.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

type Anchor struct {
	Name string
	Href string
}

// Anchors collects the <a> elements under sel with their display text
// cleaned up. anchors without an href come back with a blank one.
func Anchors(sel *goquery.Selection) []Anchor {
	var anchors []Anchor
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		anchors = append(anchors, Anchor{
			Name: textutil.CleanText(a.Text()),
			Href: a.AttrOr("href", ""),
		})
	})
	return anchors
}
