package pageqa

import (
	"html"
	"strings"
)

// voidTags have no closing tag.
var voidTags = map[string]bool{"br": true, "hr": true, "img": true, "wbr": true}

// renderedAttrs lists the only attributes RenderHTML keeps, per tag.
var renderedAttrs = map[string][]string{
	"a":   {"href"},
	"img": {"src", "alt"},
}

// RenderHTML renders the tree rooted at n as HTML. All attributes except
// link targets and image sources are dropped, and text is escaped.
func RenderHTML(n *Node) string {
	var sb strings.Builder
	renderNode(&sb, n)
	return sb.String()
}

func renderNode(sb *strings.Builder, n *Node) {
	if n.IsText() {
		sb.WriteString(html.EscapeString(n.Text))
		return
	}

	sb.WriteString("<" + n.Tag)
	for _, key := range renderedAttrs[n.Tag] {
		v := strings.TrimSpace(n.Attr(key))
		if v == "" || strings.HasPrefix(strings.ToLower(v), "javascript:") {
			continue
		}
		sb.WriteString(" " + key + `="` + html.EscapeString(v) + `"`)
	}
	sb.WriteByte('>')
	if voidTags[n.Tag] {
		return
	}

	for _, c := range n.Children {
		renderNode(sb, c)
	}
	sb.WriteString("</" + n.Tag + ">")
}
