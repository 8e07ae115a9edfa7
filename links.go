package pageqa

import (
	"net/url"
	"strings"
)

// CollectLinks returns the anchors inside n in document order, resolved
// against base. Links are deduplicated by resolved URL and capped at limit.
// Non-HTTP links (javascript:, mailto:, etc.) and links back to base itself
// are skipped. Anchor text falls back to the resolved URL when empty.
func CollectLinks(n *Node, base *url.URL, limit int) []Link {
	links := []Link{}
	if limit <= 0 {
		return links
	}

	self := ""
	if base != nil {
		b := *base
		b.Fragment = ""
		self = b.String()
	}

	seen := make(map[string]bool)
	n.Walk(func(c *Node) bool {
		if len(links) >= limit {
			return false
		}
		if c.Tag != "a" {
			return true
		}
		resolved, ok := ResolveLink(base, c.Attr("href"))
		if !ok || resolved == self || seen[resolved] {
			return false
		}
		seen[resolved] = true

		text := c.TextContent()
		if text == "" {
			text = resolved
		}
		links = append(links, Link{Text: text, Href: resolved})
		return false
	})
	return links
}

// ResolveLink resolves href against base and strips the fragment.
// It reports false for empty or unparseable hrefs and for any result that
// is not an absolute http or https URL.
func ResolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := ref
	if base != nil {
		resolved = base.ResolveReference(ref)
	}
	if (resolved.Scheme != "http" && resolved.Scheme != "https") || resolved.Host == "" {
		return "", false
	}
	resolved.Fragment = ""
	return resolved.String(), true
}
