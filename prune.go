package pageqa

import (
	"regexp"
	"strings"
)

// boilerplateTags never hold main content.
var boilerplateTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"nav": true, "header": true, "footer": true, "aside": true,
	"iframe": true, "form": true, "svg": true, "canvas": true,
	"object": true, "embed": true, "button": true, "select": true,
	"dialog": true,
}

// boilerplateRoles are ARIA landmark roles for page chrome.
var boilerplateRoles = map[string]bool{
	"navigation": true, "banner": true, "contentinfo": true,
	"complementary": true, "search": true, "menu": true, "menubar": true,
	"dialog": true, "alertdialog": true,
}

// adPattern matches class and id tokens used for ads, promos, and page
// chrome. A denylisted word must open the token and be followed by its end
// or a "-"/"_" separator, so "sidebar-widget" matches while "no-sidebar",
// "header" and "download" do not.
var adPattern = regexp.MustCompile(`(?i)^(?:ads?|adv|advert\w*|adsense|dfp|banner|sponsor\w*|promo\w*|cookie\w*|consent|gdpr|popup|modal|newsletter|subscribe|social|share|sharing|sidebar|breadcrumbs?|outbrain|taboola|disqus|skip-link)(?:$|[_-](.*)$)`)

// stateSuffixes mark a token as a page state rather than a component, as in
// "modal-open" or "sidebar-collapsed".
var stateSuffixes = map[string]bool{
	"open": true, "opened": true, "closed": true, "active": true,
	"enabled": true, "disabled": true, "visible": true, "shown": true,
	"hidden": true, "collapsed": true, "expanded": true, "on": true, "off": true,
}

// structuralTags are never removed by class or id matching: a theme that
// names its article container "post share-enabled" still holds the article.
var structuralTags = map[string]bool{
	"body": true, "main": true, "article": true,
}

// IsBoilerplate reports whether the element n is page chrome that never
// holds main content: a denylisted tag or role, a hidden element, or an
// element whose class or id looks like an ad.
func IsBoilerplate(n *Node) bool {
	if n.IsText() {
		return false
	}
	if boilerplateTags[n.Tag] {
		return true
	}
	if boilerplateRoles[strings.ToLower(strings.TrimSpace(n.Attr("role")))] {
		return true
	}
	if isHidden(n) {
		return true
	}
	if structuralTags[n.Tag] {
		return false
	}
	return hasAdToken(n.Attr("class")) || hasAdToken(n.Attr("id"))
}

// hasAdToken reports whether any whitespace-separated token of attr names
// an ad or page-chrome component.
func hasAdToken(attr string) bool {
	for _, tok := range strings.Fields(attr) {
		m := adPattern.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		if !stateSuffixes[strings.ToLower(m[1])] {
			return true
		}
	}
	return false
}

func isHidden(n *Node) bool {
	if n.HasAttr("hidden") || strings.EqualFold(n.Attr("aria-hidden"), "true") {
		return true
	}
	style := strings.ToLower(strings.ReplaceAll(n.Attr("style"), " ", ""))
	return strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden")
}

// StripBoilerplate removes boilerplate elements from the tree rooted at n,
// in place. The root itself is never removed.
func StripBoilerplate(n *Node) {
	kept := n.Children[:0]
	for _, c := range n.Children {
		if IsBoilerplate(c) {
			continue
		}
		StripBoilerplate(c)
		kept = append(kept, c)
	}
	clear(n.Children[len(kept):])
	n.Children = kept
}
