package pageqa

import (
	"math"
	"net/url"
	"unicode/utf8"
)

// candidateTags are the block containers that may be selected as main content.
var candidateTags = map[string]bool{
	"body": true, "main": true, "article": true, "section": true,
	"div": true, "td": true,
}

// paragraphTags are the text-bearing blocks whose scores flow up to the
// enclosing candidates.
var paragraphTags = map[string]bool{
	"p": true, "pre": true, "blockquote": true, "li": true, "dd": true,
}

// SelectMainContent returns the block of the tree rooted at root that most
// likely holds the page's main content. The root is always a candidate.
//
// Every paragraph-like element scores ParagraphWeight plus TextWeight per
// character; text sitting directly in a candidate scores TextWeight per
// character. The nearest enclosing candidate receives the full score and
// the next one AncestorDecay of it. A candidate's total is then multiplied
// by 1 - LinkPenalty*linkDensity. Candidates with less than MinTextLength
// characters are ignored; ties go to the earliest candidate in document
// order.
//
// Returns EEXTRACT if no candidate has enough text.
func SelectMainContent(root *Node, s Scoring) (*Node, error) {
	sc := &scorer{scoring: s, scores: make(map[*Node]float64)}
	sc.candidates = append(sc.candidates, root)
	sc.walk(root, []*Node{root}, true, false)

	var best *Node
	bestScore := 0.0
	for _, c := range sc.candidates {
		textLen := utf8.RuneCountInString(c.TextContent())
		if textLen == 0 || textLen < s.MinTextLength {
			continue
		}
		density := float64(linkTextLength(c)) / float64(textLen)
		score := sc.scores[c] * math.Max(0, 1-s.LinkPenalty*density)
		if best == nil || score > bestScore {
			best, bestScore = c, score
		}
	}
	if best == nil {
		return nil, Errorf(EEXTRACT, "page has no extractable content")
	}
	return best, nil
}

type scorer struct {
	scoring    Scoring
	scores     map[*Node]float64
	candidates []*Node
}

// walk scores the children of n. stack holds the enclosing candidates,
// innermost last. direct is true while only inline elements separate n
// from the innermost candidate. inParagraph is true below a paragraph
// that has already been scored.
func (sc *scorer) walk(n *Node, stack []*Node, direct, inParagraph bool) {
	for _, c := range n.Children {
		if c.IsText() {
			if direct && !inParagraph {
				if l := utf8.RuneCountInString(NormalizeText(c.Text)); l > 0 {
					sc.credit(stack, sc.scoring.TextWeight*float64(l))
				}
			}
			continue
		}

		childStack, childDirect, childIn := stack, direct && inlineTags[c.Tag], inParagraph
		if candidateTags[c.Tag] {
			sc.candidates = append(sc.candidates, c)
			childStack = append(stack[:len(stack):len(stack)], c)
			childDirect = true
		}
		if !inParagraph && paragraphTags[c.Tag] {
			if l := utf8.RuneCountInString(c.TextContent()); l > 0 {
				sc.credit(stack, sc.scoring.ParagraphWeight+sc.scoring.TextWeight*float64(l))
			}
			childIn = true
		}
		sc.walk(c, childStack, childDirect, childIn)
	}
}

func (sc *scorer) credit(stack []*Node, score float64) {
	if len(stack) == 0 {
		return
	}
	sc.scores[stack[len(stack)-1]] += score
	if len(stack) > 1 {
		sc.scores[stack[len(stack)-2]] += score * sc.scoring.AncestorDecay
	}
}

// linkTextLength returns the number of characters of n's text that sit
// inside anchors.
func linkTextLength(n *Node) int {
	total := 0
	n.Walk(func(c *Node) bool {
		if c.Tag == "a" {
			total += utf8.RuneCountInString(c.TextContent())
			return false
		}
		return true
	})
	return total
}

// ExtractPage removes boilerplate from doc, selects its main content block,
// and returns the block's normalized text, sanitized HTML, and links.
// doc is modified in place. Title and metadata are left to the caller.
//
// Returns EINVALID for an unparseable baseURL and EEXTRACT when the page
// has no usable content.
func ExtractPage(doc *Node, baseURL string, opts ExtractOptions) (*PageContent, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid base URL %q", baseURL)
	}
	if opts.MaxLinks <= 0 {
		opts.MaxLinks = DefaultMaxLinks
	}

	StripBoilerplate(doc)
	main, err := SelectMainContent(doc, opts.Scoring)
	if err != nil {
		return nil, err
	}

	return &PageContent{
		URL:         baseURL,
		MainText:    main.TextContent(),
		ContentHTML: RenderHTML(main),
		Links:       CollectLinks(main, base, opts.MaxLinks),
	}, nil
}
