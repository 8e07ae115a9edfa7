package pageqa

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SegmentKind identifies the kind of a formatted answer segment.
type SegmentKind string

// Segment kinds produced by FormatAnswer.
const (
	SegmentHeading   SegmentKind = "heading"
	SegmentParagraph SegmentKind = "paragraph"
	SegmentList      SegmentKind = "list"
	SegmentQuote     SegmentKind = "quote"
)

// Segment is one block of a formatted answer.
type Segment struct {
	Kind SegmentKind `json:"kind"`

	// Level is the heading level (1-6) for heading segments.
	Level int `json:"level,omitempty"`

	// Ordered marks numbered lists.
	Ordered bool `json:"ordered,omitempty"`

	// Text is the plain text with markdown markers removed.
	Text string `json:"text"`

	// Items holds the plain text of each list item.
	Items []string `json:"items,omitempty"`

	// HTML is the rendered segment. Everything outside the recognized
	// markdown subset is escaped.
	HTML string `json:"html"`
}

// QAResult is a formatted model answer.
type QAResult struct {
	// Answer is the plain prose of the answer. Blockquotes and the
	// confidence section are not part of it.
	Answer string `json:"answer"`

	// HTML is the rendered HTML of all segments.
	HTML string `json:"html"`

	Segments       []Segment `json:"segments"`
	SourceQuotes   []string  `json:"sourceQuotes"`
	ConfidenceNote string    `json:"confidenceNote,omitempty"`
}

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	bulletRe   = regexp.MustCompile(`^[-*+•]\s+(.+)$`)
	orderedRe  = regexp.MustCompile(`^\d{1,3}[.)]\s+(.+)$`)
	quoteRe    = regexp.MustCompile(`^>\s?(.*)$`)
	ruleRe     = regexp.MustCompile(`^(?:-{3,}|\*{3,}|_{3,})$`)
	emphasisRe = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__|\*([^*\s](?:[^*]*[^*\s])?)\*`)
	inlineRe   = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__|\*([^*\s](?:[^*]*[^*\s])?)\*|"([^"\n]+)"|“([^”\n]+)”`)
	quotedRe   = regexp.MustCompile(`"([^"\n]+)"|“([^”\n]+)”`)
	confRe     = regexp.MustCompile(`(?i)^confidence\b`)
)

// block is a run of source lines forming one segment.
type block struct {
	kind    SegmentKind
	level   int
	ordered bool
	lines   []string
}

// FormatAnswer converts markdown model output into a QAResult. It
// recognizes headings, bold and italic text, bullet and numbered lists,
// and blockquotes; all other markup is escaped. Blockquotes and double
// quoted spans are collected as source quotes. A section headed
// "Confidence" becomes the confidence note.
//
// FormatAnswer is deterministic. Returns EFORMAT if text is blank.
func FormatAnswer(text string) (*QAResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, Errorf(EFORMAT, "model returned an empty answer")
	}

	result := &QAResult{
		Segments:     []Segment{},
		SourceQuotes: []string{},
	}

	var (
		answer     []string
		confidence []string
		htmlParts  []string
		inConf     bool
		seen       = make(map[string]bool)
	)
	addQuote := func(q string) {
		q = strings.TrimSpace(strings.Trim(strings.TrimSpace(q), `"“”`))
		if q == "" || seen[q] {
			return
		}
		seen[q] = true
		result.SourceQuotes = append(result.SourceQuotes, q)
	}

	for _, b := range parseBlocks(text) {
		if b.kind == SegmentHeading {
			inConf = confRe.MatchString(stripInline(b.lines[0]))
			if inConf {
				continue
			}
		}

		seg := b.segment()
		if inConf {
			confidence = append(confidence, seg.Text)
			continue
		}

		result.Segments = append(result.Segments, seg)
		htmlParts = append(htmlParts, seg.HTML)

		switch seg.Kind {
		case SegmentQuote:
			addQuote(seg.Text)
			continue
		case SegmentList:
			for i, item := range seg.Items {
				for _, q := range quotedSpans(item) {
					addQuote(q)
				}
				if seg.Ordered {
					answer = append(answer, fmt.Sprintf("%d. %s", i+1, item))
				} else {
					answer = append(answer, "- "+item)
				}
			}
			continue
		}
		for _, q := range quotedSpans(seg.Text) {
			addQuote(q)
		}
		answer = append(answer, seg.Text)
	}

	result.Answer = joinAnswer(result.Segments, answer)
	result.HTML = strings.Join(htmlParts, "\n")
	result.ConfidenceNote = strings.Join(confidence, " ")
	return result, nil
}

// joinAnswer joins answer lines with blank lines between blocks and single
// newlines between items of the same list.
func joinAnswer(segments []Segment, lines []string) string {
	var sb strings.Builder
	i := 0
	for _, seg := range segments {
		if seg.Kind == SegmentQuote {
			continue
		}
		n := 1
		if seg.Kind == SegmentList {
			n = len(seg.Items)
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.Join(lines[i:i+n], "\n"))
		i += n
	}
	return sb.String()
}

// parseBlocks groups the lines of text into blocks.
func parseBlocks(text string) []block {
	var blocks []block
	var cur *block
	flush := func() {
		if cur != nil && len(cur.lines) > 0 {
			blocks = append(blocks, *cur)
		}
		cur = nil
	}

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)

		if line == "" || ruleRe.MatchString(line) {
			flush()
			continue
		}
		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			blocks = append(blocks, block{kind: SegmentHeading, level: len(m[1]), lines: []string{strings.TrimSpace(m[2])}})
			continue
		}
		if m := quoteRe.FindStringSubmatch(line); m != nil {
			if cur == nil || cur.kind != SegmentQuote {
				flush()
				cur = &block{kind: SegmentQuote}
			}
			if q := strings.TrimSpace(m[1]); q != "" {
				cur.lines = append(cur.lines, q)
			}
			continue
		}

		item, ordered, isItem := "", false, false
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			item, isItem = m[1], true
		} else if m := orderedRe.FindStringSubmatch(line); m != nil {
			item, ordered, isItem = m[1], true, true
		}
		if isItem {
			if cur == nil || cur.kind != SegmentList || cur.ordered != ordered {
				flush()
				cur = &block{kind: SegmentList, ordered: ordered}
			}
			cur.lines = append(cur.lines, strings.TrimSpace(item))
			continue
		}

		// Indented lines continue the previous list item.
		if cur != nil && cur.kind == SegmentList && raw != line && strings.HasPrefix(raw, " ") {
			cur.lines[len(cur.lines)-1] += " " + line
			continue
		}
		if cur == nil || cur.kind != SegmentParagraph {
			flush()
			cur = &block{kind: SegmentParagraph}
		}
		cur.lines = append(cur.lines, line)
	}
	flush()
	return blocks
}

// segment renders the block.
func (b block) segment() Segment {
	switch b.kind {
	case SegmentHeading:
		return Segment{
			Kind:  SegmentHeading,
			Level: b.level,
			Text:  stripInline(b.lines[0]),
			HTML:  fmt.Sprintf("<h%d>%s</h%d>", b.level, renderInline(b.lines[0]), b.level),
		}

	case SegmentList:
		tag := "ul"
		if b.ordered {
			tag = "ol"
		}
		items := make([]string, len(b.lines))
		var sb strings.Builder
		sb.WriteString("<" + tag + ">")
		for i, line := range b.lines {
			items[i] = stripInline(line)
			sb.WriteString("<li>" + renderInline(line) + "</li>")
		}
		sb.WriteString("</" + tag + ">")
		return Segment{
			Kind:    SegmentList,
			Ordered: b.ordered,
			Text:    strings.Join(items, " "),
			Items:   items,
			HTML:    sb.String(),
		}

	case SegmentQuote:
		parts := make([]string, len(b.lines))
		for i, line := range b.lines {
			parts[i] = renderInline(line)
		}
		return Segment{
			Kind: SegmentQuote,
			Text: stripInline(strings.Join(b.lines, " ")),
			HTML: "<blockquote>" + strings.Join(parts, "<br>") + "</blockquote>",
		}
	}

	joined := strings.Join(b.lines, " ")
	return Segment{
		Kind: SegmentParagraph,
		Text: stripInline(joined),
		HTML: "<p>" + renderInline(joined) + "</p>",
	}
}

// stripInline removes bold and italic markers, keeping their text.
func stripInline(s string) string {
	var sb strings.Builder
	last := 0
	for _, m := range emphasisRe.FindAllStringSubmatchIndex(s, -1) {
		if m[6] >= 0 && intraword(s, m[0]) {
			continue
		}
		sb.WriteString(s[last:m[0]])
		for g := 2; g <= 6; g += 2 {
			if m[g] >= 0 {
				sb.WriteString(s[m[g]:m[g+1]])
			}
		}
		last = m[1]
	}
	sb.WriteString(s[last:])
	return sb.String()
}

// intraword reports whether a single-star span starting at i opens inside
// a word, as in the product "a*b*c". Such spans are not italic.
func intraword(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// renderInline escapes s and renders bold, italic, and quoted spans.
func renderInline(s string) string {
	var sb strings.Builder
	last := 0
	for _, m := range inlineRe.FindAllStringSubmatchIndex(s, -1) {
		if m[6] >= 0 && intraword(s, m[0]) {
			continue
		}
		sb.WriteString(html.EscapeString(s[last:m[0]]))
		switch {
		case m[2] >= 0:
			sb.WriteString("<strong>" + html.EscapeString(s[m[2]:m[3]]) + "</strong>")
		case m[4] >= 0:
			sb.WriteString("<strong>" + html.EscapeString(s[m[4]:m[5]]) + "</strong>")
		case m[6] >= 0:
			sb.WriteString("<em>" + html.EscapeString(s[m[6]:m[7]]) + "</em>")
		case m[8] >= 0:
			sb.WriteString("<q>" + html.EscapeString(s[m[8]:m[9]]) + "</q>")
		case m[10] >= 0:
			sb.WriteString("<q>" + html.EscapeString(s[m[10]:m[11]]) + "</q>")
		}
		last = m[1]
	}
	sb.WriteString(html.EscapeString(s[last:]))
	return sb.String()
}

// quotedSpans returns the double-quoted spans of s in order.
func quotedSpans(s string) []string {
	var spans []string
	for _, m := range quotedRe.FindAllStringSubmatch(s, -1) {
		spans = append(spans, m[1]+m[2])
	}
	return spans
}
