package pageqa

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultMaxPromptChars is the default budget for page text in a prompt.
const DefaultMaxPromptChars = 12000

// answerInstructions asks the model for a claim plus verbatim evidence, in
// the markdown subset that FormatAnswer understands.
const answerInstructions = `Respond in markdown with exactly these sections:

## Answer
A direct answer to the question in one or two short paragraphs. Use bullet points for lists of facts.

## Evidence
For each claim in the answer, a blockquote line starting with "> " that copies a passage from the content word for word, followed by one sentence explaining how it supports the claim.

## Confidence
One or two sentences on how well the content supports the answer. If the content does not answer the question, say what information is missing.

Do not use HTML, tables, or code blocks.`

// BuildPrompt builds the prompt asking question about content. The page
// text is truncated to maxChars characters.
func BuildPrompt(content *PageContent, question string, maxChars int) string {
	text, truncated := TruncateText(content.MainText, maxChars)

	var sb strings.Builder
	sb.WriteString("You are a careful research assistant. Answer the question using only the web page content below.\n\n")
	sb.WriteString("<page>\n")
	fmt.Fprintf(&sb, "<source>%s</source>\n", content.URL)
	if content.Title != "" {
		fmt.Fprintf(&sb, "<title>%s</title>\n", content.Title)
	}
	fmt.Fprintf(&sb, "<content>%s</content>\n", text)
	if truncated {
		sb.WriteString("<note>The content was truncated to fit.</note>\n")
	}
	sb.WriteString("</page>\n\n")
	fmt.Fprintf(&sb, "Question: %s\n\n", strings.TrimSpace(question))
	sb.WriteString(answerInstructions)
	return sb.String()
}

// TruncateText shortens text to at most limit characters and reports
// whether it did. The cut is placed at the sentence boundary nearest below
// the limit, as long as that keeps at least half the budget; otherwise at the
// last word boundary. A single word longer than limit is cut hard. A
// non-positive limit disables truncation.
func TruncateText(text string, limit int) (string, bool) {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text, false
	}

	minCut := limit / 2
	cut := -1

	for i := limit - 1; i >= minCut && cut < 0; i-- {
		if isSentenceEnd(runes[i]) && unicode.IsSpace(runes[i+1]) {
			cut = i + 1
		}
	}
	for i := limit; i > 0 && cut < 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
		}
	}
	if cut <= 0 {
		cut = limit
	}

	return strings.TrimSpace(string(runes[:cut])), true
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}
