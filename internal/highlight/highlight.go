// Package highlight locates a text chunk inside the full document it was
// extracted from and produces an HTML rendering of the document with the
// chunk highlighted.
//
// The two copies of the text routinely disagree on whitespace, punctuation
// and line breaks (re-chunking, OCR cleanup, reflowing), so exact substring
// search is too brittle. Instead the chunk is reduced to its word tokens and
// the document is searched for the same tokens, in the same order, separated
// by any run of non-word characters. Word identity and order are preserved;
// everything between words is ignored.
package highlight

import (
	"html"
	"html/template"
	"regexp"
	"strings"
)

// MarkID is the element id of the highlight marker in rendered output.
// Rendering layers use it to find and scroll to the highlighted span.
const MarkID = "chunk-match"

const (
	markOpen  = `<mark id="` + MarkID + `" style="background-color: #FFDD00;">`
	markClose = `</mark>`
)

// wordToken matches a maximal run of Unicode word characters. Go's \w is
// ASCII-only, which would split accented words, so the class is spelled out.
var wordToken = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Span is a half-open byte range [Start, End) into the HTML-escaped form of
// a document. Offsets are into the escaped text, not the raw text: escaping
// changes lengths (e.g. "&" becomes "&amp;") and the escaped form is what
// gets rendered and highlighted.
type Span struct {
	Start int
	End   int
}

// Locate finds the first occurrence of chunk inside full, tolerating
// differences in whitespace, punctuation and line breaks between the two.
// Both inputs are HTML-escaped before matching and the returned span indexes
// the escaped form of full. The second return value reports whether a match
// was found; a chunk with no word tokens never matches.
func Locate(full, chunk string) (Span, bool) {
	return locateEscaped(html.EscapeString(full), chunk)
}

// Render returns the HTML-escaped document with the first occurrence of
// chunk wrapped in a <mark> element and newlines converted to <br>. When no
// match is found the escaped, break-converted document is returned
// unchanged; the caller can detect that state by the absence of MarkID.
func Render(full, chunk string) template.HTML {
	escaped := html.EscapeString(full)
	span, ok := locateEscaped(escaped, chunk)
	if !ok {
		return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
	}

	var b strings.Builder
	b.Grow(len(escaped) + len(markOpen) + len(markClose))
	b.WriteString(escaped[:span.Start])
	b.WriteString(markOpen)
	b.WriteString(escaped[span.Start:span.End])
	b.WriteString(markClose)
	b.WriteString(escaped[span.End:])
	return template.HTML(strings.ReplaceAll(b.String(), "\n", "<br>"))
}

// Contains reports whether rendered output carries a highlight marker.
func Contains(rendered template.HTML) bool {
	return strings.Contains(string(rendered), `id="`+MarkID+`"`)
}

// locateEscaped runs the token search against an already-escaped document.
func locateEscaped(escapedFull, chunk string) (Span, bool) {
	escapedChunk := html.EscapeString(strings.TrimSpace(chunk))

	tokens := wordToken.FindAllString(escapedChunk, -1)
	if len(tokens) == 0 {
		return Span{}, false
	}

	// Each token is quoted so it matches literally; between consecutive
	// tokens any non-empty run of non-word characters is accepted, which
	// covers punctuation, collapsed whitespace and line breaks alike.
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = regexp.QuoteMeta(tok)
	}
	pattern, err := regexp.Compile(`(?i)` + strings.Join(quoted, `[^\p{L}\p{N}_]+`))
	if err != nil {
		// Quoted literals always compile; treat a failure as no match
		// rather than surfacing an error for a degenerate chunk.
		return Span{}, false
	}

	loc := pattern.FindStringIndex(escapedFull)
	if loc == nil {
		return Span{}, false
	}
	return Span{Start: loc[0], End: loc[1]}, true
}
