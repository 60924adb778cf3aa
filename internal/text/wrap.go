// Package text wraps flowed text into lines using real font metrics, so
// headless layout reports the same line counts a rendered page would.
package text

import (
	"strings"
	"sync"
	"unicode"

	"codeberg.org/go-pdf/fpdf"
)

var (
	measurePDF  *fpdf.Fpdf
	measureOnce sync.Once
	measureMu   sync.Mutex
)

func initMeasurePDF() {
	measurePDF = fpdf.New("P", "pt", "", "")
	measurePDF.SetFont("Helvetica", "", 12)
}

// Width returns the rendered width of text in pixels at 96 DPI using
// fpdf core-font metrics. Family is Helvetica, Times or Courier; style
// is "", "B", "I" or "BI".
func Width(text string, fontSize float64, family, style string) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}
	measureOnce.Do(initMeasurePDF)
	measureMu.Lock()
	defer measureMu.Unlock()
	// fpdf measures in points; scale 72pt/in metrics to 96px/in.
	measurePDF.SetFont(family, style, fontSize*72/96)
	return measurePDF.GetStringWidth(text) * 96 / 72
}

// Wrap breaks text into lines no wider than maxWidth, splitting at
// spaces and force-breaking tokens wider than a whole line. It never
// returns an empty slice for non-empty input.
func Wrap(text string, fontSize float64, family, style string, maxWidth float64) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxWidth <= 0 {
		return []string{text}
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0.0
	spaceWidth := Width(" ", fontSize, family, style)

	for _, tok := range SplitTokens(text) {
		if tok == " " {
			if cur.Len() > 0 {
				cur.WriteByte(' ')
				curWidth += spaceWidth
			}
			continue
		}

		w := Width(tok, fontSize, family, style)
		if curWidth+w > maxWidth && cur.Len() > 0 {
			lines = append(lines, strings.TrimRight(cur.String(), " "))
			cur.Reset()
			curWidth = 0
		}
		if w > maxWidth {
			for _, part := range forceBreak(tok, fontSize, family, style, maxWidth) {
				if cur.Len() > 0 {
					lines = append(lines, strings.TrimRight(cur.String(), " "))
					cur.Reset()
					curWidth = 0
				}
				cur.WriteString(part)
				curWidth = Width(part, fontSize, family, style)
			}
			continue
		}
		cur.WriteString(tok)
		curWidth += w
	}
	if cur.Len() > 0 {
		lines = append(lines, strings.TrimRight(cur.String(), " "))
	}
	return lines
}

// LineCount returns the number of wrapped lines for text, at least 1 for
// any input so empty blocks still occupy a line.
func LineCount(text string, fontSize float64, family, style string, maxWidth float64) int {
	n := len(Wrap(text, fontSize, family, style, maxWidth))
	if n < 1 {
		return 1
	}
	return n
}

// forceBreak splits a single over-wide token at the rune granularity.
func forceBreak(tok string, fontSize float64, family, style string, maxWidth float64) []string {
	var parts []string
	var cur []rune
	curWidth := 0.0
	for _, r := range tok {
		w := Width(string(r), fontSize, family, style)
		if curWidth+w > maxWidth && len(cur) > 0 {
			parts = append(parts, string(cur))
			cur = cur[:0]
			curWidth = 0
		}
		cur = append(cur, r)
		curWidth += w
	}
	if len(cur) > 0 {
		parts = append(parts, string(cur))
	}
	return parts
}

// SplitTokens splits text into alternating word and single-space tokens.
// Runs of whitespace collapse to one space.
func SplitTokens(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	tokens := []string{}
	var cur []rune
	inSpace := false

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				if len(cur) > 0 {
					tokens = append(tokens, string(cur))
					cur = cur[:0]
				}
				tokens = append(tokens, " ")
				inSpace = true
			}
			continue
		}
		inSpace = false
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		tokens = append(tokens, string(cur))
	}
	return tokens
}

// NormalizeWhitespace collapses runs of whitespace into single spaces
// without trimming the ends.
func NormalizeWhitespace(s string) string {
	var result []rune
	lastWasSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result = append(result, ' ')
			}
			lastWasSpace = true
			continue
		}
		result = append(result, r)
		lastWasSpace = false
	}
	return string(result)
}
