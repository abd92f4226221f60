// Package formatter turns a provider transcript into timestamped sentence lines.
package formatter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/scriptkid03/audioscript/models"
)

// ErrMalformedTranscript is returned when word timing data cannot be formatted.
var ErrMalformedTranscript = errors.New("malformed transcript")

// sentenceBoundary matches terminal punctuation followed by a run of spaces.
// Only the spaces are consumed; the punctuation stays with its sentence.
var sentenceBoundary = regexp.MustCompile(`[.!?] +`)

// SplitSentences splits text after '.', '!' or '?' when followed by one or more spaces.
// It is a heuristic: abbreviations, decimals and quoted punctuation are not special-cased.
func SplitSentences(text string) []string {
	if text == "" {
		return nil
	}

	var sentences []string
	last := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		sentences = append(sentences, text[last:loc[0]+1])
		last = loc[1]
	}
	if last < len(text) {
		sentences = append(sentences, text[last:])
	}
	return sentences
}

// FormatTimestamp renders a millisecond offset as HH:MM:SS.mmm.
// Hours are not wrapped and grow past two digits when needed.
func FormatTimestamp(ms int64) string {
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	seconds := (ms % 60_000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// Lines assigns each sentence the start time of the word the cursor points at.
//
// The cursor advances by the whitespace token count of every sentence, so it
// drifts when the provider segments words differently than strings.Fields.
// Once the cursor runs past the last word, the remaining sentences are dropped.
func Lines(t models.Transcript) ([]models.FormattedLine, error) {
	sentences := SplitSentences(t.Text)
	lines := make([]models.FormattedLine, 0, len(sentences))

	wordIndex := 0
	for _, sentence := range sentences {
		if wordIndex >= len(t.Words) {
			break
		}

		start := t.Words[wordIndex].Start
		if start < 0 {
			return nil, fmt.Errorf("%w: word %d has negative start offset %d", ErrMalformedTranscript, wordIndex, start)
		}

		lines = append(lines, models.FormattedLine{
			Timestamp: FormatTimestamp(start),
			Text:      sentence,
		})
		wordIndex += len(strings.Fields(sentence))
	}
	return lines, nil
}

// Format returns the newline-joined timestamped lines for a transcript.
func Format(t models.Transcript) (string, error) {
	lines, err := Lines(t)
	if err != nil {
		return "", err
	}

	rendered := make([]string, len(lines))
	for i, line := range lines {
		rendered[i] = line.String()
	}
	return strings.Join(rendered, "\n"), nil
}
