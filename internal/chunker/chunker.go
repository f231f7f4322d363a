package chunker

import (
	"strings"
	"unicode/utf8"
)

// Splitter cuts long strings into pieces no longer than MaxSize characters,
// preferring to cut right after one of Delimiters.
type Splitter struct {
	// MaxSize is measured in Unicode code points.
	MaxSize int
	// MinRatio keeps cuts out of the first MinRatio*MaxSize characters of a
	// window so that chunks are not too small.
	MinRatio float64
	// Delimiters in priority order. The first one found past the minimum
	// position wins, even if a lower-priority one sits further right.
	Delimiters []string
}

// Split returns the chunks of text in order. Joining them with "" yields text.
func (s Splitter) Split(text string) []string {
	if s.MaxSize <= 0 || utf8.RuneCountInString(text) <= s.MaxSize {
		return []string{text}
	}

	threshold := int(float64(s.MaxSize) * s.MinRatio)
	runes := []rune(text)
	var chunks []string

	for start := 0; start < len(runes); {
		if len(runes)-start <= s.MaxSize {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		window := string(runes[start : start+s.MaxSize])
		cut := s.breakPoint(window, threshold)
		chunks = append(chunks, string(runes[start:start+cut]))
		start += cut
	}
	return chunks
}

// breakPoint returns the rune offset just past the chosen delimiter in window,
// or MaxSize for a hard break.
func (s Splitter) breakPoint(window string, threshold int) int {
	for _, delim := range s.Delimiters {
		if delim == "" {
			continue
		}
		idx := strings.LastIndex(window, delim)
		if idx < 0 {
			continue
		}
		pos := utf8.RuneCountInString(window[:idx])
		if pos > threshold {
			return pos + utf8.RuneCountInString(delim)
		}
	}
	return s.MaxSize
}
