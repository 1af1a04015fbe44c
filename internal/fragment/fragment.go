// Package fragment turns raw assistant output into the ordered fragments
// emitted on the stream. Stateless: the same input always yields the same
// sequence.
package fragment

import (
	"regexp"
	"strings"
)

// Citation annotations the backend embeds in response text. The 【...】 form
// is the file-search marker (e.g. 【4:0†source】); bare [n] is the numbered
// variant some responses carry. Neither is meant for end users.
var (
	annotationRe = regexp.MustCompile(`【[^】]*】`)
	citationRe   = regexp.MustCompile(`\[\d+\]`)
)

// StripAnnotations removes citation markers from raw response text.
func StripAnnotations(raw string) string {
	s := annotationRe.ReplaceAllString(raw, "")
	return citationRe.ReplaceAllString(s, "")
}

// Split strips annotations, splits the remaining text on whitespace, and
// groups the words into chunkWords-sized fragments in original order, joined
// by single spaces. Never returns an empty fragment.
func Split(raw string, chunkWords int) []string {
	if chunkWords < 1 {
		chunkWords = 1
	}

	words := strings.Fields(StripAnnotations(raw))
	if len(words) == 0 {
		return nil
	}

	fragments := make([]string, 0, (len(words)+chunkWords-1)/chunkWords)
	for i := 0; i < len(words); i += chunkWords {
		end := i + chunkWords
		if end > len(words) {
			end = len(words)
		}
		fragments = append(fragments, strings.Join(words[i:end], " "))
	}
	return fragments
}
