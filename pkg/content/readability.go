// Package content derives supporting signals from page body text:
// a Flesch Reading Ease score, keyword frequencies, and an optional
// article extraction. None of these drive pass/fail verdicts.
package content

import (
	"math"
	"strings"
)

// Readability computes the Flesch Reading Ease score for a text, clamped
// to [0,100] and rounded. Empty text, or text without sentences or words,
// scores 0.
func Readability(text string) int {
	sentences := countSentences(text)
	words := strings.Fields(text)
	if sentences == 0 || len(words) == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	score := 206.835 -
		1.015*(float64(len(words))/float64(sentences)) -
		84.6*(float64(syllables)/float64(len(words)))

	return int(math.Round(math.Max(0, math.Min(100, score))))
}

func countSentences(text string) int {
	count := 0
	for _, seg := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(seg) != "" {
			count++
		}
	}
	return count
}

// countSyllables approximates syllables as contiguous vowel-group runs in
// the lowercased, letters-only word. Words of three letters or fewer
// count as one syllable; longer words count at least one.
func countSyllables(word string) int {
	var letters strings.Builder
	for _, r := range strings.ToLower(word) {
		if r >= 'a' && r <= 'z' {
			letters.WriteRune(r)
		}
	}
	w := letters.String()
	if len(w) <= 3 {
		return 1
	}

	runs := 0
	inRun := false
	for _, r := range w {
		if isVowel(r) {
			if !inRun {
				runs++
				inRun = true
			}
		} else {
			inRun = false
		}
	}
	if runs == 0 {
		return 1
	}
	return runs
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
