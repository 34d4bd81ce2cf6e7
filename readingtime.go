package spacetraveling

import (
	"strings"

	"github.com/eringen/spacetraveling/richtext"
)

// WordsPerMinute is the fixed reading speed used for estimates.
const WordsPerMinute = 200

// CountWords sums the words of every section heading and body. Words are
// split on single spaces only, so an empty string still counts as one token
// and repeated spaces produce empty tokens.
func CountWords(sections []ContentSection, f richtext.Formatter) int {
	n := 0
	for _, s := range sections {
		n += len(strings.Split(s.Heading, " "))
		n += len(strings.Split(f.AsPlainText(s.Body), " "))
	}
	return n
}

// ReadingTime returns the estimated minutes to read the sections, rounded up.
func ReadingTime(sections []ContentSection, f richtext.Formatter) int {
	words := CountWords(sections, f)
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
