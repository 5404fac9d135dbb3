package codele

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed words/solutions.txt
var solutionsFile string

//go:embed words/accepted.txt
var acceptedFile string

// ErrCorpusInvalid is returned when a word list entry is malformed or duplicated.
var ErrCorpusInvalid = errors.New("invalid word corpus")

// Corpus is an ordered list of solution words plus the dictionary of words
// accepted as guesses. The dictionary always contains every solution.
type Corpus struct {
	length     int
	solutions  []string
	dictionary map[string]struct{}
}

// NewCorpus builds a corpus of fixed-length words. Solutions keep their order.
func NewCorpus(length int, solutions, accepted []string) (*Corpus, error) {
	c := &Corpus{
		length:     length,
		solutions:  make([]string, 0, len(solutions)),
		dictionary: make(map[string]struct{}, len(solutions)+len(accepted)),
	}

	for _, raw := range solutions {
		w := Normalize(raw)
		if err := c.checkWord(w); err != nil {
			return nil, err
		}
		if _, dup := c.dictionary[w]; dup {
			return nil, fmt.Errorf("%w: duplicate solution %q", ErrCorpusInvalid, w)
		}
		c.solutions = append(c.solutions, w)
		c.dictionary[w] = struct{}{}
	}
	for _, raw := range accepted {
		w := Normalize(raw)
		if err := c.checkWord(w); err != nil {
			return nil, err
		}
		c.dictionary[w] = struct{}{}
	}

	if len(c.solutions) == 0 {
		return nil, fmt.Errorf("%w: no solutions", ErrCorpusInvalid)
	}
	return c, nil
}

// DefaultCorpus returns the corpus embedded in the binary.
func DefaultCorpus(length int) (*Corpus, error) {
	return NewCorpus(length, readWordList(solutionsFile), readWordList(acceptedFile))
}

func (c *Corpus) checkWord(w string) error {
	if len(w) != c.length || !IsLetters(w) {
		return fmt.Errorf("%w: %q is not a %d-letter word", ErrCorpusInvalid, w, c.length)
	}
	return nil
}

// WordLength returns the fixed length of every word.
func (c *Corpus) WordLength() int { return c.length }

// Size returns the number of solution words.
func (c *Corpus) Size() int { return len(c.solutions) }

// Solution returns the i-th solution word.
func (c *Corpus) Solution(i int) string { return c.solutions[i] }

// Contains reports whether word is an accepted guess.
func (c *Corpus) Contains(word string) bool {
	_, ok := c.dictionary[Normalize(word)]
	return ok
}

// Normalize trims surrounding whitespace and upper-cases s.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsLetters reports whether s consists only of ASCII A-Z.
func IsLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return s != ""
}

// readWordList splits a word file into entries, ignoring blank lines and
// lines starting with '#'.
func readWordList(src string) []string {
	var words []string
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}
