package codele

import (
	"unicode/utf8"

	"github.com/phrazzld/codele-api/internal/domain"
)

// Evaluate scores guess against solution with the two-pass algorithm.
//
// Pass one marks exact-position matches Correct and consumes that letter from
// the solution's remaining counts. Pass two walks the other positions left to
// right, marking a letter Present while an unconsumed occurrence remains and
// Absent otherwise. Correct letters therefore always claim occurrences first,
// and the number of Correct or Present marks for a letter never exceeds its
// count in the solution.
func Evaluate(guess, solution string) ([]domain.LetterState, error) {
	g := []rune(guess)
	s := []rune(solution)
	if len(g) != len(s) {
		return nil, domain.ErrInvalidLength
	}

	result := make([]domain.LetterState, len(g))
	remaining := make(map[rune]int, len(s))
	for _, r := range s {
		remaining[r]++
	}

	for i := range g {
		if g[i] == s[i] {
			result[i] = domain.LetterCorrect
			remaining[g[i]]--
		}
	}

	for i := range g {
		if result[i] == domain.LetterCorrect {
			continue
		}
		if remaining[g[i]] > 0 {
			result[i] = domain.LetterPresent
			remaining[g[i]]--
		} else {
			result[i] = domain.LetterAbsent
		}
	}

	return result, nil
}

// Evaluator validates raw guesses before scoring them.
type Evaluator struct {
	corpus  *Corpus
	enforce bool
}

// NewEvaluator creates an Evaluator. When enforceDictionary is set, guesses
// must appear in corpus; otherwise any A-Z word of the right length is accepted.
func NewEvaluator(corpus *Corpus, enforceDictionary bool) *Evaluator {
	return &Evaluator{corpus: corpus, enforce: enforceDictionary}
}

// Score normalizes input and evaluates it against solution.
// Nothing is mutated; callers can reject the guess with no side effects.
func (e *Evaluator) Score(input, solution string) (domain.Guess, error) {
	text := Normalize(input)
	if utf8.RuneCountInString(text) != utf8.RuneCountInString(solution) {
		return domain.Guess{}, domain.ErrInvalidLength
	}
	if !IsLetters(text) {
		return domain.Guess{}, domain.ErrInvalidWord
	}
	if e.enforce && !e.corpus.Contains(text) {
		return domain.Guess{}, domain.ErrInvalidWord
	}

	evaluation, err := Evaluate(text, solution)
	if err != nil {
		return domain.Guess{}, err
	}
	return domain.Guess{Text: text, Evaluation: evaluation}, nil
}
