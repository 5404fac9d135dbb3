package domain

// LetterState is the score of one guessed letter.
type LetterState string

const (
	// LetterCorrect marks a letter in the right position.
	LetterCorrect LetterState = "correct"
	// LetterPresent marks a letter that occurs elsewhere in the solution.
	LetterPresent LetterState = "present"
	// LetterAbsent marks a letter with no unclaimed occurrence in the solution.
	LetterAbsent LetterState = "absent"
)

// IsValid checks if the letter state is one of the defined states.
func (s LetterState) IsValid() bool {
	switch s {
	case LetterCorrect, LetterPresent, LetterAbsent:
		return true
	default:
		return false
	}
}

// rank orders states for keyboard hints: Correct beats Present beats Absent.
func (s LetterState) rank() int {
	switch s {
	case LetterCorrect:
		return 3
	case LetterPresent:
		return 2
	case LetterAbsent:
		return 1
	default:
		return 0
	}
}

// Beats reports whether s is a stronger hint than other.
func (s LetterState) Beats(other LetterState) bool {
	return s.rank() > other.rank()
}

// Guess is one evaluated submission. It is immutable once evaluated.
type Guess struct {
	Text       string        `json:"text"`
	Evaluation []LetterState `json:"evaluation"`
}

// IsSolved reports whether every letter of the guess is Correct.
func (g Guess) IsSolved() bool {
	if len(g.Evaluation) == 0 {
		return false
	}
	for _, s := range g.Evaluation {
		if s != LetterCorrect {
			return false
		}
	}
	return true
}
