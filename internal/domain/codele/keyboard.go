package codele

import "github.com/phrazzld/codele-api/internal/domain"

// KeyboardHints returns the strongest state seen for each guessed letter.
// Correct outranks Present, which outranks Absent.
func KeyboardHints(guesses []domain.Guess) map[string]domain.LetterState {
	hints := make(map[string]domain.LetterState)
	for _, g := range guesses {
		for i, r := range []rune(g.Text) {
			if i >= len(g.Evaluation) {
				break
			}
			key := string(r)
			if g.Evaluation[i].Beats(hints[key]) {
				hints[key] = g.Evaluation[i]
			}
		}
	}
	return hints
}
