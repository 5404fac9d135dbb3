package codele

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	C = domain.LetterCorrect
	P = domain.LetterPresent
	A = domain.LetterAbsent
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		guess    string
		solution string
		want     []domain.LetterState
	}{
		{
			name:     "duplicate letters in guess exceed solution",
			guess:    "ERASE",
			solution: "SPEED",
			want:     []domain.LetterState{P, A, A, P, P},
		},
		{
			name:     "anagram of solution",
			guess:    "TRACE",
			solution: "REACT",
			want:     []domain.LetterState{P, P, C, C, P},
		},
		{
			name:     "exact match",
			guess:    "REACT",
			solution: "REACT",
			want:     []domain.LetterState{C, C, C, C, C},
		},
		{
			name:     "no shared letters",
			guess:    "BLIMP",
			solution: "QUERY",
			want:     []domain.LetterState{A, A, A, A, A},
		},
		{
			name:     "correct letter consumes the only occurrence",
			guess:    "LLAMA",
			solution: "LOGIC",
			want:     []domain.LetterState{C, A, A, A, A},
		},
		{
			name:     "present marks go left to right",
			guess:    "EEXXX",
			solution: "ABCDE",
			want:     []domain.LetterState{P, A, A, A, A},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.guess, tc.solution)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateInvalidLength(t *testing.T) {
	t.Parallel()

	_, err := Evaluate("CAT", "REACT")
	assert.ErrorIs(t, err, domain.ErrInvalidLength)
}

func TestEvaluateConservation(t *testing.T) {
	t.Parallel()

	// A small alphabet forces plenty of repeated letters.
	const alphabet = "ABCDE"
	rng := rand.New(rand.NewPCG(1, 2))
	word := func() string {
		var b strings.Builder
		for i := 0; i < 5; i++ {
			b.WriteByte(alphabet[rng.IntN(len(alphabet))])
		}
		return b.String()
	}

	for i := 0; i < 2000; i++ {
		guess, solution := word(), word()
		got, err := Evaluate(guess, solution)
		require.NoError(t, err)

		marked := map[byte]int{}
		for j, s := range got {
			if s == C {
				assert.Equal(t, solution[j], guess[j], "correct mark on mismatched letter")
			}
			if s == C || s == P {
				marked[guess[j]]++
			}
		}
		for letter, n := range marked {
			assert.LessOrEqual(t, n, strings.Count(solution, string(letter)),
				"guess %s solution %s letter %c", guess, solution, letter)
		}
	}
}

func TestEvaluatorScore(t *testing.T) {
	t.Parallel()

	corpus, err := NewCorpus(5, []string{"REACT", "STACK"}, []string{"TRACE"})
	require.NoError(t, err)

	strict := NewEvaluator(corpus, true)
	loose := NewEvaluator(corpus, false)

	tests := []struct {
		name      string
		evaluator *Evaluator
		input     string
		wantErr   error
		wantText  string
	}{
		{name: "normalizes case and space", evaluator: strict, input: "  trace ", wantText: "TRACE"},
		{name: "too short", evaluator: strict, input: "TRAC", wantErr: domain.ErrInvalidLength},
		{name: "too long", evaluator: strict, input: "TRACES", wantErr: domain.ErrInvalidLength},
		{name: "digits", evaluator: loose, input: "R3ACT", wantErr: domain.ErrInvalidWord},
		{name: "unknown word enforced", evaluator: strict, input: "ZZZZZ", wantErr: domain.ErrInvalidWord},
		{name: "unknown word allowed", evaluator: loose, input: "zzzzz", wantText: "ZZZZZ"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := tc.evaluator.Score(tc.input, "REACT")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantText, g.Text)
			assert.Len(t, g.Evaluation, 5)
		})
	}
}
