package codele

import (
	"fmt"
	"strings"

	"github.com/phrazzld/codele-api/internal/domain"
)

// Share glyphs, one per letter state.
const (
	GlyphCorrect = "🟩"
	GlyphPresent = "🟨"
	GlyphAbsent  = "⬜"
)

// ShareConfig holds the fixed text of the share block.
type ShareConfig struct {
	ProductName string
	Tagline     string
	// Prompt is the call-to-action line under the tagline; empty omits it.
	Prompt      string
	Link        string
	MaxAttempts int
}

// DefaultShareConfig returns the product's standard share text.
func DefaultShareConfig() ShareConfig {
	return ShareConfig{
		ProductName: "Skloop Daily Codele",
		Tagline:     "Daily programming term challenge",
		Prompt:      "Test your coding vocabulary!",
		Link:        "skloop.vercel.app",
		MaxAttempts: 6,
	}
}

// ShareEncoder renders finished sessions as shareable text.
type ShareEncoder struct {
	cfg ShareConfig
}

// NewShareEncoder creates a ShareEncoder with cfg.
func NewShareEncoder(cfg ShareConfig) *ShareEncoder {
	return &ShareEncoder{cfg: cfg}
}

// Encode renders attempt on puzzle from its stored evaluations.
// The output depends only on its inputs, never on the current clock.
func (e *ShareEncoder) Encode(puzzle *domain.Puzzle, attempt *domain.Attempt) (string, error) {
	if !attempt.Status.IsTerminal() || len(attempt.Guesses) == 0 {
		return "", domain.ErrSessionNotFinished
	}

	var b strings.Builder

	fmt.Fprintf(&b, "🧩 %s #%d - %s", e.cfg.ProductName, puzzle.Number, puzzle.Date.Time().Format("Jan 2, 2006"))
	if attempt.IsPractice {
		b.WriteString(" (practice)")
	}
	b.WriteString("\n")

	if attempt.Status == domain.AttemptWon {
		fmt.Fprintf(&b, "✅ Solved in %d/%d attempts!\n", len(attempt.Guesses), e.cfg.MaxAttempts)
	} else {
		fmt.Fprintf(&b, "❌ Failed (%d/%d)\n", e.cfg.MaxAttempts, e.cfg.MaxAttempts)
	}
	b.WriteString("\n")

	for _, g := range attempt.Guesses {
		for _, s := range g.Evaluation {
			b.WriteString(glyph(s))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "💡 %s\n", e.cfg.Tagline)
	if e.cfg.Prompt != "" {
		fmt.Fprintf(&b, "🔥 %s\n", e.cfg.Prompt)
	}
	fmt.Fprintf(&b, "\n🎮 Play at %s", e.cfg.Link)

	return b.String(), nil
}

func glyph(s domain.LetterState) string {
	switch s {
	case domain.LetterCorrect:
		return GlyphCorrect
	case domain.LetterPresent:
		return GlyphPresent
	default:
		return GlyphAbsent
	}
}
