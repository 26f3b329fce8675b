// Package summarize produces the short bullet summaries stored with each
// article.
package summarize

import (
	"context"
	"strings"
	"unicode"

	"horse.fit/trendscope/internal/config"
)

const (
	// EmptySummary is stored when no article text could be extracted.
	EmptySummary = "• (No text extracted)"

	bullet          = "• "
	fallbackBullets = 3
)

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// New returns the OpenAI summarizer when an API key is configured and the
// extractive fallback otherwise.
func New(cfg *config.Config) Summarizer {
	if cfg != nil && strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	return Fallback{}
}

// Fallback summarizes by taking the leading sentences of the text.
type Fallback struct{}

func (Fallback) Summarize(_ context.Context, text string) (string, error) {
	return Extractive(text, fallbackBullets), nil
}

// Extractive renders the first n sentences of text as bullet lines.
func Extractive(text string, n int) string {
	if strings.TrimSpace(text) == "" {
		return EmptySummary
	}
	if n <= 0 {
		n = fallbackBullets
	}

	sentences := splitSentences(text, n)
	lines := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		lines = append(lines, bullet+sentence)
	}
	return strings.Join(lines, "\n")
}

// splitSentences returns at most n sentences. A sentence ends at '.', '!' or
// '?' followed by whitespace or the end of text.
func splitSentences(text string, n int) []string {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	out := make([]string, 0, n)
	start := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if sentence := strings.TrimSpace(string(runes[start : i+1])); sentence != "" {
			out = append(out, sentence)
			if len(out) == n {
				return out
			}
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" && len(out) < n {
		out = append(out, tail)
	}
	return out
}
