package annotate

import "context"

// Token is one unit of annotation engine output. The JSON shape follows the
// attribute names spaCy uses for the same flags.
type Token struct {
	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	IsPunct bool `json:"is_punct"`
	IsSpace bool `json:"is_space"`
	IsStop  bool `json:"is_stop"`
	LikeNum bool `json:"like_num"`
	IsAlpha bool `json:"is_alpha"`
}

// Tagger tokenizes, lemmatizes and flags text.
// Implementations must be safe for concurrent use.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Token, error)
}

// TaggerFunc adapts a function to the Tagger interface.
type TaggerFunc func(ctx context.Context, text string) ([]Token, error)

// Tag calls f(ctx, text).
func (f TaggerFunc) Tag(ctx context.Context, text string) ([]Token, error) {
	return f(ctx, text)
}
