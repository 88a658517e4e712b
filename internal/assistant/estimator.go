package assistant

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// ImageTokenCost is the fixed budget charge per attached image reference on
// multimodal roles. Vision encoders consume a constant patch budget per
// image regardless of its text caption.
const ImageTokenCost = 768

// SizeEstimator measures prompt text against a role's context window. The
// window and the estimator must use the same units.
type SizeEstimator interface {
	Estimate(text string) int
}

// RuneEstimator approximates tokens as ceil(runes/4). Cheap, offline and
// good enough for English prose; the default when no tokenizer data is
// available.
type RuneEstimator struct{}

func (RuneEstimator) Estimate(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// TokenEstimator counts real BPE tokens with the cl100k_base encoding.
type TokenEstimator struct {
	enc *tiktoken.Tiktoken
}

// NewTokenEstimator loads the cl100k_base encoding. The first call may
// fetch the encoding data unless an offline loader is configured.
func NewTokenEstimator() (*TokenEstimator, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to load cl100k_base encoding: %w", err)
	}
	return &TokenEstimator{enc: enc}, nil
}

func (e *TokenEstimator) Estimate(text string) int {
	return len(e.enc.Encode(text, nil, nil))
}
