package process

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"

	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// Tokenizer counts tokens with a BPE encoding. Common encodings: "cl100k_base" (GPT-4),
// "o200k_base" (GPT-4o), "p50k_base" (GPT-3). Claude's tokenizer is not public;
// cl100k_base is a close approximation.
type Tokenizer struct {
	codec tokenizer.Codec
}

// NewTokenizer loads the named encoding; empty means cl100k_base
func NewTokenizer(encoding string) (*Tokenizer, error) {
	var enc tokenizer.Encoding
	switch encoding {
	case "", "cl100k_base":
		enc = tokenizer.Cl100kBase
	case "p50k_base":
		enc = tokenizer.P50kBase
	case "p50k_edit":
		enc = tokenizer.P50kEdit
	case "r50k_base":
		enc = tokenizer.R50kBase
	case "o200k_base":
		enc = tokenizer.O200kBase
	default:
		return nil, fmt.Errorf("%w: unknown tokenizer encoding '%s'", utils.ErrConfigValidation, encoding)
	}

	codec, err := tokenizer.Get(enc)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer '%s': %w", encoding, err)
	}
	return &Tokenizer{codec: codec}, nil
}

// Count returns the exact token count, or -1 when t is nil or encoding fails
func (t *Tokenizer) Count(text string) int {
	if t == nil || t.codec == nil {
		return -1
	}
	ids, _, err := t.codec.Encode(text)
	if err != nil {
		return -1
	}
	return len(ids)
}

// Estimate is Count with a four-characters-per-token fallback
func (t *Tokenizer) Estimate(text string) int {
	if n := t.Count(text); n >= 0 {
		return n
	}
	return (utils.RuneLen(text) + 3) / 4
}
