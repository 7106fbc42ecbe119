package tokens

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/bnema/codextendo/internal/ports"
)

// Counter estimates token counts with a tiktoken BPE encoder, preferring
// o200k_base and falling back to cl100k_base. When neither encoding can
// be loaded it degrades to a conservative ~4 chars/token estimate that
// never returns zero.
type Counter struct {
	encoder *tiktoken.Tiktoken
}

var _ ports.TokenCounter = (*Counter)(nil)

func NewCounter() *Counter {
	for _, name := range []string{"o200k_base", "cl100k_base"} {
		if encoder, err := tiktoken.GetEncoding(name); err == nil {
			return &Counter{encoder: encoder}
		}
	}

	return &Counter{}
}

func (c *Counter) Count(text string) int {
	if c.encoder != nil {
		return len(c.encoder.Encode(text, nil, nil))
	}

	if approx := len(text) / 4; approx > 1 {
		return approx
	}
	return 1
}

func (c *Counter) Precise() bool {
	return c.encoder != nil
}
