package toon

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer is the external tokenization collaborator used to measure
// compaction savings. Implementations must be safe for concurrent use.
type Tokenizer interface {
	Tokenize(text string) ([]int, error)
}

// DefaultTokenizerTimeout bounds a single Tokenize call. A tokenizer that
// exceeds it is treated as failed, and counting degrades to an
// approximation; the conversion itself still succeeds.
const DefaultTokenizerTimeout = 5 * time.Second

var (
	cl100kEncoder *tiktoken.Tiktoken
	cl100kOnce    sync.Once
	cl100kErr     error
)

// TiktokenTokenizer tokenizes with tiktoken's cl100k_base encoding, a
// reasonable stand-in for modern LLM tokenizers. The underlying encoder is
// initialized lazily and shared process-wide.
type TiktokenTokenizer struct{}

// NewTiktokenTokenizer returns the default tokenizer.
func NewTiktokenTokenizer() *TiktokenTokenizer {
	return &TiktokenTokenizer{}
}

// Tokenize returns the cl100k_base token sequence for text. Special token
// sequences such as "<|endoftext|>" are counted as ordinary tokens rather
// than rejected.
func (t *TiktokenTokenizer) Tokenize(text string) ([]int, error) {
	cl100kOnce.Do(func() {
		cl100kEncoder, cl100kErr = tiktoken.GetEncoding("cl100k_base")
	})
	if cl100kErr != nil {
		return nil, fmt.Errorf("load cl100k_base encoding: %w", cl100kErr)
	}
	return cl100kEncoder.Encode(text, []string{"all"}, nil), nil
}

// ApproxTokens estimates a token count without a tokenizer, blending word
// and character counts (~4 chars per token). Used as the degraded fallback
// when the real tokenizer fails or times out. Returns at least 1 for
// non-empty text.
func ApproxTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	n := (words + len(text)/4) / 2
	if n < 1 {
		n = 1
	}
	return n
}

// countTokens measures text with tok under a bounded timeout. It never
// fails: on tokenizer error, timeout, or cancellation it falls back to
// ApproxTokens and returns the cause so the caller can record a warning.
func countTokens(ctx context.Context, tok Tokenizer, timeout time.Duration, text string) (int, error) {
	if tok == nil {
		return ApproxTokens(text), nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type answer struct {
		tokens []int
		err    error
	}
	ch := make(chan answer, 1)
	go func() {
		tokens, err := tok.Tokenize(text)
		ch <- answer{tokens, err}
	}()

	select {
	case a := <-ch:
		if a.err != nil {
			return ApproxTokens(text), a.err
		}
		return len(a.tokens), nil
	case <-ctx.Done():
		return ApproxTokens(text), fmt.Errorf("tokenizer: %w", ctx.Err())
	}
}
