package toon

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one successful conversion. It is immutable once
// produced and owned by the caller.
type Result struct {
	// ToonOutput is the encoded TOON text.
	ToonOutput string

	// OriginalTokens and ToonTokens are the token counts of the input text
	// and of ToonOutput.
	OriginalTokens int
	ToonTokens     int

	// TokenReduction is OriginalTokens - ToonTokens. It can be negative for
	// inputs that were already terse.
	TokenReduction int

	// Warnings lists non-fatal anomalies in the order the pipeline produced
	// them: converter first, then encoder, then token counting.
	Warnings []string
}

// SavingsPercent returns the token reduction as a percentage of the
// original count, 0 when the original count is 0.
func (r *Result) SavingsPercent() float64 {
	if r.OriginalTokens == 0 {
		return 0
	}
	return float64(r.TokenReduction) / float64(r.OriginalTokens) * 100
}

// Request is one batch conversion item.
type Request struct {
	Text   string
	Format Format
	Config Config
}

// Outcome is the per-item result of a batch conversion: exactly one of
// Result and Err is set.
type Outcome struct {
	Result *Result
	Err    error
}

// Converter runs the conversion pipeline: optional detection, format
// conversion, encoding, and token accounting. A Converter holds no mutable
// state and is safe for concurrent use.
type Converter struct {
	tok        Tokenizer
	tokTimeout time.Duration
	workers    int
}

// Option configures a Converter.
type Option func(*Converter)

// WithTokenizer replaces the default tiktoken tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(c *Converter) { c.tok = t }
}

// WithTokenizerTimeout bounds each tokenizer call.
func WithTokenizerTimeout(d time.Duration) Option {
	return func(c *Converter) { c.tokTimeout = d }
}

// WithWorkers caps batch conversion concurrency.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.workers = n
		}
	}
}

// New creates a Converter with the default tokenizer and worker pool.
func New(opts ...Option) *Converter {
	c := &Converter{
		tok:        NewTiktokenTokenizer(),
		tokTimeout: DefaultTokenizerTimeout,
		workers:    runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert runs one conversion. FormatAuto triggers detection first and fails
// with ErrFormatUndetermined when the text is ambiguous; callers who know
// the format should declare it. Parse failures are fatal to this call;
// warnings are not.
func (c *Converter) Convert(ctx context.Context, text string, format Format, cfg Config) (*Result, error) {
	if format == FormatAuto {
		if format = Detect(text); format == FormatUnknown {
			return nil, ErrFormatUndetermined
		}
	}

	tree, warnings, err := convertTree(text, format, cfg)
	if err != nil {
		return nil, err
	}

	out, encWarnings := Encode(tree, cfg)
	warnings = append(warnings, encWarnings...)

	var origTokens, toonTokens int
	origTokens, warnings = c.count(ctx, text, warnings)
	toonTokens, warnings = c.count(ctx, out, warnings)

	return &Result{
		ToonOutput:     out,
		OriginalTokens: origTokens,
		ToonTokens:     toonTokens,
		TokenReduction: origTokens - toonTokens,
		Warnings:       warnings,
	}, nil
}

// ConvertAll converts independent inputs concurrently. The returned slice
// matches the input order regardless of completion order, and one item's
// failure never affects its siblings. Cancelling ctx stops unstarted items
// with the context's error.
func (c *Converter) ConvertAll(ctx context.Context, reqs []Request) []Outcome {
	outcomes := make([]Outcome, len(reqs))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = Outcome{Err: err}
				return nil
			}
			res, err := c.Convert(ctx, req.Text, req.Format, req.Config)
			outcomes[i] = Outcome{Result: res, Err: err}
			return nil
		})
	}
	g.Wait()

	return outcomes
}

// convertTree dispatches to the converter for a declared format.
func convertTree(text string, format Format, cfg Config) (*Value, []string, error) {
	switch format {
	case FormatJSON:
		v, err := decodeJSON(text)
		return v, nil, err
	case FormatXML:
		v, err := decodeXML(text)
		return v, nil, err
	case FormatCSV:
		return decodeCSV(text, cfg)
	case FormatHTML:
		v, err := decodeHTML(text)
		return v, nil, err
	default:
		return nil, nil, fmt.Errorf("toon: no converter for format %s", format)
	}
}

// count measures text, degrading to an approximation with a warning when
// the tokenizer fails or times out.
func (c *Converter) count(ctx context.Context, text string, warnings []string) (int, []string) {
	n, err := countTokens(ctx, c.tok, c.tokTimeout, text)
	if err != nil {
		warnings = append(warnings,
			fmt.Sprintf("token counting degraded to a word-count approximation: %v", err))
	}
	return n, warnings
}
