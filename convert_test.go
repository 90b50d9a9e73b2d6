package toon

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// byteTokenizer counts one token per byte, keeping pipeline tests hermetic
// and making "shorter text counts fewer tokens" exact.
type byteTokenizer struct{}

func (byteTokenizer) Tokenize(text string) ([]int, error) {
	return make([]int, len(text)), nil
}

func newTestConverter(opts ...Option) *Converter {
	return New(append([]Option{WithTokenizer(byteTokenizer{})}, opts...)...)
}

func TestConvertJSON(t *testing.T) {
	in := `{"name":"Faisolp","age":30,"courses":["Math","Science"]}`

	res, err := newTestConverter().Convert(context.Background(), in, FormatJSON, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "name: Faisolp\nage: 30\ncourses[2]: Math,Science", res.ToonOutput)
	assert.Less(t, res.ToonTokens, res.OriginalTokens)
	assert.Equal(t, res.OriginalTokens-res.ToonTokens, res.TokenReduction)
	assert.Empty(t, res.Warnings)
	assert.Greater(t, res.SavingsPercent(), 0.0)
}

func TestConvertTokenAccountingIdentity(t *testing.T) {
	inputs := []struct {
		text   string
		format Format
	}{
		{`{"a": 1}`, FormatJSON},
		{"name,age\nJohn,30", FormatCSV},
		{"<root><x>1</x></root>", FormatXML},
		{"<html><body>hi</body></html>", FormatHTML},
	}
	conv := newTestConverter()
	for _, in := range inputs {
		res, err := conv.Convert(context.Background(), in.text, in.format, DefaultConfig())
		require.NoError(t, err, "input %q", in.text)
		assert.Equal(t, res.OriginalTokens-res.ToonTokens, res.TokenReduction, "input %q", in.text)
		assert.GreaterOrEqual(t, res.OriginalTokens, 0)
		assert.GreaterOrEqual(t, res.ToonTokens, 0)
	}
}

func TestConvertAutoDetect(t *testing.T) {
	conv := newTestConverter()

	res, err := conv.Convert(context.Background(), `{"users": [{"id": 1, "name": "Alice"}]}`, FormatAuto, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "users[1]{id,name}:\n  1,Alice", res.ToonOutput)

	res, err = conv.Convert(context.Background(), "name,age\nAlice,30\nBob,25", FormatAuto, DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, res.ToonOutput, "[2]{name,age}:")
}

func TestConvertAutoDetectUndetermined(t *testing.T) {
	_, err := newTestConverter().Convert(context.Background(), "just some prose", FormatAuto, DefaultConfig())
	require.ErrorIs(t, err, ErrFormatUndetermined)
}

func TestConvertParseFailure(t *testing.T) {
	_, err := newTestConverter().Convert(context.Background(), "{broken", FormatJSON, DefaultConfig())
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, FormatJSON, perr.Format)
}

func TestConvertWarningsInStageOrder(t *testing.T) {
	// A ragged CSV row warns in the converter; the null fill keeps the key
	// sets uniform, so the block still tabularizes without encoder warnings.
	in := "name,age\nJohn,30\nJane"
	res, err := newTestConverter().Convert(context.Background(), in, FormatCSV, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "CSV row")
	assert.Contains(t, res.ToonOutput, "Jane,null")
}

func TestConvertTokenizerDegradation(t *testing.T) {
	res, err := New(WithTokenizer(failingTokenizer{})).
		Convert(context.Background(), `{"a": 1}`, FormatJSON, DefaultConfig())
	require.NoError(t, err, "tokenizer failure must not fail the conversion")

	assert.Greater(t, res.OriginalTokens, 0)
	require.Len(t, res.Warnings, 2) // one per counted text
	assert.Contains(t, res.Warnings[0], "approximation")
}

func TestConvertAllBatchIsolation(t *testing.T) {
	reqs := []Request{
		{Text: `{"a": 1}`, Format: FormatJSON, Config: DefaultConfig()},
		{Text: `{malformed`, Format: FormatJSON, Config: DefaultConfig()},
		{Text: "name,age\nJohn,30", Format: FormatCSV, Config: DefaultConfig()},
	}

	outcomes := newTestConverter().ConvertAll(context.Background(), reqs)
	require.Len(t, outcomes, 3)

	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, "a: 1", outcomes[0].Result.ToonOutput)

	require.Error(t, outcomes[1].Err)
	assert.Nil(t, outcomes[1].Result)

	require.NoError(t, outcomes[2].Err)
	assert.Contains(t, outcomes[2].Result.ToonOutput, "John,30")
}

func TestConvertAllPreservesOrder(t *testing.T) {
	var reqs []Request
	for i := 0; i < 50; i++ {
		// Vary the payload so each item is distinguishable.
		reqs = append(reqs, Request{
			Text:   `{"n": "` + strings.Repeat("a", i+1) + `"}`,
			Format: FormatJSON,
			Config: DefaultConfig(),
		})
	}

	outcomes := newTestConverter(WithWorkers(8)).ConvertAll(context.Background(), reqs)
	require.Len(t, outcomes, len(reqs))
	for i, out := range outcomes {
		require.NoError(t, out.Err, "item %d", i)
		assert.Equal(t, "n: "+strings.Repeat("a", i+1), out.Result.ToonOutput, "item %d", i)
	}
}

func TestConvertAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := newTestConverter().ConvertAll(ctx, []Request{
		{Text: `{"a": 1}`, Format: FormatJSON, Config: DefaultConfig()},
	})
	require.Len(t, outcomes, 1)
	require.Error(t, outcomes[0].Err)
	assert.True(t, errors.Is(outcomes[0].Err, context.Canceled))
}

func TestConvertConcurrentSharedConfig(t *testing.T) {
	// One Converter and one Config shared across goroutines; results must
	// stay deterministic.
	conv := newTestConverter()
	cfg := DefaultConfig()
	in := `{"name":"Faisolp","age":30}`

	want, err := conv.Convert(context.Background(), in, FormatJSON, cfg)
	require.NoError(t, err)

	done := make(chan string, 16)
	for i := 0; i < 16; i++ {
		go func() {
			res, err := conv.Convert(context.Background(), in, FormatJSON, cfg)
			if err != nil {
				done <- "error: " + err.Error()
				return
			}
			done <- res.ToonOutput
		}()
	}
	for i := 0; i < 16; i++ {
		assert.Equal(t, want.ToonOutput, <-done)
	}
}

func TestResultSavingsPercent(t *testing.T) {
	r := &Result{OriginalTokens: 100, ToonTokens: 60, TokenReduction: 40}
	assert.InDelta(t, 40.0, r.SavingsPercent(), 0.001)

	zero := &Result{}
	assert.Equal(t, 0.0, zero.SavingsPercent())
}
