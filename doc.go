// Package toon converts structured interchange text (JSON, XML, CSV, HTML)
// into TOON, a token-efficient notation for LLM prompts, and reports how many
// tokens the conversion saved.
//
// TOON is designed to be:
//   - Token-cheap (no structural quotes or braces, tabular row packing)
//   - Deterministic (identical input and config always yield identical output)
//   - Lossless for structure (non-uniform data degrades gracefully with warnings)
//
// # Pipeline
//
// Raw text flows through four stages:
//
//	Detect (optional) → Convert to value tree → Encode → Count tokens
//
// Each source format has a converter that produces the shared value tree
// (scalar / ordered-key object / array). The encoder renders the tree under a
// Config; the token counter measures the original and encoded text with a
// pluggable Tokenizer.
//
// # TOON Syntax
//
//	Scalar field:   name: Faisolp
//	Inline array:   courses[2]: Math,Science
//	Tabular array:  users[2]{id,name}:
//	                  1,Alice
//	                  2,Bob
//	Nested object:  address:
//	                  city: Bangkok
//	Mixed array:    items[2]:
//	                  - 42
//	                  - label: x
//
// Arrays carry their length in brackets; non-comma delimiters show their
// symbol after the length (for example users[2|]{id|name}:). Strings are
// quoted only when they would be ambiguous: empty, containing the active
// delimiter, a quote, a newline, or leading/trailing spaces.
//
// # Example
//
//	conv := toon.New()
//	res, err := conv.Convert(ctx, `{"name":"Faisolp","age":30}`, toon.FormatJSON, toon.DefaultConfig())
//	// res.ToonOutput:
//	//   name: Faisolp
//	//   age: 30
//	// res.TokenReduction > 0
//
// Token counting uses tiktoken (cl100k_base) by default and degrades to a
// word-count approximation, with a warning, when the tokenizer fails or times
// out. Conversion never fails because of token counting.
package toon
