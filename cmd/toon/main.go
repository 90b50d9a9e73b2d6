// toon - TOON converter CLI
//
// Usage:
//
//	toon convert [options] [file]   Convert JSON/XML/CSV/HTML to TOON
//	toon detect [file]              Print the detected input format
//	toon version                    Print version info
//
// Format auto-detection is ON by default; use --format to declare one.
// If no file is given, reads from stdin.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/faisolp/toon"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	formatArg := "auto"
	delimiterArg := "comma"
	sortKeys := false
	ensureASCII := false
	stats := false
	fileArg := ""

	for _, arg := range os.Args[2:] {
		switch {
		case strings.HasPrefix(arg, "--format="):
			formatArg = strings.TrimPrefix(arg, "--format=")
		case strings.HasPrefix(arg, "--delimiter="):
			delimiterArg = strings.TrimPrefix(arg, "--delimiter=")
		case arg == "--sort-keys":
			sortKeys = true
		case arg == "--ensure-ascii":
			ensureASCII = true
		case arg == "--stats":
			stats = true
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	var input io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	switch cmd {
	case "convert":
		cmdConvert(input, formatArg, delimiterArg, sortKeys, ensureASCII, stats)
	case "detect":
		cmdDetect(input)
	case "version", "-v", "--version":
		fmt.Printf("toon %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `toon - convert structured data to token-efficient TOON notation

Usage:
  toon convert [options] [file]   Convert JSON/XML/CSV/HTML to TOON
  toon detect [file]              Print the detected input format
  toon version                    Print version info

Options:
  --format=F          Input format: auto, json, xml, csv, html (default: auto)
  --delimiter=D       Array/tabular delimiter: comma, tab, pipe (default: comma)
  --sort-keys         Render object keys in ascending order
  --ensure-ascii      Escape non-ASCII characters as \uXXXX
  --stats             Print token savings to stderr

If no file is given, reads from stdin.

Examples:
  echo '{"name":"Faisolp","age":30,"courses":["Math","Science"]}' | toon convert
  # Output:
  # name: Faisolp
  # age: 30
  # courses[2]: Math,Science

  toon convert --format=csv --delimiter=pipe data.csv
  cat page.html | toon convert --format=html --stats
`)
}

func cmdConvert(r io.Reader, formatArg, delimiterArg string, sortKeys, ensureASCII, stats bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}

	format, err := toon.ParseFormat(formatArg)
	if err != nil {
		fatal("%v", err)
	}
	delimiter, err := toon.ParseDelimiter(delimiterArg)
	if err != nil {
		fatal("%v", err)
	}

	cfg := toon.Config{
		Delimiter:   delimiter,
		SortKeys:    sortKeys,
		EnsureASCII: ensureASCII,
	}

	res, err := toon.New().Convert(context.Background(), string(data), format, cfg)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Println(res.ToonOutput)
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if stats {
		fmt.Fprintf(os.Stderr, "tokens: %d -> %d (saved %d, %.1f%%)\n",
			res.OriginalTokens, res.ToonTokens, res.TokenReduction, res.SavingsPercent())
	}
}

func cmdDetect(r io.Reader) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	fmt.Println(toon.Detect(string(data)))
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "toon: "+format+"\n", args...)
	os.Exit(1)
}
