// Package tokenizer splits raw text into the token strings a vocabulary maps
// to ids. Word and character splitters share the same normalization options;
// subword segmentation is delegated to an external model (see Segmenter).
package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Options controls how a sentence is normalized before splitting.
type Options struct {
	Lowercase       bool
	NormalizeDigits bool // every digit becomes '0'
	SplitQuotation  bool // "'" becomes a separate token
	UnicodeForm     string
}

// Tokenizer turns a sentence into an ordered list of tokens.
type Tokenizer interface {
	Tokenize(sent string) []string
}

var _ Tokenizer = (*WordTokenizer)(nil)

type WordTokenizer struct {
	opts Options
}

func NewWordTokenizer(opts Options) *WordTokenizer {
	return &WordTokenizer{opts: opts}
}

func (t *WordTokenizer) Options() Options { return t.opts }

// Tokenize normalizes sent and splits it on whitespace. Empty pieces are dropped.
func (t *WordTokenizer) Tokenize(sent string) []string {
	return strings.Fields(normalize(sent, t.opts))
}

// CharTokenizer splits a sentence into words and each word into characters.
type CharTokenizer struct {
	opts Options
}

func NewCharTokenizer(opts Options) *CharTokenizer {
	return &CharTokenizer{opts: opts}
}

// Tokenize returns one slice of single-rune strings per word.
func (t *CharTokenizer) Tokenize(sent string) [][]string {
	words := strings.Fields(normalize(sent, t.opts))
	out := make([][]string, len(words))
	for i, w := range words {
		chars := make([]string, 0, len(w))
		for _, r := range w {
			chars = append(chars, string(r))
		}
		out[i] = chars
	}
	return out
}

// TokenizeFlat is Tokenize with the word boundaries removed.
func (t *CharTokenizer) TokenizeFlat(sent string) []string {
	var out []string
	for _, w := range t.Tokenize(sent) {
		out = append(out, w...)
	}
	return out
}

func normalize(s string, opts Options) string {
	switch opts.UnicodeForm {
	case "NFC":
		s = norm.NFC.String(s)
	case "NFKC":
		s = norm.NFKC.String(s)
	case "NFD":
		s = norm.NFD.String(s)
	case "NFKD":
		s = norm.NFKD.String(s)
	}
	if opts.SplitQuotation {
		s = strings.ReplaceAll(s, "'", " ' ")
	}
	if opts.NormalizeDigits {
		s = strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return '0'
			}
			return r
		}, s)
	}
	if opts.Lowercase {
		s = cases.Lower(language.Und).String(s)
	}
	return strings.ReplaceAll(s, "\n", "")
}
