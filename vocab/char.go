package vocab

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/jack-and-rozz/occult/logging"
	"github.com/jack-and-rozz/occult/params"
	"github.com/jack-and-rozz/occult/tokenizer"
	"github.com/jack-and-rozz/occult/utils"
)

// CharVocabulary maps characters to ids. Sequences are nested one level
// deeper than in WordVocabulary: one id slice per word.
type CharVocabulary struct {
	*Vocabulary
	tokenizer  *tokenizer.CharTokenizer
	embeddings *mat.Dense
}

// NewCharVocabulary builds [pad, unk] followed by chars in first-seen order.
func NewCharVocabulary(chars []string, pad, unk string, tok *tokenizer.CharTokenizer) *CharVocabulary {
	if tok == nil {
		tok = tokenizer.NewCharTokenizer(tokenizer.Options{})
	}
	return &CharVocabulary{
		Vocabulary: newVocabulary([]string{pad, unk}, chars),
		tokenizer:  tok,
	}
}

// NewPredefinedCharVocabulary reads the first field of up to cfg.VocabSize
// lines from each list in cfg.VocabPaths. When cfg.EmbeddingSize is set, a
// freshly initialized embedding matrix is attached.
func NewPredefinedCharVocabulary(cfg params.CharVocabConfig) (*CharVocabulary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var chars []string
	for _, p := range cfg.VocabPaths {
		cs, err := readTokenList(p, cfg.VocabSize)
		if err != nil {
			return nil, err
		}
		chars = append(chars, cs...)
	}
	// Characters are never lowercased or digit-normalized.
	tok := tokenizer.NewCharTokenizer(tokenizer.Options{SplitQuotation: cfg.SplitQuotation})
	v := NewCharVocabulary(chars, cfg.PadToken, cfg.UnkToken, tok)
	if cfg.EmbeddingSize > 0 {
		n, d := v.Size(), cfg.EmbeddingSize
		v.embeddings = mat.NewDense(n, d, utils.RandomArray(n*d, float64(d), utils.NewSource(cfg.Seed)))
	}
	logging.WithComponent("vocab").Info("loaded character vocabulary",
		"files", len(cfg.VocabPaths), "size", v.Size())
	return v, nil
}

func readTokenList(path string, limit int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open token list")
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var out []string
	for i := 0; i < limit; i++ {
		line, err := r.ReadString('\n')
		if fs := strings.Fields(line); len(fs) > 0 {
			out = append(out, fs[0])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
	}
	return out, nil
}

// Embeddings returns a copy of the initial character embeddings, or nil when
// none were configured.
func (v *CharVocabulary) Embeddings() *mat.Dense {
	if v.embeddings == nil {
		return nil
	}
	return mat.DenseCopyOf(v.embeddings)
}

// Tokens2IDs joins the words with spaces, re-tokenizes, and maps every
// character of every word.
func (v *CharVocabulary) Tokens2IDs(tokens []string) [][]int {
	return v.Sentence2IDs(strings.Join(tokens, " "))
}

func (v *CharVocabulary) Sentence2IDs(sent string) [][]int {
	words := v.tokenizer.Tokenize(sent)
	out := make([][]int, len(words))
	for i, w := range words {
		ids := make([]int, len(w))
		for j, c := range w {
			ids[j] = v.Token2ID(c)
		}
		out[i] = ids
	}
	return out
}

// IDs2Tokens rebuilds each word from its character ids. Pad ids vanish inside
// a word; word positions are kept so they line up with span.
func (v *CharVocabulary) IDs2Tokens(wordIDs [][]int, span *LinkSpan) []string {
	out := make([]string, len(wordIDs))
	for i, ids := range wordIDs {
		var b strings.Builder
		for _, id := range ids {
			b.WriteString(v.ID2Token(id))
		}
		w := b.String()
		if w != "" && span.contains(i) {
			w = utils.Underline(w)
		}
		out[i] = w
	}
	return out
}
