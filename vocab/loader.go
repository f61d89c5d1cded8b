package vocab

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/jack-and-rozz/occult/logging"
	"github.com/jack-and-rozz/occult/params"
	"github.com/jack-and-rozz/occult/tokenizer"
	"github.com/jack-and-rozz/occult/utils"
)

// Loader reads pretrained "<token> <float>..." tables.
type Loader struct {
	tokenizer tokenizer.Tokenizer
	fallback  func(dim int) utils.Generator
	log       *slog.Logger
}

// NewLoader returns a loader that normalizes token fields with tok and gives
// every loaded table the fallback built by fallback (zero vectors when nil).
func NewLoader(tok tokenizer.Tokenizer, fallback func(dim int) utils.Generator) *Loader {
	if tok == nil {
		tok = tokenizer.NewWordTokenizer(tokenizer.Options{})
	}
	if fallback == nil {
		fallback = utils.ZeroGenerator
	}
	return &Loader{
		tokenizer: tok,
		fallback:  fallback,
		log:       logging.WithComponent("loader"),
	}
}

// Load reads src.Path, keeping at most maxVocabSize distinct tokens.
func (l *Loader) Load(src params.EmbeddingSource, maxVocabSize int) (*EmbeddingTable, error) {
	l.log.Info("loading word embeddings", "path", src.Path, "dim", src.Size)
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, errors.Wrap(err, "open embedding source")
	}
	defer f.Close()

	t, err := l.Read(f, maxVocabSize, src.Size, src.SkipFirst)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", src.Path)
	}
	return t, nil
}

// Read parses an embedding table from r.
//
// A token field that does not tokenize to exactly one token is skipped with a
// warning; a row whose vector is not dim numbers wide is skipped silently.
// When normalization changes a token (e.g. "Texas" -> "texas"), the row is
// stored under the normalized form only if that form is not present yet; a
// row whose token is already in normal form always wins.
func (l *Loader) Read(r io.Reader, maxVocabSize, dim int, skipFirst bool) (*EmbeddingTable, error) {
	table := NewEmbeddingTable(dim, l.fallback(dim))
	br := bufio.NewReaderSize(r, 1<<20)
	var skippedToken, skippedVector int

	for i := 0; ; i++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if table.Len() >= maxVocabSize {
			break
		}
		if len(line) > 0 && !(skipFirst && i == 0) {
			switch l.parseLine(table, line, dim) {
			case badToken:
				skippedToken++
			case badVector:
				skippedVector++
			}
		}
		if err == io.EOF {
			break
		}
	}

	l.log.Info("done loading word embeddings",
		"loaded", table.Len(), "skipped_token", skippedToken, "skipped_vector", skippedVector)
	return table, nil
}

type lineResult int

const (
	lineOK lineResult = iota
	badToken
	badVector
)

func (l *Loader) parseLine(table *EmbeddingTable, line string, dim int) lineResult {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return badVector
	}
	raw := fields[0]
	toks := l.tokenizer.Tokenize(raw)
	if len(toks) != 1 {
		l.log.Warn("a token must have no space", "raw", raw, "tokens", strings.Join(toks, " "))
		return badToken
	}
	word := toks[0]

	if len(fields)-1 != dim {
		return badVector
	}
	vec := make([]float64, dim)
	for j, s := range fields[1:] {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return badVector
		}
		vec[j] = x
	}

	if word == raw || !table.Has(word) {
		// Width was checked above, Set cannot fail.
		_ = table.Set(word, vec)
	}
	return lineOK
}
