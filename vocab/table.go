package vocab

import (
	"github.com/pkg/errors"

	"github.com/jack-and-rozz/occult/utils"
)

// EmbeddingTable maps tokens to fixed-width vectors and remembers the order in
// which tokens were first added. Reads of absent tokens return a vector from
// the fallback generator without adding the token.
type EmbeddingTable struct {
	dim      int
	keys     []string
	vecs     map[string][]float64
	fallback utils.Generator
}

// NewEmbeddingTable returns an empty table. A nil fallback means zero vectors.
func NewEmbeddingTable(dim int, fallback utils.Generator) *EmbeddingTable {
	if fallback == nil {
		fallback = utils.ZeroGenerator(dim)
	}
	return &EmbeddingTable{
		dim:      dim,
		vecs:     make(map[string][]float64),
		fallback: fallback,
	}
}

func (t *EmbeddingTable) Dim() int { return t.dim }

func (t *EmbeddingTable) Len() int { return len(t.keys) }

// Keys returns the tokens in insertion order.
func (t *EmbeddingTable) Keys() []string {
	return append([]string(nil), t.keys...)
}

func (t *EmbeddingTable) Has(token string) bool {
	_, ok := t.vecs[token]
	return ok
}

// Lookup returns the stored vector for token, if any.
func (t *EmbeddingTable) Lookup(token string) ([]float64, bool) {
	v, ok := t.vecs[token]
	return v, ok
}

// Get returns the stored vector or a fresh fallback vector. The table is not
// modified either way.
func (t *EmbeddingTable) Get(token string) []float64 {
	if v, ok := t.vecs[token]; ok {
		return v
	}
	return t.fallback()
}

// Set stores vec under token. Overwriting keeps the token's original position.
func (t *EmbeddingTable) Set(token string, vec []float64) error {
	if len(vec) != t.dim {
		return errors.Wrapf(ErrDimensionMismatch, "token %q has %d values, table width is %d", token, len(vec), t.dim)
	}
	if _, ok := t.vecs[token]; !ok {
		t.keys = append(t.keys, token)
	}
	t.vecs[token] = vec
	return nil
}
