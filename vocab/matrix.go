package vocab

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/jack-and-rozz/occult/utils"
)

// MatrixOptions selects the optional post-processing of BuildMatrix.
type MatrixOptions struct {
	Centralize bool
	Normalize  bool
}

// BuildMatrix lays out one row per token, in order. Tokens missing from the
// table (typically the reserved ones) get the table's fallback vector.
// Centering runs before normalization.
func BuildMatrix(table *EmbeddingTable, tokens []string, opts MatrixOptions) *mat.Dense {
	if len(tokens) == 0 || table.Dim() == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(len(tokens), table.Dim(), nil)
	for i, t := range tokens {
		m.SetRow(i, table.Get(t))
	}
	if opts.Centralize {
		Centralize(m)
	}
	if opts.Normalize {
		NormalizeRows(m)
	}
	return m
}

// Centralize subtracts the column mean, taken over every row, from each row.
func Centralize(m *mat.Dense) {
	r, c := m.Dims()
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		mean := stat.Mean(col, nil)
		for i := 0; i < r; i++ {
			m.Set(i, j, col[i]-mean)
		}
	}
}

// NormalizeRows scales every row to unit L2 norm. Zero rows stay zero.
func NormalizeRows(m *mat.Dense) {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		utils.NormalizeVector(m.RawRowView(i))
	}
}
