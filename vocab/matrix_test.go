package vocab

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const tol = 1e-9

func sampleTable(t *testing.T) *EmbeddingTable {
	return tableOf(t, 3,
		"a", []float64{1, 2, 3},
		"b", []float64{-4, 0, 2},
		"c", []float64{0, 0, 0},
		"d", []float64{5, 5, -1},
	)
}

func TestBuildMatrixRowOrder(t *testing.T) {
	tokens := []string{"<pad>", "<unk>", "d", "a"}
	m := BuildMatrix(sampleTable(t), tokens, MatrixOptions{})
	want := mat.NewDense(4, 3, []float64{
		0, 0, 0,
		0, 0, 0,
		5, 5, -1,
		1, 2, 3,
	})
	if !mat.Equal(m, want) {
		t.Fatalf("got\n%v\nwant\n%v", mat.Formatted(m), mat.Formatted(want))
	}
}

func TestCentralizeZeroesColumnMeans(t *testing.T) {
	m := BuildMatrix(sampleTable(t), []string{"<pad>", "a", "b", "c", "d"}, MatrixOptions{Centralize: true})
	r, c := m.Dims()
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		if mean := stat.Mean(mat.Col(col, j, m), nil); math.Abs(mean) > tol {
			t.Fatalf("column %d mean = %v", j, mean)
		}
	}
}

func TestNormalizeRowsUnitNorm(t *testing.T) {
	m := BuildMatrix(sampleTable(t), []string{"<pad>", "a", "b", "c", "d"}, MatrixOptions{Normalize: true})
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		n := floats.Norm(m.RawRowView(i), 2)
		if i == 0 || i == 3 {
			if n != 0 {
				t.Fatalf("zero row %d became %v", i, m.RawRowView(i))
			}
			continue
		}
		if math.Abs(n-1) > tol {
			t.Fatalf("row %d norm = %v", i, n)
		}
	}
}

func TestCentralizeThenNormalize(t *testing.T) {
	m := BuildMatrix(sampleTable(t), []string{"a", "b", "d"}, MatrixOptions{Centralize: true, Normalize: true})
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		if n := floats.Norm(m.RawRowView(i), 2); n != 0 && math.Abs(n-1) > tol {
			t.Fatalf("row %d norm = %v", i, n)
		}
	}
}

func TestBuildMatrixEmpty(t *testing.T) {
	m := BuildMatrix(sampleTable(t), nil, MatrixOptions{})
	if !m.IsEmpty() {
		t.Fatalf("expected empty matrix")
	}
}
