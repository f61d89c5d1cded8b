package IO

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/jack-and-rozz/occult/vocab"
)

// ExportVocabJSON writes TokenToID/IDToToken for v.
func ExportVocabJSON(path string, v *vocab.Vocabulary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	tokens := v.Tokens()
	tok2id := make(map[string]int, len(tokens))
	for i, t := range tokens {
		tok2id[t] = i
	}
	data := map[string]any{
		"TokenToID": tok2id,
		"IDToToken": tokens,
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportEmbeddingsText writes m in the "<rows> <cols>" headed text format the
// embedding loader reads with skip_first. Row i is written under tokens[i].
func ExportEmbeddingsText(path string, tokens []string, m *mat.Dense) error {
	r, c := m.Dims()
	if r != len(tokens) {
		return errors.Errorf("matrix has %d rows for %d tokens", r, len(tokens))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%d %d\n", r, c)
	for i, t := range tokens {
		w.WriteString(t)
		for _, x := range m.RawRowView(i) {
			w.WriteByte(' ')
			w.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}

// ExportWeights writes one "<token> <weight>" line per id.
func ExportWeights(path string, tokens []string, weights []float64) error {
	if len(weights) != len(tokens) {
		return errors.Errorf("%d weights for %d tokens", len(weights), len(tokens))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, t := range tokens {
		fmt.Fprintf(w, "%s %s\n", t, strconv.FormatFloat(weights[i], 'g', -1, 64))
	}
	return w.Flush()
}
