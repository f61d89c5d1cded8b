package vocab

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/jack-and-rozz/occult/logging"
)

// LoadFrequencies reads a "<token> <count>" table from path.
func LoadFrequencies(path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open frequency table")
	}
	defer f.Close()
	freqs, err := ReadFrequencies(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return freqs, nil
}

// ReadFrequencies parses "<token> <count>" lines. Lines without exactly two
// fields or with a non-positive count are skipped with a warning.
func ReadFrequencies(r io.Reader) (map[string]int, error) {
	log := logging.WithComponent("weights")
	freqs := make(map[string]int)
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			log.Warn("malformed frequency line", "line", n)
			continue
		}
		c, err := strconv.Atoi(fields[1])
		if err != nil || c <= 0 {
			log.Warn("bad frequency count", "line", n, "count", fields[1])
			continue
		}
		freqs[fields[0]] = c
	}
	return freqs, sc.Err()
}

// ITFWeights returns 1/count^lambda for every token, in order. Reserved tokens
// borrow the count of marker; tokens absent from freqs weigh 1.
func ITFWeights(freqs map[string]int, tokens, reserved []string, marker string, lambda float64) ([]float64, error) {
	markerCount, ok := freqs[marker]
	if !ok {
		return nil, errors.Wrapf(ErrMissingMarker, "marker %q", marker)
	}
	isReserved := make(map[string]bool, len(reserved))
	for _, t := range reserved {
		isReserved[t] = true
	}

	weights := make([]float64, len(tokens))
	for i, t := range tokens {
		c, ok := freqs[t]
		if isReserved[t] {
			c, ok = markerCount, true
		}
		if !ok {
			weights[i] = 1.0
			continue
		}
		weights[i] = 1.0 / math.Pow(float64(c), lambda)
	}
	return weights, nil
}
