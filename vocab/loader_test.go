package vocab

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jack-and-rozz/occult/params"
	"github.com/jack-and-rozz/occult/tokenizer"
	"github.com/jack-and-rozz/occult/utils"
)

func lowerLoader() *Loader {
	return NewLoader(tokenizer.NewWordTokenizer(tokenizer.Options{Lowercase: true, SplitQuotation: true}), nil)
}

func mustRead(t *testing.T, l *Loader, body string, max, dim int, skipFirst bool) *EmbeddingTable {
	t.Helper()
	table, err := l.Read(strings.NewReader(body), max, dim, skipFirst)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return table
}

func vec(t *testing.T, table *EmbeddingTable, tok string) []float64 {
	t.Helper()
	v, ok := table.Lookup(tok)
	if !ok {
		t.Fatalf("%q not loaded", tok)
	}
	return v
}

func TestReadExactFormWins(t *testing.T) {
	table := mustRead(t, lowerLoader(), "Texas 1 0\ntexas 0 1\nparis 2 2\nParis 3 3\n", 10, 2, false)

	if got := table.Keys(); !reflect.DeepEqual(got, []string{"texas", "paris"}) {
		t.Fatalf("keys = %q", got)
	}
	if got := vec(t, table, "texas"); !reflect.DeepEqual(got, []float64{0, 1}) {
		t.Fatalf("texas = %v, exact form should overwrite fallback", got)
	}
	if got := vec(t, table, "paris"); !reflect.DeepEqual(got, []float64{2, 2}) {
		t.Fatalf("paris = %v, fallback must not overwrite exact form", got)
	}
}

func TestReadDigitFallback(t *testing.T) {
	l := NewLoader(tokenizer.NewWordTokenizer(tokenizer.Options{NormalizeDigits: true}), nil)
	table := mustRead(t, l, "1999 1\n2001 2\n", 10, 1, false)
	if got := vec(t, table, "0000"); got[0] != 1 {
		t.Fatalf("0000 = %v, first fallback should stick", got)
	}
	if table.Len() != 1 {
		t.Fatalf("len = %d", table.Len())
	}
}

func TestReadSkipsMalformedLines(t *testing.T) {
	body := strings.Join([]string{
		"don't 1 1",  // tokenizes to three tokens
		"cat 1.0",    // too short
		"dog 1 2 3",  // too long
		"eel 1 x",    // not a number
		"",           // blank
		"fox 0.5 -1", // fine
	}, "\n")
	table := mustRead(t, lowerLoader(), body, 10, 2, false)
	if got := table.Keys(); !reflect.DeepEqual(got, []string{"fox"}) {
		t.Fatalf("keys = %q", got)
	}
}

func TestReadHeaderAndLimit(t *testing.T) {
	body := "3 1\na 1\nb 2\nc 3\n"

	withHeader := mustRead(t, lowerLoader(), body, 10, 1, false)
	if !withHeader.Has("3") {
		t.Fatalf("header line should parse as a row when not skipped")
	}

	skipped := mustRead(t, lowerLoader(), body, 10, 1, true)
	if got := skipped.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("keys = %q", got)
	}

	limited := mustRead(t, lowerLoader(), body, 2, 1, true)
	if got := limited.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("keys = %q", got)
	}
}

func TestReadWithoutTrailingNewline(t *testing.T) {
	table := mustRead(t, lowerLoader(), "a 1\nb 2", 10, 1, false)
	if table.Len() != 2 {
		t.Fatalf("len = %d", table.Len())
	}
}

func TestGetDoesNotGrowTable(t *testing.T) {
	l := NewLoader(nil, func(dim int) utils.Generator { return utils.RandomGenerator(dim, utils.NewSource(3)) })
	table := mustRead(t, l, "a 1 2 3\n", 10, 3, false)

	v := table.Get("missing")
	if len(v) != 3 {
		t.Fatalf("fallback width = %d", len(v))
	}
	if table.Has("missing") || table.Len() != 1 {
		t.Fatalf("Get inserted the missing key")
	}
	if got := table.Get("a"); !reflect.DeepEqual(got, []float64{1, 2, 3}) {
		t.Fatalf("Get(a) = %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := lowerLoader().Load(params.EmbeddingSource{Path: filepath.Join(t.TempDir(), "none.txt"), Size: 2}, 10)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestSetRejectsWrongWidth(t *testing.T) {
	table := NewEmbeddingTable(2, nil)
	if err := table.Set("a", []float64{1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v", err)
	}
	if err := table.Set("a", []float64{1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := table.Set("b", []float64{1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := table.Set("a", []float64{3, 4}); err != nil {
		t.Fatal(err)
	}
	if got := table.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("overwrite moved key: %q", got)
	}
}
