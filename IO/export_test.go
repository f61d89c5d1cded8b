package IO

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/jack-and-rozz/occult/tokenizer"
	"github.com/jack-and-rozz/occult/vocab"
)

func testVocab() *vocab.WordVocabulary {
	return vocab.NewWordVocabulary([]string{"cat", "dog"}, vocab.WordOptions{
		PadToken:  "<pad>",
		UnkToken:  "<unk>",
		BOSToken:  "<bos>",
		Tokenizer: tokenizer.NewWordTokenizer(tokenizer.Options{Lowercase: true}),
	})
}

func readInt32s(t *testing.T, path string) []int {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]int, len(b)/4)
	for i := range out {
		out[i] = int(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}

func TestExportTokenIDsBinary(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "corpus.txt")
	if err := os.WriteFile(in, []byte("Cat dog\n\nbird cat"), 0o644); err != nil {
		t.Fatal(err)
	}
	prefix := filepath.Join(dir, "ids")

	n, err := ExportTokenIDsBinary(in, prefix, 1<<20, testVocab())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("shards = %d", n)
	}
	if got, want := readInt32s(t, prefix+"-000.bin"), []int{2, 3, 4, 2, 1, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	idx, err := os.ReadFile(prefix + "-000.idx")
	if err != nil {
		t.Fatal(err)
	}
	var entries []uint64
	for i := 0; i+8 <= len(idx); i += 8 {
		entries = append(entries, binary.LittleEndian.Uint64(idx[i:]))
	}
	if want := []uint64{0, 3, 12, 3}; !reflect.DeepEqual(entries, want) {
		t.Fatalf("idx = %v, want %v", entries, want)
	}
}

func TestExportTokenIDsBinaryRollsOver(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "corpus.txt")
	if err := os.WriteFile(in, []byte("cat\ndog\ncat\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	prefix := filepath.Join(dir, "ids")
	n, err := ExportTokenIDsBinary(in, prefix, 8, testVocab())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("shards = %d, want 3", n)
	}
	for i, want := range [][]int{{2, 3}, {2, 4}, {2, 3}} {
		p := prefix + "-00" + string(rune('0'+i)) + ".bin"
		if got := readInt32s(t, p); !reflect.DeepEqual(got, want) {
			t.Fatalf("%s = %v, want %v", p, got, want)
		}
	}
}

func TestExportTokenIDsBinaryRejectsShardSize(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "corpus.txt")
	if err := os.WriteFile(in, []byte("cat\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	prefix := filepath.Join(dir, "ids")
	for _, size := range []int64{0, -1} {
		if _, err := ExportTokenIDsBinary(in, prefix, size, testVocab()); err == nil {
			t.Fatalf("shard size %d accepted", size)
		}
	}
	if _, err := os.Stat(prefix + "-000.bin"); !os.IsNotExist(err) {
		t.Fatalf("a shard was written: %v", err)
	}
}

func TestExportVocabJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "vocab.json")
	v := testVocab()
	if err := ExportVocabJSON(p, v.Vocabulary); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	var data struct {
		TokenToID map[string]int
		IDToToken []string
	}
	if err := json.Unmarshal(b, &data); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(data.IDToToken, v.Tokens()) || data.TokenToID["dog"] != 4 {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestExportEmbeddingsTextLoadsBack(t *testing.T) {
	p := filepath.Join(t.TempDir(), "emb.txt")
	tokens := []string{"<pad>", "a", "b"}
	m := mat.NewDense(3, 2, []float64{0, 0, 0.125, -1, 1e-7, 3})
	if err := ExportEmbeddingsText(p, tokens, m); err != nil {
		t.Fatal(err)
	}

	loader := vocab.NewLoader(nil, nil)
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	table, err := loader.Read(f, 10, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(table.Keys(), tokens) {
		t.Fatalf("keys = %q", table.Keys())
	}
	back := vocab.BuildMatrix(table, tokens, vocab.MatrixOptions{})
	if !mat.Equal(back, m) {
		t.Fatalf("round trip changed values:\n%v", mat.Formatted(back))
	}

	if err := ExportEmbeddingsText(p, tokens[:2], m); err == nil {
		t.Fatalf("expected row/token mismatch error")
	}
}

func TestExportWeights(t *testing.T) {
	p := filepath.Join(t.TempDir(), "itf.txt")
	if err := ExportWeights(p, []string{"a", "b"}, []float64{0.5, 1}); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(p)
	if got := strings.TrimSpace(string(b)); got != "a 0.5\nb 1" {
		t.Fatalf("got %q", got)
	}
	if err := ExportWeights(p, []string{"a"}, nil); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}
