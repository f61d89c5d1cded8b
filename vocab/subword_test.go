package vocab

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jack-and-rozz/occult/params"
	"github.com/jack-and-rozz/occult/tokenizer"
	"github.com/jack-and-rozz/occult/tokenizer/tokenizertest"
)

func TestEmbeddingVocabularyWithSentencePiece(t *testing.T) {
	dir := t.TempDir()
	emb := writeFile(t, dir, "sp.vec.txt", "the 1 0\n▁cat 0 1\n")
	// Derived from the source path: sp.vec.txt -> sp.model.
	tokenizertest.WriteSentencePiece(t, filepath.Join(dir, "sp.model"), tokenizertest.SmallPieces())

	cfg := testConfig(params.EmbeddingSource{Path: emb, Size: 2})
	cfg.UseSubwordTokenizer = true
	v, err := NewEmbeddingVocabulary(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if v.Segmenter() == nil {
		t.Fatalf("segmenter not opened")
	}
	if opts := v.Tokenizer().(*tokenizer.WordTokenizer).Options(); !opts.Lowercase || !opts.NormalizeDigits {
		t.Fatalf("tokenizer options not taken from config: %+v", opts)
	}

	pieces := v.Sent2Tokens("the cat __eou__ the dog")
	if want := []string{"the", "▁cat", "__eou__", "the", "▁dog"}; !reflect.DeepEqual(pieces, want) {
		t.Fatalf("Sent2Tokens = %q, want %q", pieces, want)
	}
	if got := v.Tokens2Sent(pieces); got != "the cat __eou__ the dog" {
		t.Fatalf("Tokens2Sent = %q", got)
	}
}

func TestEmbeddingVocabularyTrainsBPE(t *testing.T) {
	dir := t.TempDir()
	emb := writeFile(t, dir, "emb.txt", "cat 1 0\ndog 0 1\n")
	corpus := filepath.Join(dir, "corpus.txt")
	tokenizertest.WriteCorpus(t, corpus, "the cat sat on the mat __eou__ the dog sat", 50)

	cfg := testConfig(params.EmbeddingSource{Path: emb, Size: 2})
	cfg.UseSubwordTokenizer = true
	cfg.SubwordModelType = "bpe"
	cfg.SubwordModelPath = filepath.Join(dir, "bpe", "tokenizer.json")
	cfg.SubwordCorpusPath = corpus
	cfg.SubwordVocabSize = 300
	v, err := NewEmbeddingVocabulary(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.Segmenter().(*tokenizer.BPE); !ok {
		t.Fatalf("segmenter = %T", v.Segmenter())
	}

	sent := "the cat __eou__ the dog"
	pieces := v.Sent2Tokens(sent)
	if len(pieces) == 0 {
		t.Fatalf("no pieces for %q", sent)
	}
	if got := v.Tokens2Sent(pieces); got != sent {
		t.Fatalf("Tokens2Sent(%q) = %q, want %q", pieces, got, sent)
	}
}
