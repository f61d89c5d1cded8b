package tokenizer

import (
	"os"
	"path/filepath"
	"strings"

	esentencepiece "github.com/eliben/go-sentencepiece"
	"github.com/pkg/errors"
	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/bpe"
	"github.com/sugarme/tokenizer/pretokenizer"
	"github.com/sugarme/tokenizer/pretrained"

	"github.com/jack-and-rozz/occult/logging"
)

// Segmenter is a subword model that owns sentence splitting and joining.
type Segmenter interface {
	EncodeAsPieces(text string) []string
	DecodePieces(pieces []string) string
}

// SentencePiece wraps a SentencePiece .model file.
type SentencePiece struct {
	proc *esentencepiece.Processor
}

const spaceMarker = "▁"

func NewSentencePiece(modelPath string) (*SentencePiece, error) {
	proc, err := esentencepiece.NewProcessorFromPath(modelPath)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create sentencepiece from %s", modelPath)
	}
	return &SentencePiece{proc: proc}, nil
}

func (s *SentencePiece) EncodeAsPieces(text string) []string {
	toks := s.proc.Encode(text)
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}

func (s *SentencePiece) DecodePieces(pieces []string) string {
	return joinSentencePieces(pieces)
}

// joinSentencePieces concatenates pieces and turns the word-boundary marker
// back into spaces.
func joinSentencePieces(pieces []string) string {
	s := strings.Join(pieces, "")
	s = strings.ReplaceAll(s, spaceMarker, " ")
	return strings.TrimLeft(s, " ")
}

// BPE wraps a sugarme byte-pair tokenizer.
type BPE struct {
	tok *tk.Tokenizer
}

// NewBPE loads a HuggingFace-style tokenizer.json.
func NewBPE(path string) (*BPE, error) {
	t, err := pretrained.FromFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't load tokenizer %s", path)
	}
	return &BPE{tok: t}, nil
}

// TrainOrLoadBPE returns the BPE model stored at tokPath, training one on
// corpusPath first when nothing is stored there yet.
//
// tokPath may name a tokenizer.json. Otherwise the model lives next to it as
// <base>-vocab.json and <base>-merges.txt, which is also where a freshly
// trained model is saved.
func TrainOrLoadBPE(corpusPath, tokPath string, vocabSize int) (*BPE, error) {
	if fileExists(tokPath) {
		return NewBPE(tokPath)
	}
	vocabFile, mergesFile := bpeModelFiles(tokPath)
	if fileExists(vocabFile) && fileExists(mergesFile) {
		model, err := bpe.NewBpeFromFiles(vocabFile, mergesFile)
		if err != nil {
			return nil, errors.Wrapf(err, "can't load bpe model %s", vocabFile)
		}
		return &BPE{tok: newByteLevelTokenizer(model)}, nil
	}
	if corpusPath == "" {
		return nil, errors.Errorf("no bpe model at %s and no corpus to train one", tokPath)
	}

	log := logging.WithComponent("tokenizer")
	log.Info("training bpe model", "corpus", corpusPath, "vocab_size", vocabSize)
	model, err := bpe.DefaultBPE()
	if err != nil {
		return nil, err
	}
	t := newByteLevelTokenizer(model)
	trainer := bpe.NewBpeTrainer(0, vocabSize)
	if err := t.Train(trainer, []string{corpusPath}); err != nil {
		return nil, errors.Wrapf(err, "train bpe on %s", corpusPath)
	}

	dir := filepath.Dir(tokPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := t.GetModel().Save(dir, bpeModelPrefix(tokPath)); err != nil {
		return nil, errors.Wrapf(err, "save bpe model to %s", dir)
	}
	log.Info("saved bpe model", "vocab", vocabFile, "merges", mergesFile)
	return &BPE{tok: t}, nil
}

func newByteLevelTokenizer(model tk.Model) *tk.Tokenizer {
	t := tk.NewTokenizer(model)
	t.WithPreTokenizer(pretokenizer.NewByteLevel())
	t.WithDecoder(pretokenizer.NewByteLevel())
	return t
}

func bpeModelPrefix(tokPath string) string {
	base := filepath.Base(tokPath)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// bpeModelFiles names the files sugarme's Model.Save writes for tokPath.
func bpeModelFiles(tokPath string) (vocabFile, mergesFile string) {
	dir, prefix := filepath.Dir(tokPath), bpeModelPrefix(tokPath)
	return filepath.Join(dir, prefix+"-vocab.json"), filepath.Join(dir, prefix+"-merges.txt")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (b *BPE) EncodeAsPieces(text string) []string {
	enc, err := b.tok.EncodeSingle(text, false)
	if err != nil {
		logging.WithComponent("tokenizer").Warn("bpe encode failed", "error", err)
		return nil
	}
	return enc.Tokens
}

// DecodePieces maps pieces back to ids and decodes them. Pieces the model does
// not know are dropped.
func (b *BPE) DecodePieces(pieces []string) string {
	ids := make([]int, 0, len(pieces))
	for _, p := range pieces {
		if id, ok := b.tok.TokenToId(p); ok {
			ids = append(ids, id)
		}
	}
	return strings.TrimLeft(b.tok.Decode(ids, false), " ")
}

// SubwordOptions selects and locates a subword model.
type SubwordOptions struct {
	Kind       string // "sentencepiece" (default) or "bpe"
	ModelPath  string
	CorpusPath string // bpe only: trained on when ModelPath holds no model yet
	VocabSize  int    // bpe training target
}

// OpenSegmenter loads the subword model described by opts.
func OpenSegmenter(opts SubwordOptions) (Segmenter, error) {
	switch opts.Kind {
	case "", "sentencepiece":
		return NewSentencePiece(opts.ModelPath)
	case "bpe":
		return TrainOrLoadBPE(opts.CorpusPath, opts.ModelPath, opts.VocabSize)
	}
	return nil, errors.Errorf("unknown subword model type %q", opts.Kind)
}

// SubwordModelPath derives the model file that sits next to an embedding
// source: same directory, base name up to the first '.', extension ".model".
func SubwordModelPath(sourcePath string) string {
	dir, base := filepath.Split(sourcePath)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return dir + base + ".model"
}
