package vocab

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/jack-and-rozz/occult/logging"
	"github.com/jack-and-rozz/occult/params"
	"github.com/jack-and-rozz/occult/tokenizer"
	"github.com/jack-and-rozz/occult/utils"
)

// EmbeddingVocabulary is a word vocabulary whose tokens come from one or more
// pretrained embedding sources, merged into a single matrix.
type EmbeddingVocabulary struct {
	*WordVocabulary
	Config params.VocabConfig

	initEmbeddings *mat.Dense
	embeddings     EmbeddingInit
	itf            []float64
}

// EmbeddingInit describes the embedding layer a downstream model should
// create: Matrix holds its initial values, the first NumReserved rows belong
// to the reserved tokens, and Trainable says whether the pretrained rows may
// be updated.
type EmbeddingInit struct {
	Matrix      *mat.Dense
	NumReserved int
	Trainable   bool
}

// NewEmbeddingVocabulary loads every source in cfg.EmbConfig, merges them,
// and derives the vocabulary, embedding matrix and (if a source has a
// frequency table) the ITF weights. Nothing is returned on failure.
func NewEmbeddingVocabulary(cfg params.VocabConfig) (*EmbeddingVocabulary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	vp, err := ParseVocabMergePolicy(cfg.VocabMerge)
	if err != nil {
		return nil, err
	}
	ep, err := ParseEmbeddingMergePolicy(cfg.EmbeddingMerge)
	if err != nil {
		return nil, err
	}

	tok := tokenizer.NewWordTokenizer(tokenizer.Options{
		Lowercase:       cfg.Lowercase,
		NormalizeDigits: cfg.NormalizeDigits,
		SplitQuotation:  cfg.SplitQuotation,
		UnicodeForm:     cfg.UnicodeForm,
	})
	var seg tokenizer.Segmenter
	if cfg.UseSubwordTokenizer {
		path := cfg.SubwordModelPath
		if path == "" {
			path = tokenizer.SubwordModelPath(cfg.EmbConfig[0].Path)
		}
		seg, err = tokenizer.OpenSegmenter(tokenizer.SubwordOptions{
			Kind:       cfg.SubwordModelType,
			ModelPath:  path,
			CorpusPath: cfg.SubwordCorpusPath,
			VocabSize:  cfg.SubwordVocabSize,
		})
		if err != nil {
			return nil, err
		}
	}

	src := utils.NewSource(cfg.Seed)
	fallback := utils.ZeroGenerator
	if cfg.OOVInit == "random" {
		fallback = func(dim int) utils.Generator { return utils.RandomGenerator(dim, src) }
	}
	loader := NewLoader(tok, fallback)
	tables := make([]*EmbeddingTable, 0, len(cfg.EmbConfig))
	for _, s := range cfg.EmbConfig {
		t, err := loader.Load(s, cfg.VocabSize)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	merged, err := Merge(tables, vp, ep)
	if err != nil {
		return nil, err
	}

	v := &EmbeddingVocabulary{
		WordVocabulary: NewWordVocabulary(merged.keys, WordOptions{
			PadToken:  cfg.PadToken,
			UnkToken:  cfg.UnkToken,
			BOSToken:  cfg.BOSToken,
			Tokenizer: tok,
			Segmenter: seg,
			Seed:      cfg.Seed,
		}),
		Config: cfg,
	}
	v.initEmbeddings = BuildMatrix(merged, v.rev, MatrixOptions{
		Centralize: cfg.CentralizeEmbedding,
		Normalize:  cfg.NormalizeEmbedding,
	})

	for _, s := range cfg.EmbConfig {
		if s.FreqPath == "" {
			continue
		}
		freqs, err := LoadFrequencies(s.FreqPath)
		if err != nil {
			return nil, err
		}
		if v.itf, err = ITFWeights(freqs, v.rev, v.reserved, cfg.ITFMarker, cfg.ITFLambda); err != nil {
			return nil, errors.Wrapf(err, "weights from %s", s.FreqPath)
		}
		break
	}

	v.embeddings = EmbeddingInit{
		Matrix:      v.initEmbeddings,
		NumReserved: len(v.reserved),
		Trainable:   cfg.Trainable,
	}
	if !cfg.UsePretrainedEmb {
		r, c := v.initEmbeddings.Dims()
		v.embeddings.Matrix = mat.NewDense(r, c, utils.RandomArray(r*c, float64(c), utils.NewSource(cfg.Seed+1)))
		v.embeddings.Trainable = true
	}

	logging.WithComponent("vocab").Info("done loading word embeddings",
		"size", v.Size(), "sources", len(tables), "itf", v.itf != nil)
	return v, nil
}

// InitEmbeddings returns a copy of the merged pretrained matrix, one row per id.
func (v *EmbeddingVocabulary) InitEmbeddings() *mat.Dense {
	return mat.DenseCopyOf(v.initEmbeddings)
}

// Embeddings describes the embedding layer for the downstream model. The
// matrix is a copy.
func (v *EmbeddingVocabulary) Embeddings() EmbeddingInit {
	e := v.embeddings
	e.Matrix = mat.DenseCopyOf(e.Matrix)
	return e
}

// ITF returns the per-id loss weights, or nil when no frequency table was
// configured.
func (v *EmbeddingVocabulary) ITF() []float64 {
	if v.itf == nil {
		return nil
	}
	return append([]float64(nil), v.itf...)
}
