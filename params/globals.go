package params

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EmbeddingSource describes one pretrained token->vector table.
type EmbeddingSource struct {
	Path      string `yaml:"path"`
	Size      int    `yaml:"size"`       // vector width of every row
	SkipFirst bool   `yaml:"skip_first"` // first line is a "<rows> <cols>" header
	FreqPath  string `yaml:"freq_path"`  // optional "<token> <count>" table for ITF weights
}

type VocabConfig struct {
	// Reserved tokens, in id order.
	PadToken string `yaml:"pad_token"`
	UnkToken string `yaml:"unk_token"`
	BOSToken string `yaml:"bos_token"`

	// Tokenizer adapter
	Lowercase           bool   `yaml:"lowercase"`
	NormalizeDigits     bool   `yaml:"normalize_digits"`
	SplitQuotation      bool   `yaml:"split_quotation"`
	UnicodeForm         string `yaml:"unicode_form"` // "", NFC, NFKC, NFD, NFKD
	UseSubwordTokenizer bool   `yaml:"use_subword_tokenizer"`
	SubwordModelType    string `yaml:"subword_model_type"` // sentencepiece | bpe
	SubwordModelPath    string `yaml:"subword_model_path"` // derived from the first source when empty
	SubwordCorpusPath   string `yaml:"subword_corpus_path"` // bpe: train here when no model is stored
	SubwordVocabSize    int    `yaml:"subword_vocab_size"`

	// Pretrained sources
	VocabSize      int               `yaml:"vocab_size"` // max rows read per source
	EmbConfig      []EmbeddingSource `yaml:"emb_config"`
	VocabMerge     string            `yaml:"vocab_merge"`
	EmbeddingMerge string            `yaml:"embedding_merge"`
	OOVInit        string            `yaml:"oov_init"` // random | zero

	// Post-processing
	CentralizeEmbedding bool    `yaml:"centralize_embedding"`
	NormalizeEmbedding  bool    `yaml:"normalize_embedding"`
	ITFLambda           float64 `yaml:"itf_lambda"`
	ITFMarker           string  `yaml:"itf_marker"`

	// Downstream embedding layer
	UsePretrainedEmb bool `yaml:"use_pretrained_emb"`
	Trainable        bool `yaml:"trainable"`

	Seed uint64          `yaml:"seed"`
	Char CharVocabConfig `yaml:"char"`
}

type CharVocabConfig struct {
	PadToken       string   `yaml:"pad_token"`
	UnkToken       string   `yaml:"unk_token"`
	VocabPaths     []string `yaml:"vocab_paths"`
	VocabSize      int      `yaml:"vocab_size"` // lines read per file
	EmbeddingSize  int      `yaml:"embedding_size"`
	SplitQuotation bool     `yaml:"split_quotation"`
	Seed           uint64   `yaml:"seed"`
}

// Config holds the defaults every loaded file is layered onto.
var Config = VocabConfig{
	PadToken: "<pad>",
	UnkToken: "<unk>",
	BOSToken: "<bos>",

	Lowercase:        true,
	NormalizeDigits:  true,
	SplitQuotation:   true,
	SubwordModelType: "sentencepiece",
	SubwordVocabSize: 16000,

	VocabSize:      50000,
	VocabMerge:     "union",
	EmbeddingMerge: "first_found",
	OOVInit:        "random",

	ITFLambda: 0.4,
	ITFMarker: "__eou__",

	UsePretrainedEmb: true,
	Trainable:        false,

	Seed: 0,
	Char: CharVocabConfig{
		PadToken:  "<pad>",
		UnkToken:  "<unk>",
		VocabSize: 1000,
	},
}

// DefaultConfig returns a copy of Config that callers may modify freely.
func DefaultConfig() VocabConfig {
	c := Config
	c.EmbConfig = append([]EmbeddingSource(nil), Config.EmbConfig...)
	c.Char.VocabPaths = append([]string(nil), Config.Char.VocabPaths...)
	return c
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (VocabConfig, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrap(err, "open config")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the fields the vocabulary constructors rely on.
func (c VocabConfig) Validate() error {
	v := NewValidator()
	v.RequireNonEmpty("pad_token", c.PadToken).
		RequireNonEmpty("unk_token", c.UnkToken).
		RequireNonEmpty("bos_token", c.BOSToken).
		RequirePositive("vocab_size", c.VocabSize).
		ValidateOneOf("vocab_merge", c.VocabMerge, "union", "intersection").
		ValidateOneOf("embedding_merge", c.EmbeddingMerge, "first_found", "average", "concat").
		ValidateOneOf("oov_init", c.OOVInit, "random", "zero").
		ValidateOneOf("unicode_form", c.UnicodeForm, "", "NFC", "NFKC", "NFD", "NFKD").
		ValidateFloatRange("itf_lambda", c.ITFLambda, 0, 10)
	if c.UseSubwordTokenizer {
		v.ValidateOneOf("subword_model_type", c.SubwordModelType, "sentencepiece", "bpe")
		if c.SubwordCorpusPath != "" {
			v.RequirePositive("subword_vocab_size", c.SubwordVocabSize)
		}
	}
	v.RequireDistinct("pad_token, unk_token, bos_token", c.PadToken, c.UnkToken, c.BOSToken)
	if len(c.EmbConfig) == 0 {
		v.Add("emb_config", "at least one embedding source is required")
	}
	for i, s := range c.EmbConfig {
		field := fmt.Sprintf("emb_config[%d]", i)
		v.RequireNonEmpty(field+".path", s.Path).
			RequirePositive(field+".size", s.Size)
	}
	return v.Error()
}

// Validate checks a predefined character vocabulary block.
func (c CharVocabConfig) Validate() error {
	v := NewValidator()
	v.RequireNonEmpty("char.pad_token", c.PadToken).
		RequireNonEmpty("char.unk_token", c.UnkToken).
		RequirePositive("char.vocab_size", c.VocabSize).
		RequireDistinct("char.pad_token, char.unk_token", c.PadToken, c.UnkToken)
	if len(c.VocabPaths) == 0 {
		v.Add("char.vocab_paths", "at least one token list is required")
	}
	if c.EmbeddingSize < 0 {
		v.Add("char.embedding_size", "value cannot be negative")
	}
	return v.Error()
}
