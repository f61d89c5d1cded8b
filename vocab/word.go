package vocab

import (
	"math/rand/v2"
	"strings"

	"github.com/jack-and-rozz/occult/tokenizer"
	"github.com/jack-and-rozz/occult/utils"
)

// EOUMarker is the end-of-utterance token. Subword models see it without
// surrounding spaces; rendered sentences get the spaces back.
const EOUMarker = "__eou__"

// WordOptions configures a word-level vocabulary.
type WordOptions struct {
	PadToken, UnkToken, BOSToken string

	Tokenizer tokenizer.Tokenizer // defaults to a plain whitespace tokenizer
	Segmenter tokenizer.Segmenter // optional subword model
	Seed      uint64              // seeds word dropout
}

// WordVocabulary is a vocabulary over word tokens with a begin-of-sequence
// sentinel after pad and unk.
type WordVocabulary struct {
	*Vocabulary
	bos       string
	tokenizer tokenizer.Tokenizer
	segmenter tokenizer.Segmenter
	rng       *rand.Rand
}

// NewWordVocabulary builds [pad, unk, bos] followed by tokens in first-seen order.
func NewWordVocabulary(tokens []string, opts WordOptions) *WordVocabulary {
	tok := opts.Tokenizer
	if tok == nil {
		tok = tokenizer.NewWordTokenizer(tokenizer.Options{})
	}
	return &WordVocabulary{
		Vocabulary: newVocabulary([]string{opts.PadToken, opts.UnkToken, opts.BOSToken}, tokens),
		bos:        opts.BOSToken,
		tokenizer:  tok,
		segmenter:  opts.Segmenter,
		rng:        rand.New(utils.NewSource(opts.Seed)),
	}
}

func (v *WordVocabulary) BOSID() int { return v.Token2ID(v.bos) }

func (v *WordVocabulary) BOSToken() string { return v.bos }

func (v *WordVocabulary) Tokenizer() tokenizer.Tokenizer { return v.tokenizer }

func (v *WordVocabulary) Segmenter() tokenizer.Segmenter { return v.segmenter }

// Tokens2IDs joins tokens with single spaces and re-tokenizes the result, so
// a pre-tokenized list and the equivalent raw sentence give the same ids as
// long as the tokenizer is idempotent on its own output.
func (v *WordVocabulary) Tokens2IDs(tokens []string, dropout float64) []int {
	return v.Sentence2IDs(strings.Join(tokens, " "), dropout)
}

// Sentence2IDs tokenizes sent and maps every token to its id. With dropout > 0
// each token independently becomes the unknown id with that probability.
// Dropout draws from the vocabulary's RNG and is not safe for concurrent use.
func (v *WordVocabulary) Sentence2IDs(sent string, dropout float64) []int {
	toks := v.tokenizer.Tokenize(sent)
	ids := make([]int, len(toks))
	for i, t := range toks {
		if dropout > 0 && v.rng.Float64() < dropout {
			ids[i] = v.UnkID()
			continue
		}
		ids[i] = v.Token2ID(t)
	}
	return ids
}

// IDs2Tokens renders ids, underlining the positions inside span, and drops
// the empty strings produced by pad ids.
func (v *WordVocabulary) IDs2Tokens(ids []int, span *LinkSpan) []string {
	out := make([]string, 0, len(ids))
	for i, id := range ids {
		t := v.ID2Token(id)
		if t == "" {
			continue
		}
		if span.contains(i) {
			t = utils.Underline(t)
		}
		out = append(out, t)
	}
	return out
}

func (v *WordVocabulary) IDs2Sent(ids []int) string {
	return v.Tokens2Sent(v.IDs2Tokens(ids, nil))
}

func (v *WordVocabulary) Sent2Tokens(sent string) []string {
	return splitSentence(v.segmenter, sent)
}

func (v *WordVocabulary) Tokens2Sent(tokens []string) string {
	return joinTokens(v.segmenter, tokens)
}

func splitSentence(seg tokenizer.Segmenter, sent string) []string {
	if seg == nil {
		return strings.Fields(sent)
	}
	sent = strings.ReplaceAll(sent, " "+EOUMarker+" ", EOUMarker)
	return seg.EncodeAsPieces(sent)
}

func joinTokens(seg tokenizer.Segmenter, tokens []string) string {
	if seg == nil {
		return strings.Join(tokens, " ")
	}
	sent := seg.DecodePieces(tokens)
	return strings.ReplaceAll(sent, EOUMarker, " "+EOUMarker+" ")
}
