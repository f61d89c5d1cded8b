package vocab

import (
	"fmt"
	"strings"
)

// FeatureVocabulary is built from observed tokens rather than pretrained
// embeddings (labels, auxiliary features). Ids follow first occurrence, not
// frequency; the counts are kept alongside.
type FeatureVocabulary struct {
	*Vocabulary
	freq map[string]int
}

func NewFeatureVocabulary(allTokens []string, pad, unk string) *FeatureVocabulary {
	freq := make(map[string]int)
	var distinct []string
	for _, t := range allTokens {
		if freq[t] == 0 {
			distinct = append(distinct, t)
		}
		freq[t]++
	}
	return &FeatureVocabulary{
		Vocabulary: newVocabulary([]string{pad, unk}, distinct),
		freq:       freq,
	}
}

// Freq returns how often token was observed; 0 if never.
func (v *FeatureVocabulary) Freq(token string) int { return v.freq[token] }

func (v *FeatureVocabulary) Tokens2IDs(tokens []string) []int {
	ids := make([]int, len(tokens))
	for i, t := range tokens {
		ids[i] = v.Token2ID(t)
	}
	return ids
}

func (v *FeatureVocabulary) IDs2Tokens(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = v.ID2Token(id)
	}
	return out
}

func (v *FeatureVocabulary) String() string {
	head := v.rev
	if len(head) > 5 {
		head = head[:5]
	}
	return fmt.Sprintf("<%T>: [%s ...]", v, strings.Join(head, " "))
}

// ListVocabulary is a FeatureVocabulary over words that renders sentences the
// same way as the word vocabulary it was derived from.
type ListVocabulary struct {
	*FeatureVocabulary
	base *WordVocabulary
}

// NewListVocabulary borrows pad/unk and the subword model from base, which may
// be nil.
func NewListVocabulary(allTokens []string, base *WordVocabulary) *ListVocabulary {
	pad, unk := "<pad>", "<unk>"
	if base != nil {
		pad, unk = base.PadToken(), base.UnkToken()
	}
	return &ListVocabulary{
		FeatureVocabulary: NewFeatureVocabulary(allTokens, pad, unk),
		base:              base,
	}
}

func (v *ListVocabulary) Tokens2Sent(tokens []string) string {
	if v.base == nil {
		return joinTokens(nil, tokens)
	}
	return joinTokens(v.base.segmenter, tokens)
}

func (v *ListVocabulary) IDs2Sent(ids []int) string {
	return v.Tokens2Sent(v.IDs2Tokens(ids))
}
