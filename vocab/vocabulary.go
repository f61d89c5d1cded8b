// Package vocab builds token<->id vocabularies and aligns them with embedding
// matrices merged from pretrained sources.
//
// Every vocabulary is constructed once and never mutated afterwards; lookups
// are plain reads and may be shared between goroutines.
package vocab

// PadID is the id of the padding token in every vocabulary.
const PadID = 0

// Vocabulary is an ordered, deduplicated token list plus its inverse map.
// Ids are contiguous from 0 in first-appearance order, reserved tokens first.
type Vocabulary struct {
	rev      []string
	ids      map[string]int
	reserved []string
	pad, unk string
}

// newVocabulary lays out reserved (whose first two entries are pad and unk)
// followed by every list in tokens, keeping only the first occurrence of each
// token. A reserved token listed twice occupies a single id.
func newVocabulary(reserved []string, tokens ...[]string) *Vocabulary {
	n := len(reserved)
	for _, ts := range tokens {
		n += len(ts)
	}
	v := &Vocabulary{
		rev: make([]string, 0, n),
		ids: make(map[string]int, n),
		pad: reserved[0],
		unk: reserved[1],
	}
	v.appendUnique(reserved)
	v.reserved = append([]string(nil), v.rev...)
	for _, ts := range tokens {
		v.appendUnique(ts)
	}
	return v
}

func (v *Vocabulary) appendUnique(tokens []string) {
	for _, t := range tokens {
		if _, ok := v.ids[t]; ok {
			continue
		}
		v.ids[t] = len(v.rev)
		v.rev = append(v.rev, t)
	}
}

func (v *Vocabulary) Size() int { return len(v.rev) }

func (v *Vocabulary) PadID() int { return v.Token2ID(v.pad) }

func (v *Vocabulary) UnkID() int { return v.Token2ID(v.unk) }

func (v *Vocabulary) PadToken() string { return v.pad }

func (v *Vocabulary) UnkToken() string { return v.unk }

// Reserved returns the distinct sentinel tokens in id order. They hold ids
// 0..len-1.
func (v *Vocabulary) Reserved() []string {
	return append([]string(nil), v.reserved...)
}

// Tokens returns the vocabulary in id order.
func (v *Vocabulary) Tokens() []string {
	return append([]string(nil), v.rev...)
}

func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.ids[token]
	return ok
}

// Token2ID returns the id of token, or the unknown id when it is absent.
func (v *Vocabulary) Token2ID(token string) int {
	if id, ok := v.ids[token]; ok {
		return id
	}
	return v.ids[v.unk]
}

// ID2Token renders an id. The pad id renders as "" and ids outside
// [0, Size()) render as the unknown token.
func (v *Vocabulary) ID2Token(id int) string {
	switch {
	case id < 0 || id >= len(v.rev):
		return v.unk
	case id == v.PadID():
		return ""
	default:
		return v.rev[id]
	}
}

// LinkSpan marks an inclusive range of positions to highlight when rendering.
type LinkSpan struct {
	Start, End int
}

func (s *LinkSpan) contains(i int) bool {
	return s != nil && i >= s.Start && i <= s.End
}
