package vocab

import (
	"github.com/pkg/errors"

	"github.com/jack-and-rozz/occult/logging"
)

// VocabMergePolicy decides which tokens a merged table contains.
type VocabMergePolicy int

const (
	VocabUnion VocabMergePolicy = iota
	VocabIntersection
)

func (p VocabMergePolicy) String() string {
	switch p {
	case VocabUnion:
		return "union"
	case VocabIntersection:
		return "intersection"
	}
	return "VocabMergePolicy(?)"
}

func ParseVocabMergePolicy(s string) (VocabMergePolicy, error) {
	switch s {
	case "union":
		return VocabUnion, nil
	case "intersection":
		return VocabIntersection, nil
	}
	return 0, errors.Wrapf(ErrUnknownPolicy, "vocab merge %q", s)
}

// EmbeddingMergePolicy decides which vector a merged token gets.
type EmbeddingMergePolicy int

const (
	EmbeddingFirstFound EmbeddingMergePolicy = iota
	EmbeddingAverage
	EmbeddingConcat
)

func (p EmbeddingMergePolicy) String() string {
	switch p {
	case EmbeddingFirstFound:
		return "first_found"
	case EmbeddingAverage:
		return "average"
	case EmbeddingConcat:
		return "concat"
	}
	return "EmbeddingMergePolicy(?)"
}

func ParseEmbeddingMergePolicy(s string) (EmbeddingMergePolicy, error) {
	switch s {
	case "first_found":
		return EmbeddingFirstFound, nil
	case "average":
		return EmbeddingAverage, nil
	case "concat":
		return EmbeddingConcat, nil
	}
	return 0, errors.Wrapf(ErrUnknownPolicy, "embedding merge %q", s)
}

// Merge combines tables into one. Only VocabUnion with EmbeddingFirstFound is
// supported: the result holds every token of every table, in the order tokens
// are first met walking the tables in order, and each token keeps the vector
// of the first table that has it. Any other policy fails with
// ErrNotImplemented. The merged table falls back to zero vectors.
func Merge(tables []*EmbeddingTable, vp VocabMergePolicy, ep EmbeddingMergePolicy) (*EmbeddingTable, error) {
	if vp != VocabUnion {
		return nil, errors.Wrapf(ErrNotImplemented, "vocab merge %s", vp)
	}
	if ep != EmbeddingFirstFound {
		return nil, errors.Wrapf(ErrNotImplemented, "embedding merge %s", ep)
	}
	if len(tables) == 0 {
		return nil, ErrNoSources
	}
	dim := tables[0].Dim()
	for i, t := range tables[1:] {
		if t.Dim() != dim {
			return nil, errors.Wrapf(ErrDimensionMismatch, "source %d has width %d, source 0 has %d", i+1, t.Dim(), dim)
		}
	}

	merged := NewEmbeddingTable(dim, nil)
	for _, t := range tables {
		for _, k := range t.keys {
			if merged.Has(k) {
				continue
			}
			if err := merged.Set(k, t.vecs[k]); err != nil {
				return nil, err
			}
		}
	}
	logging.WithComponent("merger").Info("merged embedding sources",
		"sources", len(tables), "tokens", merged.Len())
	return merged, nil
}
