// Package tokenizertest writes small subword models for tests.
package tokenizertest

import (
	"math"
	"os"
	"strings"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

// PieceType mirrors the SentencePiece piece types.
type PieceType uint64

const (
	Normal      PieceType = 1
	Unknown     PieceType = 2
	Control     PieceType = 3
	UserDefined PieceType = 4
)

type Piece struct {
	Text  string
	Score float32
	Type  PieceType
}

// SmallPieces segments "the cat" and "the dog" into whole words and treats
// "__eou__" as an unsplittable symbol.
func SmallPieces() []Piece {
	ps := []Piece{
		{"<unk>", 0, Unknown},
		{"__eou__", 0, UserDefined},
		// Long enough to cover any pair the encoder tries to merge.
		{strings.Repeat("▁", 16), -100, Normal},
	}
	for _, c := range []string{"▁", "t", "h", "e", "c", "a", "d", "o", "g"} {
		ps = append(ps, Piece{c, -10, Normal})
	}
	for i, level := range [][]string{{"th", "▁c", "▁d"}, {"the", "▁ca", "▁do"}, {"▁cat", "▁dog"}} {
		for _, p := range level {
			ps = append(ps, Piece{p, -float32(i + 1), Normal})
		}
	}
	return ps
}

// WriteSentencePiece writes a BPE-type SentencePiece model holding pieces,
// with no dummy prefix and no whitespace folding.
func WriteSentencePiece(t testing.TB, path string, pieces []Piece) {
	t.Helper()
	var b []byte
	for _, p := range pieces {
		var pb []byte
		pb = protowire.AppendTag(pb, 1, protowire.BytesType)
		pb = protowire.AppendString(pb, p.Text)
		pb = protowire.AppendTag(pb, 2, protowire.Fixed32Type)
		pb = protowire.AppendFixed32(pb, math.Float32bits(p.Score))
		pb = protowire.AppendTag(pb, 3, protowire.VarintType)
		pb = protowire.AppendVarint(pb, uint64(p.Type))
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, pb)
	}

	// trainer_spec.model_type = BPE
	var ts []byte
	ts = protowire.AppendTag(ts, 3, protowire.VarintType)
	ts = protowire.AppendVarint(ts, 2)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, ts)

	// normalizer_spec.add_dummy_prefix and remove_extra_whitespaces = false
	var ns []byte
	ns = protowire.AppendTag(ns, 3, protowire.VarintType)
	ns = protowire.AppendVarint(ns, 0)
	ns = protowire.AppendTag(ns, 4, protowire.VarintType)
	ns = protowire.AppendVarint(ns, 0)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, ns)

	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
}

// WriteCorpus writes text repeated n times, one copy per line.
func WriteCorpus(t testing.TB, path, text string, n int) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.Repeat(text+"\n", n)), 0o644); err != nil {
		t.Fatal(err)
	}
}
