package IO

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/jack-and-rozz/occult/logging"
	"github.com/jack-and-rozz/occult/vocab"
)

// ExportTokenIDsBinary encodes every line of inPath through v and writes the
// id sequences to shards:
//
//   - <prefix>-NNN.bin = concatenated little-endian int32 ids, BOS first
//   - <prefix>-NNN.idx = little-endian int64 (byte offset, length) per line
//
// A new shard is started before a line that would be written to a .bin that
// already holds maxShardBytes. Lines
// that tokenize to nothing are skipped. It returns the number of shards.
func ExportTokenIDsBinary(inPath, outPrefix string, maxShardBytes int64, v *vocab.WordVocabulary) (int, error) {
	if maxShardBytes <= 0 {
		return 0, errors.Errorf("shard size must be positive, got %d", maxShardBytes)
	}
	inF, err := os.Open(inPath)
	if err != nil {
		return 0, errors.Wrap(err, "open corpus")
	}
	defer inF.Close()

	w := &shardWriter{prefix: outPrefix}
	if err := w.open(); err != nil {
		return 0, err
	}

	reader := bufio.NewReaderSize(inF, 1<<20)
	lines := 0
	for {
		line, rerr := reader.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			w.close()
			return 0, errors.Wrapf(rerr, "read %s", inPath)
		}
		if toks := v.Sentence2IDs(line, 0); len(toks) > 0 {
			if w.cur >= maxShardBytes {
				if err := w.open(); err != nil {
					return 0, err
				}
			}
			ids := append([]int{v.BOSID()}, toks...)
			if err := w.write(ids); err != nil {
				w.close()
				return 0, err
			}
			lines++
		}
		if rerr == io.EOF {
			break
		}
	}
	if err := w.close(); err != nil {
		return 0, err
	}
	logging.WithComponent("export").Info("exported id shards",
		"input", inPath, "lines", lines, "shards", w.shard)
	return w.shard, nil
}

type shardWriter struct {
	prefix      string
	shard       int
	dataF, idxF *os.File
	wData, wIdx *bufio.Writer
	cur         int64
	buf         [8]byte
}

// open flushes the current shard, if any, and starts the next one.
func (s *shardWriter) open() error {
	if err := s.close(); err != nil {
		return err
	}
	var err error
	if s.dataF, err = os.Create(fmt.Sprintf("%s-%03d.bin", s.prefix, s.shard)); err != nil {
		return err
	}
	if s.idxF, err = os.Create(fmt.Sprintf("%s-%03d.idx", s.prefix, s.shard)); err != nil {
		s.dataF.Close()
		s.dataF = nil
		return err
	}
	s.wData = bufio.NewWriter(s.dataF)
	s.wIdx = bufio.NewWriter(s.idxF)
	s.cur = 0
	s.shard++
	return nil
}

func (s *shardWriter) write(ids []int) error {
	binary.LittleEndian.PutUint64(s.buf[:], uint64(s.cur))
	if _, err := s.wIdx.Write(s.buf[:8]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(s.buf[:], uint64(len(ids)))
	if _, err := s.wIdx.Write(s.buf[:8]); err != nil {
		return err
	}
	for _, id := range ids {
		binary.LittleEndian.PutUint32(s.buf[:4], uint32(id))
		if _, err := s.wData.Write(s.buf[:4]); err != nil {
			return err
		}
	}
	s.cur += int64(4 * len(ids))
	return nil
}

func (s *shardWriter) close() error {
	if s.dataF == nil {
		return nil
	}
	errs := []error{s.wData.Flush(), s.wIdx.Flush(), s.dataF.Close(), s.idxF.Close()}
	s.dataF, s.idxF = nil, nil
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
