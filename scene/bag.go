package scene

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// bagMagic begins every bag file.
var bagMagic = []byte("RWBAG\x01")

// maxBagRecord bounds a single record so a corrupt length prefix cannot
// trigger a huge allocation.
const maxBagRecord = 64 << 20

// Record is one entry in a bag: a topic, a capture timestamp, and the
// scene document recorded under that topic.
type Record struct {
	Topic     string    `msgpack:"topic"`
	Timestamp time.Time `msgpack:"ts"`
	Scene     *document `msgpack:"scene"`
}

// BagWriter appends scene records to a bag file. Bags are the binary
// counterpart to YAML scene files, meant for streams of scenes rather
// than a single document. Records are msgpack-encoded and length-prefixed.
type BagWriter struct {
	w io.WriteCloser
}

// CreateBag creates (or truncates) a bag file and writes its header.
func CreateBag(path string) (*BagWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("scene: create bag %s: %w", path, err)
	}
	if _, err := f.Write(bagMagic); err != nil {
		f.Close()
		return nil, fmt.Errorf("scene: write bag header: %w", err)
	}
	return &BagWriter{w: f}, nil
}

// Append writes the scene under the given topic with the current time.
func (b *BagWriter) Append(topic string, s *Scene) error {
	rec := Record{Topic: topic, Timestamp: time.Now().UTC(), Scene: s.toDocument()}
	payload, err := msgpack.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("scene: encode bag record: %w", err)
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := b.w.Write(prefix[:]); err != nil {
		return fmt.Errorf("scene: write bag record: %w", err)
	}
	if _, err := b.w.Write(payload); err != nil {
		return fmt.Errorf("scene: write bag record: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (b *BagWriter) Close() error { return b.w.Close() }

// BagReader iterates over the records of a bag file.
type BagReader struct {
	r io.ReadCloser
}

// OpenBag opens a bag file and verifies its header.
func OpenBag(path string) (*BagReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open bag %s: %w", path, err)
	}
	header := make([]byte, len(bagMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		f.Close()
		return nil, fmt.Errorf("scene: read bag header: %w", err)
	}
	if string(header) != string(bagMagic) {
		f.Close()
		return nil, fmt.Errorf("scene: %s is not a bag file", path)
	}
	return &BagReader{r: f}, nil
}

// Next returns the next record's topic, timestamp, and scene. It returns
// io.EOF after the last record.
func (b *BagReader) Next() (string, time.Time, *Scene, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(b.r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return "", time.Time{}, nil, io.EOF
		}
		return "", time.Time{}, nil, fmt.Errorf("scene: read bag record: %w", err)
	}
	n := binary.BigEndian.Uint32(prefix[:])
	if n > maxBagRecord {
		return "", time.Time{}, nil, fmt.Errorf("scene: bag record of %d bytes exceeds limit", n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(b.r, payload); err != nil {
		return "", time.Time{}, nil, fmt.Errorf("scene: read bag record: %w", err)
	}
	var rec Record
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return "", time.Time{}, nil, fmt.Errorf("scene: decode bag record: %w", err)
	}
	if rec.Scene == nil {
		return "", time.Time{}, nil, fmt.Errorf("scene: bag record %q has no scene", rec.Topic)
	}
	s, err := fromDocument(rec.Scene)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return rec.Topic, rec.Timestamp, s, nil
}

// ReadAll drains the remaining records grouped by topic.
func (b *BagReader) ReadAll() (map[string][]*Scene, error) {
	out := make(map[string][]*Scene)
	for {
		topic, _, s, err := b.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out[topic] = append(out[topic], s)
	}
}

// Close closes the underlying file.
func (b *BagReader) Close() error { return b.r.Close() }
