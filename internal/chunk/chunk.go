// Package chunk stores price paths as Gorilla-compressed XOR chunks.
//
// One object on disk is
//
//	[1 byte encoding][chunk bytes][4 byte CRC32-Castagnoli, big endian]
//
// where the checksum covers everything before it. Sample timestamps are the
// step index plus one, so a path of N+1 prices spans timestamps 1..N+1.
package chunk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/prometheus/prometheus/tsdb/chunkenc"
)

// MaxSamples bounds the number of samples per chunk; longer paths are split.
const MaxSamples = 1024

var (
	ErrInvalidChecksum     = errors.New("chunk: checksum mismatch: data is corrupted")
	ErrTooSmall            = errors.New("chunk: object too small to be a valid chunk")
	ErrUnsupportedEncoding = errors.New("chunk: unsupported encoding")
	ErrEmptyPath           = errors.New("chunk: empty path")
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

type Sample struct {
	T int64
	V float64
}

func Wrap(c chunkenc.Chunk) []byte {
	raw := c.Bytes()

	res := make([]byte, 1+len(raw)+4)
	res[0] = byte(c.Encoding())
	copy(res[1:], raw)

	checksum := crc32.Checksum(res[:1+len(raw)], castagnoli)
	binary.BigEndian.PutUint32(res[1+len(raw):], checksum)

	return res
}

func Unwrap(data []byte) (chunkenc.Chunk, error) {
	if len(data) < 5 {
		return nil, ErrTooSmall
	}

	payload := data[:len(data)-4]
	want := binary.BigEndian.Uint32(data[len(data)-4:])

	if got := crc32.Checksum(payload, castagnoli); got != want {
		return nil, ErrInvalidChecksum
	}

	encoding := chunkenc.Encoding(payload[0])
	if encoding != chunkenc.EncXOR {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, encoding)
	}

	c := chunkenc.NewXORChunk()
	c.Reset(payload[1:])

	return c, nil
}

// EncodePath splits path into wrapped XOR chunks of at most MaxSamples.
func EncodePath(path []float64) ([][]byte, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	var objects [][]byte
	for start := 0; start < len(path); start += MaxSamples {
		end := min(start+MaxSamples, len(path))

		c := chunkenc.NewXORChunk()
		app, err := c.Appender()
		if err != nil {
			return nil, fmt.Errorf("chunk appender: %w", err)
		}
		for i, v := range path[start:end] {
			app.Append(int64(start+i)+1, v)
		}
		objects = append(objects, Wrap(c))
	}
	return objects, nil
}

// Samples decodes one wrapped chunk.
func Samples(data []byte) ([]Sample, error) {
	c, err := Unwrap(data)
	if err != nil {
		return nil, err
	}

	out := make([]Sample, 0, c.NumSamples())
	it := c.Iterator(nil)
	for it.Next() != chunkenc.ValNone {
		t, v := it.At()
		out = append(out, Sample{T: t, V: v})
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk: %w", err)
	}
	return out, nil
}

// DecodePath reverses EncodePath.
func DecodePath(objects [][]byte) ([]float64, error) {
	var path []float64
	for i, obj := range objects {
		samples, err := Samples(obj)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		for _, s := range samples {
			path = append(path, s.V)
		}
	}
	return path, nil
}
