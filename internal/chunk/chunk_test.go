package chunk

import (
	"testing"

	"github.com/prometheus/prometheus/tsdb/chunkenc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)*0.25
	}
	return out
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, MaxSamples, MaxSamples + 1, 3*MaxSamples + 17} {
		path := ramp(n)

		objects, err := EncodePath(path)
		require.NoError(t, err)
		assert.Len(t, objects, (n+MaxSamples-1)/MaxSamples)

		got, err := DecodePath(objects)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	}
}

func TestSamplesTimestamps(t *testing.T) {
	objects, err := EncodePath(ramp(MaxSamples + 3))
	require.NoError(t, err)
	require.Len(t, objects, 2)

	first, err := Samples(objects[0])
	require.NoError(t, err)
	assert.Equal(t, int64(1), first[0].T)

	second, err := Samples(objects[1])
	require.NoError(t, err)
	require.Len(t, second, 3)
	assert.Equal(t, int64(MaxSamples+1), second[0].T)
	assert.Equal(t, 100+float64(MaxSamples)*0.25, second[0].V)
}

func TestUnwrapRejectsCorruption(t *testing.T) {
	objects, err := EncodePath(ramp(10))
	require.NoError(t, err)

	data := append([]byte(nil), objects[0]...)
	data[3] ^= 0xff
	_, err = Unwrap(data)
	require.ErrorIs(t, err, ErrInvalidChecksum)

	_, err = Unwrap([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrTooSmall)
}

func TestUnwrapRejectsOtherEncodings(t *testing.T) {
	c := chunkenc.NewXORChunk()
	data := Wrap(c)
	data[0] = byte(chunkenc.EncHistogram)

	// re-checksum so only the encoding is wrong
	fixed := Wrap(fakeChunk{Chunk: c, enc: chunkenc.EncHistogram})
	_, err := Unwrap(fixed)
	require.ErrorIs(t, err, ErrUnsupportedEncoding)

	_, err = Unwrap(data)
	require.ErrorIs(t, err, ErrInvalidChecksum)
}

func TestEncodeEmpty(t *testing.T) {
	_, err := EncodePath(nil)
	require.ErrorIs(t, err, ErrEmptyPath)
}

type fakeChunk struct {
	chunkenc.Chunk
	enc chunkenc.Encoding
}

func (f fakeChunk) Encoding() chunkenc.Encoding { return f.enc }
