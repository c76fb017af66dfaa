package excite

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// LoadWAV decodes the WAV at path, resampled to sampleRate, and returns its
// stereo frames averaged to mono for the Sample mode.
func LoadWAV(sampleRate int, path string) ([]float32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	samples, err := DecodeWAV(sampleRate, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	return samples, nil
}

// DecodeWAV is LoadWAV for an already open stream.
func DecodeWAV(sampleRate int, r io.Reader) ([]float32, error) {
	stream, err := wav.DecodeWithSampleRate(sampleRate, r)
	if err != nil {
		return nil, err
	}
	decoded, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading decoded audio: %w", err)
	}
	samples := decodeStereoI16ToMono(decoded)
	if len(samples) == 0 {
		return nil, fmt.Errorf("wav has no audio data")
	}
	return samples, nil
}

// decodeStereoI16ToMono averages interleaved 16-bit stereo frames into
// samples in [-1, 1).
func decodeStereoI16ToMono(pcm []byte) []float32 {
	out := make([]float32, len(pcm)/4)
	for i := range out {
		frame := pcm[4*i:]
		l := int16(binary.LittleEndian.Uint16(frame))
		r := int16(binary.LittleEndian.Uint16(frame[2:]))
		out[i] = (float32(l) + float32(r)) / 65536
	}
	return out
}
