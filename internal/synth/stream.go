package synth

const (
	pcm16MaxValue  = 32767
	frameBytes     = 4 // two channels of 16-bit PCM
	dcCouplingRate = 0.001
)

// Stream adapts a Renderer to the io.Reader an audio player pulls 16-bit
// little-endian stereo PCM from. Each Read renders in blocks of at most
// blockSize frames.
type Stream struct {
	r       *Renderer
	block   []float32
	gain    float32
	dcBlock bool
	dc      float32
}

// NewStream allocates the block buffer up front; Read does not allocate.
func NewStream(r *Renderer, blockSize int, gain float64, dcBlock bool) *Stream {
	if blockSize < 1 {
		blockSize = 1
	}
	return &Stream{
		r:       r,
		block:   make([]float32, 2*blockSize),
		gain:    float32(gain),
		dcBlock: dcBlock,
	}
}

// Read fills p with whole stereo frames. It never blocks and never fails;
// without a topology it produces silence.
func (s *Stream) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}
	maxFrames := len(s.block) / 2
	off := 0
	for frames > 0 {
		n := min(frames, maxFrames)
		block := s.block[:2*n]
		_ = s.r.Render(block)
		for i := 0; i < n; i++ {
			v := int16(s.shape(block[2*i]) * pcm16MaxValue)
			p[off] = byte(v)
			p[off+1] = byte(v >> 8)
			p[off+2] = p[off]
			p[off+3] = p[off+1]
			off += frameBytes
		}
		frames -= n
	}
	return off, nil
}

// shape applies gain, hard clipping and optional AC coupling.
func (s *Stream) shape(v float32) float32 {
	v = clip(v * s.gain)
	if s.dcBlock {
		// One-pole tracker of the slowly varying offset.
		s.dc += dcCouplingRate * (v - s.dc)
		v = clip(v - s.dc)
	}
	return v
}

func clip(v float32) float32 {
	switch {
	case v != v:
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}

// Close implements io.Closer for players that close their source.
func (s *Stream) Close() error { return nil }
