// Package config holds the synthesizer's tunable constants and reads the
// optional INI-style override file.
//
// A config file has a single [synth] section, for example:
//
//	[synth]
//	sampleRate = 48000
//	waveSpeed = 0.02
//	topology = benzene.pdb
package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/gcfg.v1"

	"molsynth/internal/excite"
	"molsynth/internal/topology"
	"molsynth/internal/wave"
)

// Default values used when neither the config file nor a flag sets them.
// Physical constants are effective values; slider intents square their
// control position before it reaches the engine, the file does not.
const (
	DefaultSampleRate       = wave.DefaultSampleRate
	DefaultBlockSize        = 256
	DefaultWaveSpeed        = wave.DefaultWaveSpeed
	DefaultDamping          = wave.DefaultDamping
	DefaultSpatialStep      = wave.DefaultSpatialStep
	DefaultMaxNodes         = topology.DefaultMaxNodes
	DefaultMaxDegree        = topology.DefaultMaxDegree
	DefaultInputTap         = 14
	DefaultOutputTap        = 34
	DefaultExcitationPeriod = excite.DefaultPeriod
	DefaultExcitation       = "sawtooth"
	DefaultQueueSize        = 256
	DefaultGain             = 1.0
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Synth is the [synth] section.
type Synth struct {
	SampleRate       int
	BlockSize        int
	WaveSpeed        float64
	Damping          float64
	SpatialStep      float64
	MaxNodes         int
	MaxDegree        int
	InputTap         int
	OutputTap        int
	ExcitationPeriod int
	Excitation       string
	QueueSize        int
	Gain             float64
	DCBlock          bool

	Topology   string
	Format     string
	SampleFile string

	LogLevel  string
	LogFormat string
}

// File mirrors the layout of a config file.
type File struct {
	Synth Synth
}

// Default returns the built-in configuration.
func Default() *File {
	return &File{Synth: Synth{
		SampleRate:       DefaultSampleRate,
		BlockSize:        DefaultBlockSize,
		WaveSpeed:        DefaultWaveSpeed,
		Damping:          DefaultDamping,
		SpatialStep:      DefaultSpatialStep,
		MaxNodes:         DefaultMaxNodes,
		MaxDegree:        DefaultMaxDegree,
		InputTap:         DefaultInputTap,
		OutputTap:        DefaultOutputTap,
		ExcitationPeriod: DefaultExcitationPeriod,
		Excitation:       DefaultExcitation,
		QueueSize:        DefaultQueueSize,
		Gain:             DefaultGain,
		Format:           topology.FormatAuto.String(),
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
	}}
}

// Load reads path over the defaults and validates the result. An empty
// path yields the defaults.
func Load(path string) (*File, error) {
	f := Default()
	if path == "" {
		return f, f.Validate()
	}
	if err := gcfg.ReadFileInto(f, path); err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return f, nil
}

// Parse is Load for config text held in memory.
func Parse(text string) (*File, error) {
	f := Default()
	if err := gcfg.ReadStringInto(f, text); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate reports the first out-of-range value.
func (f *File) Validate() error {
	s := &f.Synth
	switch {
	case s.BlockSize < 1:
		return fmt.Errorf("blockSize must be positive, is %d", s.BlockSize)
	case s.MaxNodes < 1:
		return fmt.Errorf("maxNodes must be positive, is %d", s.MaxNodes)
	case s.MaxDegree < 1:
		return fmt.Errorf("maxDegree must be positive, is %d", s.MaxDegree)
	case s.InputTap < 0 || s.InputTap >= s.MaxNodes:
		return fmt.Errorf("inputTap must be in range [0, %d), is %d", s.MaxNodes, s.InputTap)
	case s.OutputTap < 0 || s.OutputTap >= s.MaxNodes:
		return fmt.Errorf("outputTap must be in range [0, %d), is %d", s.MaxNodes, s.OutputTap)
	case s.ExcitationPeriod < 1:
		return fmt.Errorf("excitationPeriod must be positive, is %d", s.ExcitationPeriod)
	case s.QueueSize < 2:
		return fmt.Errorf("queueSize must be at least 2, is %d", s.QueueSize)
	case s.Gain < 0:
		return fmt.Errorf("gain must be non-negative, is %g", s.Gain)
	}
	if err := s.Params().Validate(); err != nil {
		return err
	}
	mode, err := s.ExcitationMode()
	if err != nil {
		return err
	}
	if mode == excite.Sample && s.SampleFile == "" {
		return errors.New("excitation is sample but no sampleFile is set")
	}
	_, err = topology.ParseFormat(s.Format)
	return err
}

// Params returns the engine parameters.
func (s *Synth) Params() wave.Params {
	return wave.Params{
		WaveSpeed:   s.WaveSpeed,
		Damping:     s.Damping,
		SpatialStep: s.SpatialStep,
		SampleRate:  s.SampleRate,
	}
}

// Limits returns the arena capacities.
func (s *Synth) Limits() topology.Limits {
	return topology.Limits{MaxNodes: s.MaxNodes, MaxDegree: s.MaxDegree}
}

// LoadOptions returns the options the topology loaders take.
func (s *Synth) LoadOptions() topology.LoadOptions {
	return topology.LoadOptions{Limits: s.Limits(), InputTap: s.InputTap, OutputTap: s.OutputTap}
}

// ExcitationMode parses Excitation.
func (s *Synth) ExcitationMode() (excite.Mode, error) {
	return excite.ParseMode(s.Excitation)
}

// BufferDuration is the audio player buffer covering two blocks.
func (s *Synth) BufferDuration() time.Duration {
	return time.Duration(2*s.BlockSize) * time.Second / time.Duration(s.SampleRate)
}

// Courant is the stability number c·dt/dx of the configured parameters.
func (s *Synth) Courant() float64 { return s.Params().Courant() }
