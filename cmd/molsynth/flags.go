package main

import (
	"flag"

	"molsynth/internal/config"
)

// Command-line flags. Values given here override the config file.
var (
	// configFlag names an optional gcfg file with a [synth] section.
	configFlag = flag.String("config", "", "path to a config file with a [synth] section")

	// topologyFlag names the molecule file loaded at startup and on R.
	topologyFlag = flag.String("topology", "", "bond-list (CONECT) or JSON molecule file; empty starts with no nodes")

	formatFlag = flag.String("format", "auto", "topology format: auto, bondlist or json")

	// excitationFlag selects the initial excitation waveform.
	excitationFlag = flag.String("excitation", config.DefaultExcitation, "excitation waveform: impulse, sine, sawtooth or sample")

	// sampleFlag names a WAV file played by the sample excitation.
	sampleFlag = flag.String("sample", "", "WAV file for the sample excitation")

	logLevelFlag  = flag.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	logFormatFlag = flag.String("log-format", config.DefaultLogFormat, "log format: text or json")

	// cpuProfileFlag writes a CPU profile covering the whole session.
	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this file")
)

// applyFlags copies the flags set on the command line over s.
func applyFlags(s *config.Synth) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "topology":
			s.Topology = *topologyFlag
		case "format":
			s.Format = *formatFlag
		case "excitation":
			s.Excitation = *excitationFlag
		case "sample":
			s.SampleFile = *sampleFlag
		case "log-level":
			s.LogLevel = *logLevelFlag
		case "log-format":
			s.LogFormat = *logFormatFlag
		}
	})
}
