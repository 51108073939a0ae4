package midiwriter

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Energy mirrors accompaniment.Energy as a plain string so the FFI JSON
// options record can bind it without importing the
// accompaniment package's type in external callers.
type Energy string

const (
	EnergySoft   Energy = "soft"
	EnergyMedium Energy = "medium"
	EnergyStrong Energy = "strong"
)

// Options is the recognized-keys options record accepted by the FFI,
// HTTP, and CLI surfaces.
type Options struct {
	IncludeMelody    bool   `json:"include_melody"`
	IncludePiano     bool   `json:"include_piano"`
	IncludeBass      bool   `json:"include_bass"`
	IncludeStrings   bool   `json:"include_strings"`
	IncludeDrums     bool   `json:"include_drums"`
	IncludeMetronome bool   `json:"include_metronome"`
	MelodyChannel    int    `json:"melody_channel"`
	Energy           Energy `json:"energy"`
	Transpose        int    `json:"transpose"`
}

// DefaultOptions returns the documented defaults: melody and metronome
// on, accompaniment off, channel 0, medium energy.
func DefaultOptions() Options {
	return Options{
		IncludeMelody:    true,
		IncludePiano:     false,
		IncludeBass:      false,
		IncludeStrings:   false,
		IncludeDrums:     false,
		IncludeMetronome: true,
		MelodyChannel:    0,
		Energy:           EnergyMedium,
		Transpose:        0,
	}
}

// ParseOptions decodes the options JSON record over the
// documented defaults: absent keys keep their default, unknown keys are
// ignored. Empty or nil input yields DefaultOptions. Malformed JSON is
// an error (the FFI/HTTP callers surface it as a bad request).
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if len(data) == 0 {
		return opts, nil
	}
	if err := json.Unmarshal(data, &opts); err != nil {
		return DefaultOptions(), err
	}
	if opts.MelodyChannel < 0 || opts.MelodyChannel > 15 {
		opts.MelodyChannel = 0
	}
	return opts, nil
}
