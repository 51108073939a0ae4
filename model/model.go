// Package model is the in-memory score representation every other package
// consumes. It holds no behavior beyond small accessor helpers; Ingest is
// the only package that constructs it, and every entity is immutable once
// built.
package model

// NoteType enumerates the notated duration shapes used for stem/flag/beam
// rendering and MIDI quantization hints. It does not by itself determine
// sounding duration — Duration (in divisions) does.
type NoteType string

const (
	NoteWhole      NoteType = "whole"
	NoteHalf       NoteType = "half"
	NoteQuarter    NoteType = "quarter"
	NoteEighth     NoteType = "eighth"
	Note16th       NoteType = "16th"
	Note32nd       NoteType = "32nd"
	Note64th       NoteType = "64th"
)

// StemDirection is an explicit notated stem override.
type StemDirection string

const (
	StemNone StemDirection = ""
	StemUp   StemDirection = "up"
	StemDown StemDirection = "down"
)

// BeamEvent records one beam-level marking on a note.
type BeamEvent struct {
	Level int    // 1-based beam level: 1 = primary beam, 2 = secondary, ...
	Type  string // "begin", "continue", "end"
}

// SlurEvent records a slur start or stop on a note.
type SlurEvent struct {
	Number int // pairs starts/stops within a (part, staff) scope
	Type   string // "start" or "stop"
}

// Syllabic classifies a lyric syllable's position within its word.
type Syllabic string

const (
	SyllableSingle Syllabic = "single"
	SyllableBegin  Syllabic = "begin"
	SyllableMiddle Syllabic = "middle"
	SyllableEnd    Syllabic = "end"
)

// Lyric is one verse's syllable attached to a note.
type Lyric struct {
	Verse    int
	Text     string
	Syllabic Syllabic
}

// Note is either a rest or a pitched entity. Rest marks a rest.
type Note struct {
	Rest bool

	// Pitch fields, meaningful only when !Rest.
	Step      string // "C".."B"
	Alter     int    // semitone alteration, may be fractional-free (int for MIDI purposes)
	Octave    int

	Grace     bool
	Chord     bool // shares onset with the previous non-grace note in its (staff,voice) partition
	TieStart  bool
	TieStop   bool
	Duration  int // in divisions
	Voice     int // 1-based; 0 means unspecified -> treated as 1
	Staff     int // 1-based; 0 means unspecified -> treated as 1
	Type      NoteType
	Stem      StemDirection
	Beams     []BeamEvent
	Accidental string // e.g. "sharp","flat","natural"; "" = none
	Dot       bool
	Slurs     []SlurEvent
	Lyrics    []Lyric
}

// EffectiveVoice returns the 1-based voice number, defaulting to 1.
func (n *Note) EffectiveVoice() int {
	if n.Voice <= 0 {
		return 1
	}
	return n.Voice
}

// EffectiveStaff returns the 1-based staff number, defaulting to 1.
func (n *Note) EffectiveStaff() int {
	if n.Staff <= 0 {
		return 1
	}
	return n.Staff
}

// MidiPitch returns the MIDI note number for a pitched note (0-127,
// unclamped beyond that range — callers clamp at the MIDI boundary).
func (n *Note) MidiPitch() int {
	if n.Rest {
		return -1
	}
	stepSemitone := map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}
	base, ok := stepSemitone[n.Step]
	if !ok {
		base = 0
	}
	return (n.Octave+1)*12 + base + n.Alter
}

// ChordQuality enumerates harmony kinds.
type ChordQuality string

const (
	QualityMajor        ChordQuality = "major"
	QualityMinor        ChordQuality = "minor"
	QualityDominant7    ChordQuality = "dominant7"
	QualityMajor7       ChordQuality = "major-seventh"
	QualityMinor7       ChordQuality = "minor-seventh"
	QualityDiminished   ChordQuality = "diminished"
	QualityHalfDim      ChordQuality = "half-diminished"
	QualityAugmented    ChordQuality = "augmented"
)

// Harmony is an explicit or inferred chord symbol attached to a measure.
type Harmony struct {
	RootStep  string
	RootAlter int
	Quality   ChordQuality
	BassStep  string // "" if no slash bass
	BassAlter int
	HasBass   bool
}

// BarlineLocation is where within the measure a barline is drawn.
type BarlineLocation string

const (
	BarlineLeft   BarlineLocation = "left"
	BarlineRight  BarlineLocation = "right"
	BarlineMiddle BarlineLocation = "middle"
)

// RepeatDirection is the direction a repeat barline opens/closes.
type RepeatDirection string

const (
	RepeatNone     RepeatDirection = ""
	RepeatForward  RepeatDirection = "forward"
	RepeatBackward RepeatDirection = "backward"
)

// Ending is a volta (alternate ending) bracket attached to a barline.
type Ending struct {
	Numbers string // raw string, e.g. "1", "2", "1, 2"
	Type    string // "start", "stop", "discontinue"
}

// Barline is a notated barline, possibly carrying a repeat or volta.
type Barline struct {
	Location BarlineLocation
	Style    string
	Repeat   RepeatDirection
	Ending   *Ending
	Type     string // "start","stop","discontinue" — barline's own type, distinct from Ending.Type
}

// OctaveShiftType is the kind of an octave-shift direction.
type OctaveShiftType string

const (
	OctaveShiftNone OctaveShiftType = ""
	OctaveShiftUp   OctaveShiftType = "up"
	OctaveShiftDown OctaveShiftType = "down"
	OctaveShiftStop OctaveShiftType = "stop"
)

// OctaveShift is an 8va/15ma-style transposing bracket.
type OctaveShift struct {
	Type OctaveShiftType
	Size int // 8, 15, or 22
}

// Placement is above/below the staff.
type Placement string

const (
	PlacementAbove Placement = "above"
	PlacementBelow Placement = "below"
)

// Metronome is an explicit metronome mark (beat-unit = per-minute).
type Metronome struct {
	BeatUnit  NoteType
	PerMinute float64
	Dotted    bool
}

// Direction is a musical direction: tempo, words, navigation, octave shift.
type Direction struct {
	Placement   Placement
	Tempo       float64 // explicit sound tempo in BPM; 0 = not set
	Metronome   *Metronome
	Words       string
	WordsStyle  string
	Segno       bool
	Coda        bool
	Rehearsal   string
	DaCapo      bool
	DalSegno    bool
	Fine        bool
	ToCoda      bool
	OctaveShift *OctaveShift
}

// Clef identifies a staff's clef.
type Clef struct {
	Sign string // "G","F","C",...
	Line int
}

// Transpose is a sounding-pitch transposition applied to a part.
type Transpose struct {
	Chromatic    int
	Diatonic     int
	OctaveChange int
}

// Key is a key signature.
type Key struct {
	Fifths int // -7..7
	Mode   string
}

// Time is a time signature.
type Time struct {
	Beats    int
	BeatType int
}

// Attributes is a measure-scoped state block that remains in force until
// superseded by a later Attributes in score order.
type Attributes struct {
	Divisions  int // > 0; per quarter note
	Key        *Key
	Time       *Time
	Clefs      map[int]Clef // keyed by 1-based staff number
	Transpose  *Transpose
	StaffCount int
}

// Measure is one measure of one part.
type Measure struct {
	Number     string
	Implicit   bool // anacrusis / pickup
	Attributes *Attributes
	Notes      []Note
	Harmonies  []Harmony
	Barlines   []Barline
	Directions []Direction
	NewSystem  bool
	NewPage    bool
}

// RightBarline returns the measure's right-side barline, if any.
func (m *Measure) RightBarline() *Barline {
	for i := range m.Barlines {
		if m.Barlines[i].Location == BarlineRight {
			return &m.Barlines[i]
		}
	}
	return nil
}

// LeftBarline returns the measure's left-side barline, if any.
func (m *Measure) LeftBarline() *Barline {
	for i := range m.Barlines {
		if m.Barlines[i].Location == BarlineLeft {
			return &m.Barlines[i]
		}
	}
	return nil
}

// Part is one instrumental/vocal line: an identifier plus an ordered
// measure list. Measure order is authoritative; Measure.Number is
// presentational only.
type Part struct {
	ID              string
	Name            string
	Abbreviation    string
	DefaultProgram  int // MusicXML midi-program, 1-128; 0 = unspecified
	DefaultChannel  int // MusicXML midi-channel, 1-16; 0 = unspecified
	Measures        []Measure
}

// StyledText is a titled text block with an optional font/size hint,
// carried for the renderer's header block.
type StyledText struct {
	Text     string
	FontSize float64
}

// PageDefaults holds the page size and margins read from the document's
// defaults. Layout and render use their own fixed margins and do not
// read these values.
type PageDefaults struct {
	Width        float64
	Height       float64
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
}

// Score is the root of the model. At least one Part is expected for a
// renderable score; an empty score is representable and produces a
// sentinel drawing and empty/tempo-only MIDI (see render/ and midiwriter/).
type Score struct {
	Title        string
	Subtitle     string
	Composer     string
	Arranger     string
	TitleStyle   *StyledText
	Version      string
	Software     string
	Page         PageDefaults
	Parts        []Part
}

// IsEmpty reports whether the score has no parts.
func (s *Score) IsEmpty() bool {
	return len(s.Parts) == 0
}
