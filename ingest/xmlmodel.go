// Package ingest drives a DOM-style XML walker (encoding/xml struct-tag
// decoding) to populate a model.Score, and extracts the primary document
// from the compressed .mxl container format by reading its manifest.
//
// The XML ingestion is intentionally lenient: unknown elements are
// ignored by encoding/xml's default behavior, and every field below
// defaults to a conservative zero value handled explicitly in convert.go.
package ingest

import "encoding/xml"

// xmlScorePartwise mirrors a MusicXML score-partwise document. Only the
// subset of elements model.Score needs is modeled; anything else is
// dropped silently by encoding/xml.
type xmlScorePartwise struct {
	XMLName     xml.Name      `xml:"score-partwise"`
	Version     string        `xml:"version,attr"`
	Work        *xmlWork      `xml:"work"`
	MovementTitle string      `xml:"movement-title"`
	Identification *xmlIdentification `xml:"identification"`
	Defaults    *xmlDefaults  `xml:"defaults"`
	PartList    xmlPartList   `xml:"part-list"`
	Parts       []xmlPart     `xml:"part"`
}

type xmlWork struct {
	WorkTitle string `xml:"work-title"`
}

type xmlIdentification struct {
	Creators []xmlCreator `xml:"creator"`
	Encoding *xmlEncoding `xml:"encoding"`
}

type xmlCreator struct {
	Type string `xml:"type,attr"`
	Name string `xml:",chardata"`
}

type xmlEncoding struct {
	Software []string `xml:"software"`
}

type xmlDefaults struct {
	PageLayout *xmlPageLayout `xml:"page-layout"`
}

type xmlPageLayout struct {
	PageHeight float64          `xml:"page-height"`
	PageWidth  float64          `xml:"page-width"`
	Margins    []xmlPageMargins `xml:"page-margins"`
}

type xmlPageMargins struct {
	LeftMargin   float64 `xml:"left-margin"`
	RightMargin  float64 `xml:"right-margin"`
	TopMargin    float64 `xml:"top-margin"`
	BottomMargin float64 `xml:"bottom-margin"`
}

type xmlPartList struct {
	ScoreParts []xmlScorePart `xml:"score-part"`
}

type xmlScorePart struct {
	ID             string           `xml:"id,attr"`
	PartName       string           `xml:"part-name"`
	PartAbbrev     string           `xml:"part-abbreviation"`
	MidiInstrument *xmlMidiInstrument `xml:"midi-instrument"`
}

type xmlMidiInstrument struct {
	MidiChannel int `xml:"midi-channel"`
	MidiProgram int `xml:"midi-program"`
}

type xmlPart struct {
	ID       string       `xml:"id,attr"`
	Measures []xmlMeasure `xml:"measure"`
}

type xmlMeasure struct {
	Number     string         `xml:"number,attr"`
	Implicit   string         `xml:"implicit,attr"`
	Attributes []xmlAttributes `xml:"attributes"`
	Notes      []xmlNote      `xml:"note"`
	Harmonies  []xmlHarmony   `xml:"harmony"`
	Barlines   []xmlBarline   `xml:"barline"`
	Directions []xmlDirection `xml:"direction"`
	Print      []xmlPrint     `xml:"print"`
}

type xmlPrint struct {
	NewSystem string `xml:"new-system,attr"`
	NewPage   string `xml:"new-page,attr"`
}

type xmlAttributes struct {
	Divisions  string       `xml:"divisions"`
	Key        *xmlKey      `xml:"key"`
	Time       *xmlTime     `xml:"time"`
	Clefs      []xmlClef    `xml:"clef"`
	Staves     string       `xml:"staves"`
	Transpose  *xmlTranspose `xml:"transpose"`
}

type xmlKey struct {
	Fifths string `xml:"fifths"`
	Mode   string `xml:"mode"`
}

type xmlTime struct {
	Beats    string `xml:"beats"`
	BeatType string `xml:"beat-type"`
}

type xmlClef struct {
	Number string `xml:"number,attr"`
	Sign   string `xml:"sign"`
	Line   string `xml:"line"`
}

type xmlTranspose struct {
	Chromatic    string `xml:"chromatic"`
	Diatonic     string `xml:"diatonic"`
	OctaveChange string `xml:"octave-change"`
}

type xmlNote struct {
	Grace    *struct{}  `xml:"grace"`
	Chord    *struct{}  `xml:"chord"`
	Rest     *struct{}  `xml:"rest"`
	Pitch    *xmlPitch  `xml:"pitch"`
	Duration string     `xml:"duration"`
	Voice    string     `xml:"voice"`
	Type     string     `xml:"type"`
	Stem     string     `xml:"stem"`
	Dot      []struct{} `xml:"dot"`
	Accidental string   `xml:"accidental"`
	Staff    string     `xml:"staff"`
	Tie      []xmlTie   `xml:"tie"`
	Beams    []xmlBeam  `xml:"beam"`
	Notations *xmlNotations `xml:"notations"`
	Lyrics   []xmlLyric `xml:"lyric"`
}

type xmlPitch struct {
	Step   string `xml:"step"`
	Alter  string `xml:"alter"`
	Octave string `xml:"octave"`
}

type xmlTie struct {
	Type string `xml:"type,attr"`
}

type xmlBeam struct {
	Number string `xml:"number,attr"`
	Type   string `xml:",chardata"`
}

type xmlNotations struct {
	Slurs []xmlSlur `xml:"slur"`
	Tieds []xmlTied `xml:"tied"`
}

type xmlSlur struct {
	Number string `xml:"number,attr"`
	Type   string `xml:"type,attr"`
}

type xmlTied struct {
	Type string `xml:"type,attr"`
}

type xmlLyric struct {
	Number   string `xml:"number,attr"`
	Syllabic string `xml:"syllabic"`
	Text     string `xml:"text"`
}

type xmlHarmony struct {
	Root *xmlHarmonyRoot `xml:"root"`
	Kind xmlHarmonyKind  `xml:"kind"`
	Bass *xmlHarmonyBass `xml:"bass"`
}

type xmlHarmonyRoot struct {
	RootStep  string `xml:"root-step"`
	RootAlter string `xml:"root-alter"`
}

type xmlHarmonyKind struct {
	Text string `xml:",chardata"`
	Value string `xml:"value,attr"`
}

type xmlHarmonyBass struct {
	BassStep  string `xml:"bass-step"`
	BassAlter string `xml:"bass-alter"`
}

type xmlBarline struct {
	Location string      `xml:"location,attr"`
	BarStyle string      `xml:"bar-style"`
	Repeat   *xmlRepeat  `xml:"repeat"`
	Ending   *xmlEnding  `xml:"ending"`
}

type xmlRepeat struct {
	Direction string `xml:"direction,attr"`
}

type xmlEnding struct {
	Number string `xml:"number,attr"`
	Type   string `xml:"type,attr"`
	Text   string `xml:",chardata"`
}

type xmlDirection struct {
	Placement      string          `xml:"placement,attr"`
	DirectionTypes []xmlDirectionType `xml:"direction-type"`
	Sound          *xmlSound       `xml:"sound"`
}

type xmlDirectionType struct {
	Words     []xmlWords   `xml:"words"`
	Metronome *xmlMetronome `xml:"metronome"`
	Segno     *struct{}    `xml:"segno"`
	Coda      *struct{}    `xml:"coda"`
	Rehearsal *xmlWords    `xml:"rehearsal"`
	OctaveShift *xmlOctaveShift `xml:"octave-shift"`
}

type xmlWords struct {
	Text  string `xml:",chardata"`
	Style string `xml:"font-style,attr"`
}

type xmlMetronome struct {
	BeatUnit   string `xml:"beat-unit"`
	BeatUnitDot []struct{} `xml:"beat-unit-dot"`
	PerMinute  string `xml:"per-minute"`
}

type xmlOctaveShift struct {
	Type string `xml:"type,attr"`
	Size string `xml:"size,attr"`
}

type xmlSound struct {
	Tempo string `xml:"tempo,attr"`
	Dacapo string `xml:"dacapo,attr"`
	Dalsegno string `xml:"dalsegno,attr"`
	Fine   string `xml:"fine,attr"`
	Tocoda string `xml:"tocoda,attr"`
}
