// Package playback bridges a rendered layout with the unrolled timemap:
// it projects measure/system screen positions and play-order timing into
// one structure a host application can use to drive a playback cursor by
// binary-searching the timemap and linearly interpolating within the
// measure bounding box.
package playback

import (
	"sort"

	jsoniter "github.com/json-iterator/go"

	"github.com/notalib/scorelib/layout"
	"github.com/notalib/scorelib/model"
	"github.com/notalib/scorelib/timemap"
	"github.com/notalib/scorelib/unroll"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BeatX is the JSON-facing projection of one (beat-time, x) pair from a
// measure's beat-x map.
type BeatX struct {
	Beat float64 `json:"beat"`
	X    float64 `json:"x"`
}

// MeasurePosition is one original measure's visual placement.
type MeasurePosition struct {
	MeasureIndex int     `json:"measure_idx"`
	X            float64 `json:"x"`
	Width        float64 `json:"width"`
	SystemIndex  int     `json:"system_idx"`
	BeatXMap     []BeatX `json:"beat_x_map"`
}

// SystemPosition is one system's vertical placement.
type SystemPosition struct {
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
}

// TimemapEntry is the JSON-facing projection of timemap.Entry.
type TimemapEntry struct {
	Index          int     `json:"index"`
	OriginalIndex  int     `json:"original_index"`
	TimestampMS    float64 `json:"timestamp_ms"`
	DurationMS     float64 `json:"duration_ms"`
	TempoBPM       float64 `json:"tempo_bpm"`
}

// Map combines visual positions with timing so a host can drive a
// playback cursor without re-running layout or unrolling itself.
type Map struct {
	Measures []MeasurePosition `json:"measures"`
	Systems  []SystemPosition  `json:"systems"`
	Timemap  []TimemapEntry    `json:"timemap"`
}

// Generate computes the playback map for score at pageWidth, unrolling
// and timing the first part. Multi-part playback is served by the same
// timemap since tempo and time signature are score-wide.
func Generate(score *model.Score, pageWidth float64) *Map {
	sl := layout.Compute(score, pageWidth)

	measures := make([]MeasurePosition, len(sl.Measures))
	for i, m := range sl.Measures {
		beatXMap := make([]BeatX, len(m.BeatXMap))
		for j, bx := range m.BeatXMap {
			beatXMap[j] = BeatX{Beat: bx.Beat, X: bx.X}
		}
		measures[i] = MeasurePosition{
			MeasureIndex: m.OriginalIndex,
			X:            m.X,
			Width:        m.Width,
			SystemIndex:  m.SystemIndex,
			BeatXMap:     beatXMap,
		}
	}
	systems := make([]SystemPosition, len(sl.Systems))
	for i, s := range sl.Systems {
		systems[i] = SystemPosition{Y: s.Y, Height: s.Height}
	}

	out := &Map{Measures: measures, Systems: systems}
	if len(score.Parts) == 0 {
		return out
	}
	part := &score.Parts[0]
	entries := unroll.Unroll(part)
	tmap := timemap.Build(part, entries)
	out.Timemap = make([]TimemapEntry, len(tmap))
	for i, e := range tmap {
		out.Timemap[i] = TimemapEntry{
			Index:         e.UnrolledPosition,
			OriginalIndex: e.OriginalMeasureIndex,
			TimestampMS:   e.StartMS,
			DurationMS:    e.DurationMS,
			TempoBPM:      e.TempoBPM,
		}
	}
	return out
}

// JSON serializes the map as three arrays (measures, systems, timemap)
// with stable field names.
func (m *Map) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// CursorAt returns the SVG x-coordinate of the playback cursor at
// elapsedMS, binary-searching the timemap for the active entry and
// linearly interpolating across its measure's bounding box:
//
//	cursorX = measure.x + (offset / duration) * measure.width
//
// ok is false if the map has no timemap entries or no matching measure
// position (the measure/system positions trail a repeat's first pass
// since layout only ever places each ORIGINAL measure once).
func (m *Map) CursorAt(elapsedMS float64) (x float64, ok bool) {
	if len(m.Timemap) == 0 {
		return 0, false
	}
	i := sort.Search(len(m.Timemap), func(i int) bool {
		return m.Timemap[i].TimestampMS+m.Timemap[i].DurationMS > elapsedMS
	})
	if i >= len(m.Timemap) {
		i = len(m.Timemap) - 1
	}
	entry := m.Timemap[i]
	mp, found := m.measureFor(entry.OriginalIndex)
	if !found {
		return 0, false
	}
	offset := elapsedMS - entry.TimestampMS
	frac := 0.0
	if entry.DurationMS > 0 {
		frac = offset / entry.DurationMS
	}
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return mp.X + frac*mp.Width, true
}

func (m *Map) measureFor(originalIndex int) (MeasurePosition, bool) {
	for _, mp := range m.Measures {
		if mp.MeasureIndex == originalIndex {
			return mp, true
		}
	}
	return MeasurePosition{}, false
}
