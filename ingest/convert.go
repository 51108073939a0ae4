package ingest

import (
	"strconv"
	"strings"

	"github.com/notalib/scorelib/model"
)

// parseIntDefault parses s as an int, returning def on any failure:
// unparseable number attributes fall back to a documented default
// rather than failing the whole parse.
func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func parseFloatDefault(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func toScore(x *xmlScorePartwise) *model.Score {
	s := &model.Score{
		Version: x.Version,
	}
	if x.Work != nil {
		s.Title = x.Work.WorkTitle
	}
	if s.Title == "" {
		s.Title = x.MovementTitle
	}
	if x.Identification != nil {
		for _, c := range x.Identification.Creators {
			switch c.Type {
			case "composer":
				s.Composer = c.Name
			case "arranger":
				s.Arranger = c.Name
			}
		}
		if x.Identification.Encoding != nil && len(x.Identification.Encoding.Software) > 0 {
			s.Software = x.Identification.Encoding.Software[0]
		}
	}
	if x.Defaults != nil && x.Defaults.PageLayout != nil {
		pl := x.Defaults.PageLayout
		s.Page.Width = pl.PageWidth
		s.Page.Height = pl.PageHeight
		if len(pl.Margins) > 0 {
			m := pl.Margins[0]
			s.Page.MarginLeft = m.LeftMargin
			s.Page.MarginRight = m.RightMargin
			s.Page.MarginTop = m.TopMargin
			s.Page.MarginBottom = m.BottomMargin
		}
	}

	// score-part metadata, keyed by id, merged onto the matching <part>.
	partMeta := map[string]xmlScorePart{}
	for _, sp := range x.PartList.ScoreParts {
		partMeta[sp.ID] = sp
	}

	for _, xp := range x.Parts {
		p := model.Part{ID: xp.ID}
		if meta, ok := partMeta[xp.ID]; ok {
			p.Name = meta.PartName
			p.Abbreviation = meta.PartAbbrev
			if meta.MidiInstrument != nil {
				p.DefaultProgram = meta.MidiInstrument.MidiProgram
				p.DefaultChannel = meta.MidiInstrument.MidiChannel
			}
		}
		for _, xm := range xp.Measures {
			p.Measures = append(p.Measures, toMeasure(xm))
		}
		s.Parts = append(s.Parts, p)
	}
	return s
}

func toMeasure(xm xmlMeasure) model.Measure {
	m := model.Measure{
		Number:   xm.Number,
		Implicit: xm.Implicit == "yes",
	}
	for _, pr := range xm.Print {
		if pr.NewSystem == "yes" {
			m.NewSystem = true
		}
		if pr.NewPage == "yes" {
			m.NewPage = true
		}
	}
	if len(xm.Attributes) > 0 {
		m.Attributes = toAttributes(xm.Attributes[len(xm.Attributes)-1])
	}
	for _, xn := range xm.Notes {
		m.Notes = append(m.Notes, toNote(xn))
	}
	for _, xh := range xm.Harmonies {
		m.Harmonies = append(m.Harmonies, toHarmony(xh))
	}
	for _, xb := range xm.Barlines {
		m.Barlines = append(m.Barlines, toBarline(xb))
	}
	for _, xd := range xm.Directions {
		m.Directions = append(m.Directions, toDirection(xd))
	}
	return m
}

func toAttributes(xa xmlAttributes) *model.Attributes {
	a := &model.Attributes{
		Divisions: parseIntDefault(xa.Divisions, 1), // missing divisions -> 1 (spec §7)
	}
	if a.Divisions <= 0 {
		a.Divisions = 1
	}
	if xa.Key != nil {
		a.Key = &model.Key{
			Fifths: parseIntDefault(xa.Key.Fifths, 0),
			Mode:   xa.Key.Mode,
		}
	}
	if xa.Time != nil {
		a.Time = &model.Time{
			Beats:    parseIntDefault(xa.Time.Beats, 4),
			BeatType: parseIntDefault(xa.Time.BeatType, 4),
		}
	}
	if len(xa.Clefs) > 0 {
		a.Clefs = map[int]model.Clef{}
		for _, c := range xa.Clefs {
			n := parseIntDefault(c.Number, 1)
			sign := c.Sign
			if sign == "" {
				sign = "G" // missing clef -> treble (spec §7)
			}
			line := parseIntDefault(c.Line, 2)
			a.Clefs[n] = model.Clef{Sign: sign, Line: line}
		}
	}
	if xa.Transpose != nil {
		a.Transpose = &model.Transpose{
			Chromatic:    parseIntDefault(xa.Transpose.Chromatic, 0),
			Diatonic:     parseIntDefault(xa.Transpose.Diatonic, 0),
			OctaveChange: parseIntDefault(xa.Transpose.OctaveChange, 0),
		}
	}
	if xa.Staves != "" {
		a.StaffCount = parseIntDefault(xa.Staves, 1)
	}
	return a
}

var noteTypeSet = map[string]model.NoteType{
	"whole": model.NoteWhole, "half": model.NoteHalf, "quarter": model.NoteQuarter,
	"eighth": model.NoteEighth, "16th": model.Note16th, "32nd": model.Note32nd, "64th": model.Note64th,
}

func toNote(xn xmlNote) model.Note {
	n := model.Note{
		Rest:     xn.Rest != nil,
		Grace:    xn.Grace != nil,
		Chord:    xn.Chord != nil,
		Duration: parseIntDefault(xn.Duration, 0),
		Voice:    parseIntDefault(xn.Voice, 0),
		Staff:    parseIntDefault(xn.Staff, 0),
		Accidental: xn.Accidental,
	}
	if xn.Pitch != nil {
		n.Step = xn.Pitch.Step
		n.Alter = parseIntDefault(xn.Pitch.Alter, 0)
		n.Octave = parseIntDefault(xn.Pitch.Octave, 4)
	}
	if t, ok := noteTypeSet[xn.Type]; ok {
		n.Type = t
	}
	switch xn.Stem {
	case "up":
		n.Stem = model.StemUp
	case "down":
		n.Stem = model.StemDown
	}
	n.Dot = len(xn.Dot) > 0
	for _, t := range xn.Tie {
		switch t.Type {
		case "start":
			n.TieStart = true
		case "stop":
			n.TieStop = true
		}
	}
	for _, b := range xn.Beams {
		n.Beams = append(n.Beams, model.BeamEvent{
			Level: parseIntDefault(b.Number, 1),
			Type:  b.Type,
		})
	}
	if xn.Notations != nil {
		for _, sl := range xn.Notations.Slurs {
			n.Slurs = append(n.Slurs, model.SlurEvent{
				Number: parseIntDefault(sl.Number, 1),
				Type:   sl.Type,
			})
		}
		// <tied> notations mirror <tie> but are presentational; if a tie
		// element was absent but a tied notation is present, honor it too.
		for _, td := range xn.Notations.Tieds {
			switch td.Type {
			case "start":
				n.TieStart = true
			case "stop":
				n.TieStop = true
			}
		}
	}
	for _, ly := range xn.Lyrics {
		syl := model.SyllableSingle
		switch ly.Syllabic {
		case "begin":
			syl = model.SyllableBegin
		case "middle":
			syl = model.SyllableMiddle
		case "end":
			syl = model.SyllableEnd
		}
		n.Lyrics = append(n.Lyrics, model.Lyric{
			Verse:    parseIntDefault(ly.Number, 1),
			Text:     ly.Text,
			Syllabic: syl,
		})
	}
	return n
}

var kindToQuality = map[string]model.ChordQuality{
	"major": model.QualityMajor, "minor": model.QualityMinor,
	"dominant": model.QualityDominant7, "dominant-seventh": model.QualityDominant7,
	"major-seventh": model.QualityMajor7, "minor-seventh": model.QualityMinor7,
	"diminished": model.QualityDiminished, "half-diminished": model.QualityHalfDim,
	"augmented": model.QualityAugmented,
}

func toHarmony(xh xmlHarmony) model.Harmony {
	h := model.Harmony{Quality: model.QualityMajor} // unknown kind -> major (spec §7)
	if xh.Root != nil {
		h.RootStep = xh.Root.RootStep
		h.RootAlter = parseIntDefault(xh.Root.RootAlter, 0)
	}
	kindKey := xh.Kind.Value
	if kindKey == "" {
		kindKey = strings.ToLower(strings.TrimSpace(xh.Kind.Text))
	}
	if q, ok := kindToQuality[strings.ToLower(kindKey)]; ok {
		h.Quality = q
	}
	if xh.Bass != nil {
		h.HasBass = true
		h.BassStep = xh.Bass.BassStep
		h.BassAlter = parseIntDefault(xh.Bass.BassAlter, 0)
	}
	return h
}

func toBarline(xb xmlBarline) model.Barline {
	b := model.Barline{Style: xb.BarStyle}
	switch xb.Location {
	case "left":
		b.Location = model.BarlineLeft
	case "middle":
		b.Location = model.BarlineMiddle
	default:
		b.Location = model.BarlineRight
	}
	if xb.Repeat != nil {
		switch xb.Repeat.Direction {
		case "forward":
			b.Repeat = model.RepeatForward
		case "backward":
			b.Repeat = model.RepeatBackward
		}
	}
	if xb.Ending != nil {
		b.Ending = &model.Ending{
			Numbers: xb.Ending.Number,
			Type:    xb.Ending.Type,
		}
		b.Type = xb.Ending.Type
	}
	return b
}

func toDirection(xd xmlDirection) model.Direction {
	d := model.Direction{}
	switch xd.Placement {
	case "below":
		d.Placement = model.PlacementBelow
	default:
		d.Placement = model.PlacementAbove
	}
	for _, dt := range xd.DirectionTypes {
		for _, w := range dt.Words {
			if d.Words == "" {
				d.Words = w.Text
				d.WordsStyle = w.Style
			}
			applyWordsNavigation(&d, w.Text)
		}
		if dt.Metronome != nil {
			beatUnit := model.NoteQuarter
			if t, ok := noteTypeSet[dt.Metronome.BeatUnit]; ok {
				beatUnit = t
			}
			d.Metronome = &model.Metronome{
				BeatUnit:  beatUnit,
				PerMinute: parseFloatDefault(dt.Metronome.PerMinute, 120),
				Dotted:    len(dt.Metronome.BeatUnitDot) > 0,
			}
		}
		if dt.Segno != nil {
			d.Segno = true
		}
		if dt.Coda != nil {
			d.Coda = true
		}
		if dt.Rehearsal != nil {
			d.Rehearsal = dt.Rehearsal.Text
		}
		if dt.OctaveShift != nil {
			os := &model.OctaveShift{Size: parseIntDefault(dt.OctaveShift.Size, 8)}
			switch dt.OctaveShift.Type {
			case "up":
				os.Type = model.OctaveShiftUp
			case "down":
				os.Type = model.OctaveShiftDown
			case "stop":
				os.Type = model.OctaveShiftStop
			}
			d.OctaveShift = os
		}
	}
	if xd.Sound != nil {
		d.Tempo = parseFloatDefault(xd.Sound.Tempo, 0)
		if xd.Sound.Dacapo == "yes" {
			d.DaCapo = true
		}
		if xd.Sound.Dalsegno != "" {
			d.DalSegno = true
		}
		if xd.Sound.Fine == "yes" {
			d.Fine = true
		}
		if xd.Sound.Tocoda != "" {
			d.ToCoda = true
		}
	}
	return d
}

// applyWordsNavigation recognizes navigation markers spelled out as
// display words ("D.C. al Fine", "Fine", "To Coda") when no explicit
// <sound> attribute carries the same information, matching how real
// scores typically encode navigation (words for display, sound for
// playback — but not every exporter emits both).
func applyWordsNavigation(d *model.Direction, text string) {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(lower, "fine") && !strings.Contains(lower, "al fine"):
		d.Fine = true
	case strings.Contains(lower, "d.c.") || strings.Contains(lower, "da capo"):
		d.DaCapo = true
	case strings.Contains(lower, "d.s.") || strings.Contains(lower, "dal segno"):
		d.DalSegno = true
	case strings.Contains(lower, "to coda"):
		d.ToCoda = true
	}
}
