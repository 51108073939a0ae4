// Package midiwriter translates melodic content and algorithmically
// inferred harmony into a multi-track binary MIDI file, built on
// gitlab.com/gomidi/midi/v2's smf package: scorelib supplies the
// musical content and tick math, the library supplies the
// variable-length-quantity delta encoding and MThd/MTrk chunk framing.
package midiwriter

import (
	"bytes"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/notalib/scorelib/accompaniment"
	"github.com/notalib/scorelib/model"
	"github.com/notalib/scorelib/timemap"
	"github.com/notalib/scorelib/unroll"
)

type tickEvent struct {
	tick uint32
	seq  int // stable tie-break for events at equal tick, preserving emission order
	msg  midi.Message
}

// trackEvents accumulates (tick, message) pairs and flushes them into an
// smf.Track in non-decreasing tick order, converting absolute ticks to
// the deltas smf.Track.Add expects.
type trackEvents struct {
	name   string
	events []tickEvent
}

func (t *trackEvents) add(tick uint32, msg midi.Message) {
	t.events = append(t.events, tickEvent{tick: tick, seq: len(t.events), msg: msg})
}

func (t *trackEvents) build() smf.Track {
	sort.SliceStable(t.events, func(i, j int) bool { return t.events[i].tick < t.events[j].tick })
	var tr smf.Track
	if t.name != "" {
		tr.Add(0, smf.MetaTrackSequenceName(t.name))
	}
	var last uint32
	for _, e := range t.events {
		delta := uint32(0)
		if e.tick > last {
			delta = e.tick - last
			last = e.tick
		}
		// e.tick < last cannot happen once sorted; the guard above keeps the
		// delta non-negative regardless.
		tr.Add(delta, e.msg)
	}
	tr.Close(0)
	return tr
}

func clampNote(n int) uint8 {
	if n < 0 {
		n = 0
	}
	if n > 127 {
		n = 127
	}
	return uint8(n)
}

func clampVelocity(v int) uint8 {
	if v < 1 {
		v = 1
	}
	if v > 127 {
		v = 127
	}
	return uint8(v)
}

// Build renders a complete SMF format-1 file for score, honoring opts.
// A score with no parts yields a stable, tempo-track-only MIDI file.
func Build(score *model.Score, opts Options) ([]byte, error) {
	if score.IsEmpty() {
		return buildEmpty()
	}

	primary := &score.Parts[0]
	entries := unroll.Unroll(primary)
	tm := timemap.Build(primary, entries)
	ticks := BuildTickIndex(tm)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	s.Add(buildTempoTrack(tm, ticks))

	if opts.IncludeMelody {
		for pi := range score.Parts {
			part := &score.Parts[pi]
			partEntries := remapEntries(entries, part)
			partTM := timemap.Build(part, partEntries)
			partTicks := BuildTickIndex(partTM)
			melodyChannel := melodyChannelFor(part, opts)
			for _, staff := range PartStaves(part) {
				channel := StaffChannel(staff, melodyChannel)
				s.Add(buildMelodyTrack(part, partTM, partTicks, staff, channel, opts.Transpose))
			}
		}
	}

	chordTrack := accompaniment.BuildChordTrack(primary, tm)
	energy := accompaniment.Energy(opts.Energy)
	if energy == "" {
		energy = accompaniment.EnergyMedium
	}

	if opts.IncludeMetronome {
		s.Add(buildMetronomeTrack(tm, ticks))
	}
	if opts.IncludePiano {
		s.Add(buildPatternTrack("piano", ChannelPiano, ProgramPiano, tm, ticks, chordTrack, energy, accompaniment.Piano))
	}
	if opts.IncludeBass {
		s.Add(buildPatternTrack("bass", ChannelBass, ProgramBass, tm, ticks, chordTrack, energy, accompaniment.Bass))
	}
	if opts.IncludeStrings {
		s.Add(buildPatternTrack("strings", ChannelStrings, ProgramStrings, tm, ticks, chordTrack, energy, accompaniment.Strings))
	}
	if opts.IncludeDrums {
		s.Add(buildDrumTrack(tm, ticks, energy))
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildEmpty() ([]byte, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Close(0)
	s.Add(tr)
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// remapEntries reuses the primary part's unrolled play order (repeats and
// jumps apply to the whole score, not one staff) against another part's
// own measure slice, tolerating a part with fewer measures by dropping
// out-of-range entries rather than panicking.
func remapEntries(entries []unroll.Entry, part *model.Part) []unroll.Entry {
	out := make([]unroll.Entry, 0, len(entries))
	for _, e := range entries {
		if e.OriginalIndex >= 0 && e.OriginalIndex < len(part.Measures) {
			out = append(out, e)
		}
	}
	return out
}

// buildTempoTrack emits track 0: a tempo meta-event at the tick of every
// timemap entry whose tempo differs from the running value.
func buildTempoTrack(tm []timemap.Entry, ticks *TickIndex) smf.Track {
	te := &trackEvents{}
	running := -1.0
	for i, e := range tm {
		if e.TempoBPM != running {
			te.add(ticks.TickAt(i, 0), midi.Message(smf.MetaTempo(e.TempoBPM)))
			running = e.TempoBPM
		}
	}
	return te.build()
}

// melodyChannelFor resolves the melody channel for a part: an explicit
// options override wins; otherwise the part's own default channel
// (1-based in MusicXML) applies, avoiding the percussion channel.
func melodyChannelFor(part *model.Part, opts Options) int {
	if opts.MelodyChannel != 0 {
		return opts.MelodyChannel
	}
	if ch := part.DefaultChannel - 1; ch > 0 && ch <= 15 && ch != ChannelDrums {
		return ch
	}
	return 0
}

func buildMelodyTrack(part *model.Part, tm []timemap.Entry, ticks *TickIndex, staff, channel, transpose int) smf.Track {
	te := &trackEvents{name: melodyTrackName(part, staff)}
	events := ExtractMelody(part, tm, staff)
	ch := uint8(channel & 0x0F)
	// MusicXML midi-program is 1-based; 0 means unspecified.
	if part.DefaultProgram >= 1 && part.DefaultProgram <= 128 {
		te.add(0, midi.ProgramChange(ch, uint8(part.DefaultProgram-1)))
	}
	for _, ev := range events {
		pitch := clampNote(ev.Pitch + transpose)
		onTick := ticks.TickAt(ev.OnsetEntryIndex, ev.OnsetOffsetMS)
		offTick := ticks.TickAt(ev.ReleaseEntryIndex, ev.ReleaseOffsetMS)
		te.add(onTick, midi.NoteOn(ch, pitch, 96))
		te.add(offTick, midi.NoteOff(ch, pitch))
	}
	return te.build()
}

func melodyTrackName(part *model.Part, staff int) string {
	name := part.Name
	if name == "" {
		name = part.ID
	}
	if staff > 1 {
		return name + " (staff " + itoa(staff) + ")"
	}
	return name
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func buildPatternTrack(
	name string, channel, program int,
	tm []timemap.Entry, ticks *TickIndex,
	chords []accompaniment.ChordAt, energy accompaniment.Energy,
	gen func(voicing []int, durationMS float64, energy accompaniment.Energy) []accompaniment.Event,
) smf.Track {
	te := &trackEvents{name: name}
	ch := uint8(channel & 0x0F)
	te.add(0, midi.ProgramChange(ch, uint8(program)))
	for i, e := range tm {
		if i >= len(chords) {
			continue
		}
		for _, ev := range gen(chords[i].Voicing, e.DurationMS, energy) {
			onTick := ticks.TickAt(i, ev.OffsetMS)
			offTick := ticks.TickAt(i, ev.OffsetMS+ev.DurationMS)
			pitch := clampNote(ev.Pitch)
			te.add(onTick, midi.NoteOn(ch, pitch, clampVelocity(ev.Velocity)))
			te.add(offTick, midi.NoteOff(ch, pitch))
		}
	}
	return te.build()
}

func buildDrumTrack(tm []timemap.Entry, ticks *TickIndex, energy accompaniment.Energy) smf.Track {
	te := &trackEvents{name: "drums"}
	ch := uint8(ChannelDrums)
	te.add(0, midi.ProgramChange(ch, ProgramDrumKit))
	for i, e := range tm {
		for _, ev := range accompaniment.Drums(e.DurationMS, energy) {
			onTick := ticks.TickAt(i, ev.OffsetMS)
			offTick := ticks.TickAt(i, ev.OffsetMS+ev.DurationMS)
			pitch := clampNote(ev.Pitch)
			te.add(onTick, midi.NoteOn(ch, pitch, clampVelocity(ev.Velocity)))
			te.add(offTick, midi.NoteOff(ch, pitch))
		}
	}
	return te.build()
}

// buildMetronomeTrack emits one click per beat per measure. The first
// measure is checked for pickup status: when its duration is under 95%
// of the second measure's, its beat count derives from its actual
// duration rather than its time signature.
func buildMetronomeTrack(tm []timemap.Entry, ticks *TickIndex) smf.Track {
	te := &trackEvents{name: "metronome"}
	ch := uint8(ChannelMetronome)
	te.add(0, midi.ProgramChange(ch, ProgramWoodblock))
	for i, e := range tm {
		beatDurMS := e.DurationMS / float64(e.Beats)
		beatCount := e.Beats
		if i == 0 && len(tm) > 1 {
			beatCount = accompaniment.PickupBeatCount(int(e.DurationMS), int(tm[1].DurationMS), e.Beats, beatDurMS)
		}
		for _, ev := range accompaniment.Metronome(beatCount, beatDurMS) {
			onTick := ticks.TickAt(i, ev.OffsetMS)
			offTick := ticks.TickAt(i, ev.OffsetMS+ev.DurationMS)
			pitch := clampNote(ev.Pitch)
			te.add(onTick, midi.NoteOn(ch, pitch, clampVelocity(ev.Velocity)))
			te.add(offTick, midi.NoteOff(ch, pitch))
		}
	}
	return te.build()
}
