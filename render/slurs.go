package render

import (
	"fmt"
	"sort"
)

// openSlur tracks a slur start whose stop note hasn't been seen yet,
// keyed by slur number within a (part, staff) scope. The start y is kept
// relative to the staff's top line so a slur carried across a system
// break re-anchors correctly against the new system's staff position.
type openSlur struct {
	startX  float64
	relY    float64 // start y relative to the staff top line
	stemsUp bool
}

// slurTracker accumulates open slurs across the notes of one (part,
// staff) as they're rendered in score order, surviving measure and
// system boundaries.
type slurTracker struct {
	open map[int]openSlur
}

func newSlurTracker() *slurTracker { return &slurTracker{open: map[int]openSlur{}} }

// observe processes one note's slur events against its rendered
// placement, drawing the filled curve whenever a stop closes an open
// start.
func (t *slurTracker) observe(b *builder, nr noteRender, staffY float64) {
	for _, ev := range nr.note.Slurs {
		switch ev.Type {
		case "start":
			t.open[ev.Number] = openSlur{startX: nr.x, relY: nr.headY - staffY, stemsUp: nr.stemUp}
		case "stop":
			if start, ok := t.open[ev.Number]; ok {
				drawSlur(b, start.startX, staffY+start.relY, nr.x, nr.headY, start.stemsUp)
				delete(t.open, ev.Number)
			}
		}
	}
}

// breakAtSystemEnd draws the visible half of every still-open slur out to
// the system's right edge, then re-anchors each at continuationX (the
// next system's content start) with its y offset preserved relative to
// the staff, so the remainder draws when the stop note appears.
// Slur numbers are sorted first so the emitted element order is stable
// across runs.
func (t *slurTracker) breakAtSystemEnd(b *builder, rightEdge, staffY, continuationX float64) {
	keys := make([]int, 0, len(t.open))
	for num := range t.open {
		keys = append(keys, num)
	}
	sort.Ints(keys)
	for _, num := range keys {
		s := t.open[num]
		endY := staffY + s.relY
		if s.stemsUp {
			endY -= 4
		} else {
			endY += 4
		}
		drawSlur(b, s.startX, staffY+s.relY, rightEdge, endY, s.stemsUp)
		s.startX = continuationX
		t.open[num] = s
	}
}

// drawSlur draws a filled lens shape between two noteheads: an outer
// arc and an inner arc offset toward the stems, a double-Bezier closed
// path.
func drawSlur(b *builder, x1, y1, x2, y2 float64, stemsUp bool) {
	dx := x2 - x1
	midX := (x1 + x2) / 2
	sag := dx * 0.18
	if sag < 8 {
		sag = 8
	}
	dir := 1.0
	if stemsUp {
		dir = -1.0
	}
	outerY := (y1+y2)/2 + dir*sag
	innerY := (y1+y2)/2 + dir*(sag-3)

	d := fmt.Sprintf("M%.1f,%.1f Q%.1f,%.1f %.1f,%.1f Q%.1f,%.1f %.1f,%.1f Z",
		x1, y1, midX, outerY, x2, y2, midX, innerY, x1, y1)
	b.path(d, colorSlur, "none", 0)
}
