package render

import "github.com/notalib/scorelib/model"

// drawBarline draws one barline at x spanning [topY, bottomY] (a single
// staff, or a whole grand-staff system when bottomY extends past it),
// including repeat dots and an open volta bracket.
func drawBarline(b *builder, bar *model.Barline, x, topY, bottomY float64) {
	style := "regular"
	if bar != nil {
		style = bar.Style
	}
	switch {
	case bar != nil && bar.Repeat == model.RepeatBackward:
		drawRepeatDots(b, x-10, topY, bottomY)
		b.line(x-6, topY, x-6, bottomY, colorBarline, barlineWidth)
		b.line(x, topY, x, bottomY, colorBarline, 2.4)
	case bar != nil && bar.Repeat == model.RepeatForward:
		b.line(x, topY, x, bottomY, colorBarline, 2.4)
		b.line(x+6, topY, x+6, bottomY, colorBarline, barlineWidth)
		drawRepeatDots(b, x+10, topY, bottomY)
	case style == "light-heavy" || style == "final":
		b.line(x-4, topY, x-4, bottomY, colorBarline, barlineWidth)
		b.line(x, topY, x, bottomY, colorBarline, 2.4)
	case style == "heavy-light":
		b.line(x, topY, x, bottomY, colorBarline, 2.4)
		b.line(x+4, topY, x+4, bottomY, colorBarline, barlineWidth)
	default:
		b.line(x, topY, x, bottomY, colorBarline, barlineWidth)
	}
}

func drawRepeatDots(b *builder, x, topY, bottomY float64) {
	mid := (topY + bottomY) / 2
	b.circle(x, mid-staffLineSpace*0.6, 1.6, colorBarline)
	b.circle(x, mid+staffLineSpace*0.6, 1.6, colorBarline)
}

// drawVolta draws an open-bracket ending above the top staff of a system,
// labeled with its ending numbers, open at the right unless the ending
// is itself stopping.
func drawVolta(b *builder, ending *model.Ending, x1, x2, y float64) {
	if ending == nil {
		return
	}
	b.line(x1, y, x1, y+8, colorBarline, 1)
	b.line(x1, y, x2, y, colorBarline, 1)
	if ending.Type == "stop" || ending.Type == "discontinue" {
		b.line(x2, y, x2, y+8, colorBarline, 1)
	}
	b.text(x1+4, y-4, ending.Numbers, 11, "normal", colorBarline, "start")
}
