package render

import (
	"fmt"
	"math"
	"strings"
)

// builder accumulates SVG element strings and assembles them into one
// document.
type builder struct {
	elements []string
	width    float64
	height   float64
}

func newBuilder(width, height float64) *builder {
	return &builder{width: width, height: height}
}

func (b *builder) build() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %g %g" width="%g" height="%g" style="font-family: 'Georgia', 'Times New Roman', serif;">`, b.width, b.height, b.width, b.height)
	sb.WriteByte('\n')
	for _, el := range b.elements {
		sb.WriteString("  ")
		sb.WriteString(el)
		sb.WriteByte('\n')
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (b *builder) add(el string) { b.elements = append(b.elements, el) }

func (b *builder) line(x1, y1, x2, y2 float64, color string, width float64) {
	b.add(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f" stroke-linecap="round"/>`, x1, y1, x2, y2, color, width))
}

func (b *builder) rect(x, y, w, h float64, fill string) {
	b.add(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`, x, y, w, h, fill))
}

func (b *builder) circle(cx, cy, r float64, fill string) {
	b.add(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`, cx, cy, r, fill))
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func (b *builder) text(x, y float64, content string, size float64, weight, fill, anchor string) {
	b.add(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%.0f" font-weight="%s" fill="%s" text-anchor="%s">%s</text>`,
		x, y, size, weight, fill, anchor, escapeText(content)))
}

func (b *builder) chordText(x, y float64, content string, size float64, fill string) {
	b.add(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="Times New Roman, serif" font-size="%.0f" font-weight="normal" fill="%s" text-anchor="start">%s</text>`,
		x, y, size, fill, escapeText(content)))
}

func (b *builder) path(d, fill, stroke string, strokeWidth float64) {
	b.add(fmt.Sprintf(`<path d="%s" fill="%s" stroke="%s" stroke-width="%.1f" stroke-linecap="round"/>`, d, fill, stroke, strokeWidth))
}

// notehead draws a rotated ellipse, filled for anything shorter than a
// half note and hollow for whole/half notes.
func (b *builder) notehead(cx, cy float64, filled bool) {
	if filled {
		b.add(fmt.Sprintf(`<ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" stroke="none" transform="rotate(-15,%.1f,%.1f)"/>`,
			cx, cy, noteheadRX, noteheadRY, colorNote, cx, cy))
		return
	}
	const sw = 2.0
	b.add(fmt.Sprintf(`<ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="none" stroke="%s" stroke-width="%.1f" transform="rotate(-15,%.1f,%.1f)"/>`,
		cx, cy, noteheadRX-sw/2, noteheadRY-sw/2, colorNote, sw, cx, cy))
}

// beamLine draws a filled quadrilateral between two stem-end points at
// the given thickness, the beam's own perpendicular-offset rectangle.
func (b *builder) beamLine(x1, y1, x2, y2, thickness float64) {
	half := thickness / 2
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		length = 0.1
	}
	nx, ny := -dy/length*half, dx/length*half
	d := fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f L%.1f,%.1f L%.1f,%.1f Z",
		x1+nx, y1+ny, x2+nx, y2+ny, x2-nx, y2-ny, x1-nx, y1-ny)
	b.add(fmt.Sprintf(`<path d="%s" fill="%s"/>`, d, colorNote))
}

// glyphPath emits pre-digitized glyph outline data verbatim, translated
// and scaled to (x, y) — the renderer never re-interprets path content.
func (b *builder) glyphPath(outline string, x, y, scale float64) {
	b.add(fmt.Sprintf(`<g transform="translate(%.2f,%.2f) scale(%g)"><path d="%s" fill="%s"/></g>`, x, y, scale, strings.TrimSpace(outline), colorNote))
}

// emptyDoc is the sentinel drawing for a score with no parts.
func emptyDoc(message string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400 100"><text x="200" y="50" text-anchor="middle" font-size="14" fill="gray">%s</text></svg>`, escapeText(message))
}
