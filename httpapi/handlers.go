package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"github.com/notalib/scorelib/ingest"
	"github.com/notalib/scorelib/internal/obslog"
	"github.com/notalib/scorelib/midiwriter"
	"github.com/notalib/scorelib/playback"
	"github.com/notalib/scorelib/render"
)

// maxBodyBytes bounds uploaded score documents. Archive extraction is
// already bounded by the archive's own size; this bounds the archive
// itself.
const maxBodyBytes = 32 << 20

func reqID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// readScore pulls the raw document bytes from the request body and the
// format hint from the "ext" query parameter ("musicxml", "xml", "mxl",
// or empty for auto-detection).
func readScore(c *gin.Context) ([]byte, ingest.Format, bool) {
	id := reqID(c)
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		obslog.For(id).Errorf("reading request body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body", "request_id": id})
		return nil, ingest.FormatAuto, false
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body", "request_id": id})
		return nil, ingest.FormatAuto, false
	}
	return data, ingest.Format(c.Query("ext")), true
}

// pageWidth reads the page_width query parameter; 0 or absent means
// the default width. An unparseable value is treated as absent.
func pageWidth(c *gin.Context) float64 {
	s := c.Query("page_width")
	if s == "" {
		return 0
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return w
}

// RenderScore handles POST /v1/render: MusicXML/MXL body in, SVG out.
func RenderScore(c *gin.Context) {
	id := reqID(c)
	data, hint, ok := readScore(c)
	if !ok {
		return
	}
	score, err := ingest.Parse(data, hint)
	if err != nil {
		obslog.For(id).Errorf("parse failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "request_id": id})
		return
	}
	svg := render.Render(score, pageWidth(c))
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

// GenerateMidi handles POST /v1/midi: MusicXML/MXL body in, SMF bytes
// out. The options record rides in the "options" query parameter as a
// JSON blob; absent keys keep their defaults.
func GenerateMidi(c *gin.Context) {
	id := reqID(c)
	data, hint, ok := readScore(c)
	if !ok {
		return
	}
	opts, err := midiwriter.ParseOptions([]byte(c.Query("options")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed options: " + err.Error(), "request_id": id})
		return
	}
	score, err := ingest.Parse(data, hint)
	if err != nil {
		obslog.For(id).Errorf("parse failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "request_id": id})
		return
	}
	midi, err := midiwriter.Build(score, opts)
	if err != nil {
		obslog.For(id).Errorf("midi build failed: %v", err)
		sentry.CaptureException(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate midi", "request_id": id})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=score.mid")
	c.Data(http.StatusOK, "audio/midi", midi)
}

// PlaybackMap handles POST /v1/playback-map: MusicXML/MXL body in, the
// cursor-index JSON record out.
func PlaybackMap(c *gin.Context) {
	id := reqID(c)
	data, hint, ok := readScore(c)
	if !ok {
		return
	}
	score, err := ingest.Parse(data, hint)
	if err != nil {
		obslog.For(id).Errorf("parse failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "request_id": id})
		return
	}
	pm := playback.Generate(score, pageWidth(c))
	body, err := pm.JSON()
	if err != nil {
		obslog.For(id).Errorf("playback map marshal failed: %v", err)
		sentry.CaptureException(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not serialize playback map", "request_id": id})
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}
