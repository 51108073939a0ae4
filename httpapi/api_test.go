package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="4.0">
  <work><work-title>API Test</work-title></work>
  <part-list>
    <score-part id="P1"><part-name>Voice</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <divisions>4</divisions>
        <time><beats>4</beats><beat-type>4</beat-type></time>
        <clef><sign>G</sign><line>2</line></clef>
      </attributes>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>4</duration><type>quarter</type></note>
      <note><pitch><step>D</step><octave>4</octave></pitch><duration>4</duration><type>quarter</type></note>
      <note><pitch><step>E</step><octave>4</octave></pitch><duration>4</duration><type>quarter</type></note>
      <note><pitch><step>F</step><octave>4</octave></pitch><duration>4</duration><type>quarter</type></note>
    </measure>
  </part>
</score-partwise>`

func newRouter() *gin.Engine {
	return NewRouter(Config{CORSOrigins: []string{"*"}})
}

func post(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest("POST", path, bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRenderEndpoint(t *testing.T) {
	w := post(t, newRouter(), "/v1/render", sampleXML)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "<svg"))
	assert.Contains(t, w.Body.String(), "API Test")
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRenderEndpointPageWidth(t *testing.T) {
	wide := post(t, newRouter(), "/v1/render", sampleXML)
	narrow := post(t, newRouter(), "/v1/render?page_width=390", sampleXML)
	require.Equal(t, http.StatusOK, narrow.Code)
	assert.NotEqual(t, wide.Body.String(), narrow.Body.String())
	assert.Contains(t, narrow.Body.String(), `viewBox="0 0 390`)
}

func TestRenderEndpointRejectsEmptyBody(t *testing.T) {
	w := post(t, newRouter(), "/v1/render", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenderEndpointRejectsGarbage(t *testing.T) {
	w := post(t, newRouter(), "/v1/render", "this is not a score")
	require.Equal(t, http.StatusBadRequest, w.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Contains(t, payload, "error")
	assert.Contains(t, payload, "request_id")
}

func TestMidiEndpoint(t *testing.T) {
	w := post(t, newRouter(), "/v1/midi", sampleXML)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("MThd")))
}

func TestMidiEndpointOptions(t *testing.T) {
	base := post(t, newRouter(), "/v1/midi", sampleXML)
	withPiano := post(t, newRouter(), `/v1/midi?options={"include_piano":true}`, sampleXML)
	require.Equal(t, http.StatusOK, withPiano.Code)
	assert.Greater(t, withPiano.Body.Len(), base.Body.Len())
}

func TestMidiEndpointRejectsMalformedOptions(t *testing.T) {
	w := post(t, newRouter(), `/v1/midi?options={oops`, sampleXML)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaybackMapEndpoint(t *testing.T) {
	w := post(t, newRouter(), "/v1/playback-map", sampleXML)
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Measures []map[string]any `json:"measures"`
		Systems  []map[string]any `json:"systems"`
		Timemap  []map[string]any `json:"timemap"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Len(t, payload.Measures, 1)
	assert.NotEmpty(t, payload.Systems)
	assert.Len(t, payload.Timemap, 1)
}

func TestRequestIDEchoed(t *testing.T) {
	r := newRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/render", bytes.NewReader([]byte(sampleXML)))
	req.Header.Set("X-Request-Id", "fixed-id-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id-123", w.Header().Get("X-Request-Id"))
}
