package ingest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/notalib/scorelib/model"
)

// Format is a format hint for Parse. Without a hint, Parse auto-detects.
type Format string

const (
	FormatAuto     Format = ""
	FormatMusicXML Format = "musicxml"
	FormatXML      Format = "xml"
	FormatMXL      Format = "mxl"
)

// Parse ingests raw bytes — either uncompressed MusicXML or a compressed
// .mxl container — and returns a populated model.Score.
//
// Input-corrupt and structurally-unsupported failures (malformed XML,
// malformed archive, root element other than score-partwise) are
// top-level failures with no partial output. Everything else is locally
// recoverable and absorbed with a documented default.
func Parse(data []byte, hint Format) (*model.Score, error) {
	xmlBytes, err := resolveXML(data, hint)
	if err != nil {
		return nil, err
	}

	var root xmlScorePartwise
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	dec.Strict = true
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("ingest: malformed MusicXML: %w", err)
	}
	if root.XMLName.Local != "score-partwise" {
		return nil, fmt.Errorf("ingest: unsupported root element %q (only score-partwise is supported)", root.XMLName.Local)
	}
	return toScore(&root), nil
}

func resolveXML(data []byte, hint Format) ([]byte, error) {
	switch hint {
	case FormatMusicXML, FormatXML:
		return data, nil
	case FormatMXL:
		return extractPrimaryDocument(data)
	}
	if looksLikeXML(data) {
		return data, nil
	}
	return extractPrimaryDocument(data)
}

// looksLikeXML reports whether the leading non-whitespace is "<?xml"
// or "<", the auto-detection rule for uncompressed input.
func looksLikeXML(data []byte) bool {
	trimmed := bytes.TrimLeftFunc(data, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	s := strings.TrimSpace(string(trimmed[:min(len(trimmed), 16)]))
	return strings.HasPrefix(s, "<?xml") || strings.HasPrefix(s, "<")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
