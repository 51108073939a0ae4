// Package main is the C-ABI host surface, built with
// -buildmode=c-shared (or c-archive) for mobile hosts. Five entry
// points plus two paired free functions; the library allocates, the
// host frees through free_string/free_midi. Every byte-buffer return
// carries an explicit length; text returns are null-terminated. A null
// return signals failure with no partial output.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/notalib/scorelib/ingest"
	"github.com/notalib/scorelib/midiwriter"
	"github.com/notalib/scorelib/playback"
	"github.com/notalib/scorelib/render"
)

func goFormat(ext *C.char) ingest.Format {
	if ext == nil {
		return ingest.FormatAuto
	}
	return ingest.Format(C.GoString(ext))
}

func goBytes(data *C.uchar, length C.int) []byte {
	if data == nil || length <= 0 {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(data), length)
}

func renderToC(data []byte, hint ingest.Format, pageWidth float64) *C.char {
	score, err := ingest.Parse(data, hint)
	if err != nil {
		return nil
	}
	return C.CString(render.Render(score, pageWidth))
}

func midiToC(data []byte, hint ingest.Format, optionsJSON *C.char, outLen *C.int) *C.uchar {
	if outLen == nil {
		return nil
	}
	var optsRaw []byte
	if optionsJSON != nil {
		optsRaw = []byte(C.GoString(optionsJSON))
	}
	opts, err := midiwriter.ParseOptions(optsRaw)
	if err != nil {
		return nil
	}
	score, err := ingest.Parse(data, hint)
	if err != nil {
		return nil
	}
	midi, err := midiwriter.Build(score, opts)
	if err != nil {
		return nil
	}
	*outLen = C.int(len(midi))
	return (*C.uchar)(C.CBytes(midi))
}

//export render_file
func render_file(path *C.char, pageWidth C.double) *C.char {
	if path == nil {
		return nil
	}
	data, err := os.ReadFile(C.GoString(path))
	if err != nil {
		return nil
	}
	return renderToC(data, ingest.FormatAuto, float64(pageWidth))
}

//export render_bytes
func render_bytes(data *C.uchar, length C.int, ext *C.char, pageWidth C.double) *C.char {
	b := goBytes(data, length)
	if b == nil {
		return nil
	}
	return renderToC(b, goFormat(ext), float64(pageWidth))
}

//export generate_midi
func generate_midi(path *C.char, optionsJSON *C.char, outLen *C.int) *C.uchar {
	if path == nil {
		return nil
	}
	data, err := os.ReadFile(C.GoString(path))
	if err != nil {
		return nil
	}
	return midiToC(data, ingest.FormatAuto, optionsJSON, outLen)
}

//export generate_midi_from_bytes
func generate_midi_from_bytes(data *C.uchar, length C.int, ext *C.char, optionsJSON *C.char, outLen *C.int) *C.uchar {
	b := goBytes(data, length)
	if b == nil {
		return nil
	}
	return midiToC(b, goFormat(ext), optionsJSON, outLen)
}

//export playback_map
func playback_map(data *C.uchar, length C.int, ext *C.char, pageWidth C.double) *C.char {
	b := goBytes(data, length)
	if b == nil {
		return nil
	}
	score, err := ingest.Parse(b, goFormat(ext))
	if err != nil {
		return nil
	}
	pm := playback.Generate(score, float64(pageWidth))
	body, err := pm.JSON()
	if err != nil {
		return nil
	}
	return C.CString(string(body))
}

//export free_string
func free_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

//export free_midi
func free_midi(p *C.uchar, length C.int) {
	_ = length
	if p != nil {
		C.free(unsafe.Pointer(p))
	}
}

func main() {}
