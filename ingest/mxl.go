package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// containerXML mirrors META-INF/container.xml's rootfiles manifest.
type containerXML struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath string `xml:"full-path,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

// extractPrimaryDocument reads a .mxl (compressed MusicXML container)
// and returns the bytes of its primary document: the manifest at
// META-INF/container.xml names the first rootfile's full-path; if the
// manifest is absent or unusable, fall back to the first archive entry
// outside META-INF/ whose name ends in .xml or .musicxml (entries
// sorted by name for determinism).
func extractPrimaryDocument(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("ingest: corrupt mxl archive: %w", err)
	}
	byName := map[string]*zip.File{}
	var names []string
	for _, f := range zr.File {
		byName[f.Name] = f
		names = append(names, f.Name)
	}
	sort.Strings(names)

	if cf, ok := byName["META-INF/container.xml"]; ok {
		if b, err := readZipEntry(cf); err == nil {
			var c containerXML
			if err := xml.Unmarshal(b, &c); err == nil && len(c.Rootfiles.Rootfile) > 0 {
				path := c.Rootfiles.Rootfile[0].FullPath
				if target, ok := byName[path]; ok {
					return readZipEntry(target)
				}
			}
		}
	}

	for _, name := range names {
		if strings.HasPrefix(name, "META-INF/") {
			continue
		}
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, ".xml") || strings.HasSuffix(lower, ".musicxml") {
			return readZipEntry(byName[name])
		}
	}
	return nil, fmt.Errorf("ingest: mxl archive has no manifest and no .xml/.musicxml entry")
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
