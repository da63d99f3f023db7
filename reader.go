package pptxjson

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// maxZipEntrySize is the default maximum size of a single extracted part.
// This guards against zip bombs; 50 MB is generous for any legitimate part.
const maxZipEntrySize = 50 << 20

// maxZipTotalSize is the maximum size of a package accepted by ReadFrom.
const maxZipTotalSize = 1 << 30

// maxZipEntries is the maximum number of files allowed in a package.
const maxZipEntries = 10000

// Relationship types used while walking a package.
const (
	relSlide       = "/slide"
	relSlideLayout = "/slideLayout"
	relSlideMaster = "/slideMaster"
	relTheme       = "/theme"
	relNotesSlide  = "/notesSlide"
	relTableStyles = "/tableStyles"
	relDiagramData = "/diagramData"
	relDiagramDraw = "/diagramDrawing"
)

// Relationship is one entry of a part's relationship map. Internal targets
// are resolved to absolute package paths ("ppt/media/image1.png").
type Relationship struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Target   string `json:"target"`
	External bool   `json:"external,omitempty"`
}

// Relationships maps relationship ids to their entries.
type Relationships map[string]Relationship

// firstOfType returns the first relationship whose type ends with suffix,
// by relationship id.
func (rels Relationships) firstOfType(suffix string) (Relationship, bool) {
	list := rels.ofType(suffix)
	if len(list) == 0 {
		return Relationship{}, false
	}
	return list[0], true
}

// ofType returns every relationship whose type ends with suffix, sorted by id.
func (rels Relationships) ofType(suffix string) []Relationship {
	var out []Relationship
	for _, rel := range rels {
		if strings.HasSuffix(rel.Type, suffix) {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type xmlRelForRead struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type xmlRelsForRead struct {
	XMLName       xml.Name        `xml:"Relationships"`
	Relationships []xmlRelForRead `xml:"Relationship"`
}

// relsPath returns the relationship part of a part:
// ppt/slides/slide1.xml -> ppt/slides/_rels/slide1.xml.rels.
func relsPath(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// resolveTarget resolves a relationship target against the part that
// declares it. Absolute targets are package-rooted.
func resolveTarget(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Join(path.Dir(base), target), "/")
}

// partReader reads and decodes parts of one package. Decoded parts are
// cached; concurrent requests for the same part share one decode.
type partReader struct {
	files   map[string]*zip.File
	maxSize int64

	mu    sync.Mutex
	cache map[string]*Node
	group singleflight.Group
}

func newPartReader(zr *zip.Reader, maxSize int64) (*partReader, error) {
	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("%w (%d > %d)", ErrTooManyParts, len(zr.File), maxZipEntries)
	}
	if maxSize <= 0 {
		maxSize = maxZipEntrySize
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[strings.TrimPrefix(f.Name, "/")] = f
	}
	return &partReader{files: files, maxSize: maxSize, cache: map[string]*Node{}}, nil
}

// has reports whether the package holds the named part.
func (pr *partReader) has(name string) bool {
	_, ok := pr.files[name]
	return ok
}

// names returns all part names.
func (pr *partReader) names() []string {
	out := make([]string, 0, len(pr.files))
	for name := range pr.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// read returns the raw bytes of a part.
func (pr *partReader) read(name string) ([]byte, error) {
	f, ok := pr.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found in zip: %s", name)
	}
	if f.UncompressedSize64 > uint64(pr.maxSize) {
		return nil, fmt.Errorf("%s: %w (%d bytes)", name, ErrPartTooLarge, pr.maxSize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in zip: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, pr.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from zip: %w", name, err)
	}
	if int64(len(data)) > pr.maxSize {
		return nil, fmt.Errorf("%s: %w", name, ErrPartTooLarge)
	}
	return data, nil
}

// node returns the decoded tree of a part.
func (pr *partReader) node(name string) (*Node, error) {
	pr.mu.Lock()
	if n, ok := pr.cache[name]; ok {
		pr.mu.Unlock()
		return n, nil
	}
	pr.mu.Unlock()

	v, err, _ := pr.group.Do(name, func() (any, error) {
		n, err := pr.decode(name, nil)
		if err != nil {
			return nil, err
		}
		pr.mu.Lock()
		pr.cache[name] = n
		pr.mu.Unlock()
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Node), nil
}

// decode reads and decodes a part without caching it.
func (pr *partReader) decode(name string, rename map[string]string) (*Node, error) {
	data, err := pr.read(name)
	if err != nil {
		return nil, err
	}
	n, err := parseXML(data, rename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

// rels reads the relationship map of a part. A part without relationships
// has an empty map.
func (pr *partReader) rels(part string) (Relationships, error) {
	out := Relationships{}
	name := relsPath(part)
	if !pr.has(name) {
		return out, nil
	}
	data, err := pr.read(name)
	if err != nil {
		return nil, err
	}
	var parsed xmlRelsForRead
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse relationships %s: %w", name, err)
	}
	for _, rel := range parsed.Relationships {
		r := Relationship{ID: rel.ID, Type: rel.Type, Target: rel.Target}
		if strings.EqualFold(rel.TargetMode, "External") {
			r.External = true
		} else {
			r.Target = resolveTarget(part, rel.Target)
		}
		out[rel.ID] = r
	}
	return out, nil
}
