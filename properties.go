package pptxjson

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const corePropertiesPart = "docProps/core.xml"

// DocumentProperties are the core properties of a package.
type DocumentProperties struct {
	Title          string    `json:"title,omitempty"`
	Subject        string    `json:"subject,omitempty"`
	Creator        string    `json:"creator,omitempty"`
	Keywords       string    `json:"keywords,omitempty"`
	Description    string    `json:"description,omitempty"`
	LastModifiedBy string    `json:"lastModifiedBy,omitempty"`
	Revision       string    `json:"revision,omitempty"`
	Category       string    `json:"category,omitempty"`
	Created        time.Time `json:"created,omitzero"`
	Modified       time.Time `json:"modified,omitzero"`
}

type xmlCoreProperties struct {
	XMLName        xml.Name `xml:"coreProperties"`
	Title          string   `xml:"title"`
	Subject        string   `xml:"subject"`
	Creator        string   `xml:"creator"`
	Keywords       string   `xml:"keywords"`
	Description    string   `xml:"description"`
	LastModifiedBy string   `xml:"lastModifiedBy"`
	Revision       string   `xml:"revision"`
	Category       string   `xml:"category"`
	Created        string   `xml:"created"`
	Modified       string   `xml:"modified"`
}

// parseCoreProperties decodes a docProps/core.xml part. Unparseable dates
// are left zero.
func parseCoreProperties(data []byte) (*DocumentProperties, error) {
	var parsed xmlCoreProperties
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse core properties: %w", err)
	}
	props := &DocumentProperties{
		Title:          strings.TrimSpace(parsed.Title),
		Subject:        strings.TrimSpace(parsed.Subject),
		Creator:        strings.TrimSpace(parsed.Creator),
		Keywords:       strings.TrimSpace(parsed.Keywords),
		Description:    strings.TrimSpace(parsed.Description),
		LastModifiedBy: strings.TrimSpace(parsed.LastModifiedBy),
		Revision:       strings.TrimSpace(parsed.Revision),
		Category:       strings.TrimSpace(parsed.Category),
	}
	props.Created, _ = time.Parse(time.RFC3339, strings.TrimSpace(parsed.Created))
	props.Modified, _ = time.Parse(time.RFC3339, strings.TrimSpace(parsed.Modified))
	return props, nil
}

// readCoreProperties reads the package's core properties. A missing part
// yields empty properties.
func readCoreProperties(pr *partReader) (*DocumentProperties, error) {
	if !pr.has(corePropertiesPart) {
		return &DocumentProperties{}, nil
	}
	data, err := pr.read(corePropertiesPart)
	if err != nil {
		return nil, err
	}
	return parseCoreProperties(data)
}

// Standard slide sizes in points.
const (
	LayoutScreen4x3   = "screen4x3"
	LayoutScreen16x9  = "screen16x9"
	LayoutScreen16x10 = "screen16x10"
	LayoutCustom      = "custom"
)

// SlideSize is the slide extent in points.
type SlideSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Name is the p:sldSz type, or a standard layout matched by extent.
	Name string `json:"name,omitempty"`
}

// defaultSlideSize is 10 x 7.5 inches.
var defaultSlideSize = SlideSize{Width: 720, Height: 540, Name: LayoutScreen4x3}

// slideSizeOf reads p:sldSz of a presentation part.
func slideSizeOf(sldSz *Node) SlideSize {
	cx, okX := parseEMU(sldSz.Attr("cx"))
	cy, okY := parseEMU(sldSz.Attr("cy"))
	if !okX || !okY || cx <= 0 || cy <= 0 {
		return defaultSlideSize
	}
	size := SlideSize{Width: numberToFixed(cx), Height: numberToFixed(cy), Name: sldSz.Attr("type")}
	if size.Name == "" {
		switch {
		case size.Width == 720 && size.Height == 540:
			size.Name = LayoutScreen4x3
		case size.Width == 960 && size.Height == 540:
			size.Name = LayoutScreen16x9
		case size.Width == 864 && size.Height == 540:
			size.Name = LayoutScreen16x10
		default:
			size.Name = LayoutCustom
		}
	}
	return size
}
