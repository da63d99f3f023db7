package pptxjson

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks the decoded presentation for structural issues and returns
// an error describing all problems found, or nil if it is valid. Elements
// dropped while decoding are reported too.
func (p *Presentation) Validate() error {
	var errs []string

	if p.Size.Width <= 0 {
		errs = append(errs, "slide width must be positive")
	}
	if p.Size.Height <= 0 {
		errs = append(errs, "slide height must be positive")
	}

	for i, slide := range p.Slides {
		prefix := fmt.Sprintf("slide %d", i+1)
		if slide == nil {
			errs = append(errs, prefix+": slide is nil")
			continue
		}
		for _, e := range validateSlide(slide) {
			errs = append(errs, prefix+": "+e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateSlide(s *Slide) []string {
	var errs []string
	if s.Fill == nil {
		errs = append(errs, "background fill is nil")
	}
	errs = append(errs, validateElements(s.Elements, "element")...)
	errs = append(errs, validateElements(s.LayoutElements, "layout element")...)
	for _, err := range s.Errors {
		errs = append(errs, "dropped "+err.Error())
	}
	return errs
}

// validateElements checks an element list and its descendants.
func validateElements(elements []*Element, label string) []string {
	var errs []string
	for j, el := range elements {
		prefix := fmt.Sprintf("%s %d", label, j+1)
		if el == nil {
			errs = append(errs, prefix+": element is nil")
			continue
		}
		if el.Order != j {
			errs = append(errs, fmt.Sprintf("%s: order %d out of sequence", prefix, el.Order))
		}
		for _, v := range []float64{el.Left, el.Top, el.Width, el.Height, el.Rotate} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				errs = append(errs, prefix+": geometry is not finite")
				break
			}
		}
		if el.Width < 0 {
			errs = append(errs, prefix+": width is negative")
		}
		if el.Height < 0 {
			errs = append(errs, prefix+": height is negative")
		}

		switch el.Type {
		case ElementImage:
			if el.Src == "" {
				errs = append(errs, prefix+": image has no source")
			}
			if el.Media != nil && !isValidImageMime(el.Media.MimeType) {
				errs = append(errs, prefix+": unsupported image MIME type: "+el.Media.MimeType)
			}
		case ElementTable:
			if len(el.Cells) == 0 || len(el.ColWidths) == 0 {
				errs = append(errs, prefix+": table must have at least 1 row and 1 column")
			}
			if len(el.Cells) != len(el.RowHeights) {
				errs = append(errs, prefix+": table row count mismatch")
			}
		case ElementChart:
			if el.Chart == nil || el.Chart.Type == "" {
				errs = append(errs, prefix+": chart has no chart type set")
			}
		case ElementShape:
			if el.ShapeType == "" {
				errs = append(errs, prefix+": shape has no geometry")
			}
		case ElementGroup, ElementDiagram:
			errs = append(errs, validateElements(el.Elements, prefix+" child")...)
		}
		if el.Border != nil && el.Border.Color != "" {
			if _, ok := ParseColor(el.Border.Color); !ok {
				errs = append(errs, prefix+": border color is invalid: "+el.Border.Color)
			}
		}
	}
	return errs
}

// isValidImageMime checks if a MIME type is a supported image format.
func isValidImageMime(mime string) bool {
	switch mime {
	case "image/png", "image/jpeg", "image/gif", "image/bmp", "image/tiff",
		"image/webp", "image/svg+xml", "image/x-emf", "image/x-wmf":
		return true
	}
	return false
}
