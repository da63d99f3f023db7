package pptxjson

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// maxXMLDepth bounds element nesting in a single part.
const maxXMLDepth = 512

var errXMLTooDeep = errors.New("xml nesting exceeds maximum depth")

// ParseXML decodes a part into a Node tree. The returned node is unnamed and
// holds the part's root element as its only child, so lookups read like
// doc.Find("p:sld", "p:cSld", "p:spTree"). Namespace prefixes are kept as
// written in the source.
func ParseXML(data []byte) (*Node, error) {
	return parseXML(data, nil)
}

// parseXML decodes data, renaming prefixes found in rename (diagram drawings
// use "dsp" where slides use "p").
func parseXML(data []byte, rename map[string]string) (*Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel
	decoder.Strict = false

	doc := &Node{}
	stack := []*Node{doc}

	qualify := func(name xml.Name) string {
		prefix := name.Space
		if r, ok := rename[prefix]; ok {
			prefix = r
		}
		if prefix == "" {
			return name.Local
		}
		return prefix + ":" + name.Local
	}

	for {
		tok, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) > maxXMLDepth {
				return nil, errXMLTooDeep
			}
			n := &Node{Name: qualify(t.Name)}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				if n.Attrs == nil {
					n.Attrs = make(map[string]string, len(t.Attr))
				}
				n.Attrs[qualify(a.Name)] = a.Value
			}
			stack[len(stack)-1].AppendChild(n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			cur := stack[len(stack)-1]
			if cur == doc {
				continue
			}
			// Text is significant in <a:t> and similar leaves; elsewhere only
			// non-whitespace runs are kept.
			if cur.Local() == "t" || strings.TrimSpace(string(t)) != "" {
				cur.Text += string(t)
			}
		}
	}

	if doc.Root() == nil {
		return nil, errors.New("xml document has no root element")
	}
	return doc, nil
}
