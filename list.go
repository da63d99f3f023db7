package pptxjson

import (
	"fmt"
	"strconv"

	"golang.org/x/net/html"
)

// List kinds.
const (
	ListBullet     = "char"
	ListAutoNumber = "autoNum"
)

const defaultBullet = "•"

// ListInfo is the resolved list definition of one paragraph.
type ListInfo struct {
	Kind    string
	Tag     string // "ul" or "ol"
	Level   int    // 1-based outline level
	Char    string
	NumType string
	StartAt int
	Font    string
	Color   string
}

// Key identifies the list a paragraph belongs to. Consecutive paragraphs
// with equal keys share one list container and one counter.
func (li ListInfo) Key() string {
	discriminator := li.Char
	if li.Kind == ListAutoNumber {
		discriminator = li.NumType + ":" + strconv.Itoa(li.StartAt)
	}
	return fmt.Sprintf("%s:%s:%s:%d:%s", li.Tag, li.Kind, discriminator, li.Level, li.Font)
}

// markerStyle is the inline style of the marker span.
func (li ListInfo) markerStyle() string {
	style := "display: inline-block; min-width: 1.4em; margin-right: 0.4em;"
	if li.Font != "" {
		style += "font-family: " + li.Font + ";"
	}
	if li.Color != "" {
		style += "color: " + li.Color + ";"
	}
	return style
}

// ResolveListInfo resolves the list definition of paragraph p through the
// paragraph properties, then the list-style levels of the text body, the
// layout and master placeholders and the master text styles. The first
// tier declaring a bullet character, an auto-number or buNone decides; a
// buNone yields nil.
func ResolveListInfo(p, body *Node, c Cascade, ctx *SlideContext) *ListInfo {
	lvl := outlineLevel(p)
	tiers := append(nonNil(p.Child("a:pPr")), levelStyles(body, c, ctx, lvl)...)

	var decl *Node
	for _, tier := range tiers {
		if tier.Has("a:buNone") || tier.Has("a:buChar") || tier.Has("a:buAutoNum") {
			decl = tier
			break
		}
	}
	if decl == nil || decl.Has("a:buNone") {
		return nil
	}

	var theme *Node
	if ctx != nil {
		theme = ctx.Theme
	}
	info := &ListInfo{Level: lvl}
	for _, tier := range tiers {
		if info.Font == "" {
			info.Font = themeFontToken(tier.PathAttr("typeface", "a:buFont"),
				theme.Root().Find("a:themeElements", "a:fontScheme"))
		}
		if info.Color == "" {
			info.Color, _ = newColorResolver(ctx).resolve(tier.Child("a:buClr"), "")
		}
	}

	if bu := decl.Child("a:buChar"); bu != nil {
		info.Kind, info.Tag = ListBullet, "ul"
		info.Char = firstNonEmpty(bu.Attr("char"), defaultBullet)
		return info
	}
	auto := decl.Child("a:buAutoNum")
	info.Kind, info.Tag = ListAutoNumber, "ol"
	info.NumType = firstNonEmpty(auto.Attr("type"), "arabicPeriod")
	info.StartAt = 1
	if start, ok := auto.IntAttr("startAt"); ok {
		info.StartAt = start
	}
	return info
}

// listState is the open list of a text body while paragraphs are walked.
type listState struct {
	key       string
	info      ListInfo
	counter   int
	container *html.Node
}

func newListState(info ListInfo) *listState {
	return &listState{
		key:       info.Key(),
		info:      info,
		counter:   info.StartAt,
		container: element(info.Tag, "list-style: none; padding-left: 0; margin: 0;"),
	}
}

// next returns the marker of the next item and advances the counter.
func (s *listState) next() string {
	if s.info.Kind == ListBullet {
		return s.info.Char
	}
	n := s.counter
	s.counter++
	return FormatAutoNumber(n, s.info.NumType)
}
