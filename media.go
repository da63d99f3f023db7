package pptxjson

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MediaInfo describes a media part referenced by an element.
type MediaInfo struct {
	Part     string `json:"part"`
	MimeType string `json:"mimeType"`
	Size     int    `json:"size,omitempty"`
	// Natural pixel size of raster images, when decodable.
	PixelWidth  int `json:"pixelWidth,omitempty"`
	PixelHeight int `json:"pixelHeight,omitempty"`
}

var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"ogg":  "video/ogg",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
}

// fileExt returns the lower-case extension of a part name without the dot.
func fileExt(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// mimeType maps a part name to its MIME type.
func mimeType(name string) string {
	if m, ok := mimeTypes[fileExt(name)]; ok {
		return m
	}
	return "application/octet-stream"
}

// isURL reports whether a relationship target is a web link.
func isURL(target string) bool {
	t := strings.ToLower(target)
	return strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://") || strings.HasPrefix(t, "//")
}

// loadMedia returns the element source for a media part and its metadata.
// Embedded sources are data URIs; otherwise the part name is the source.
func (b *builder) loadMedia(part string) (string, *MediaInfo) {
	info := &MediaInfo{Part: part, MimeType: mimeType(part)}
	if b.ctx.parts == nil || !b.ctx.parts.has(part) {
		return "", nil
	}
	data, err := b.ctx.parts.read(part)
	if err != nil {
		b.log.Debug("media/skip", "part", part, "err", err)
		return "", nil
	}
	info.Size = len(data)
	if strings.HasPrefix(info.MimeType, "image/") {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			info.PixelWidth, info.PixelHeight = cfg.Width, cfg.Height
		}
	}
	if !b.ctx.opts.EmbedMedia {
		return part, info
	}
	return "data:" + info.MimeType + ";base64," + base64.StdEncoding.EncodeToString(data), info
}

// blipSource resolves an a:blip r:embed through rels to an image source.
func (b *builder) blipSource(rels Relationships) blipResolver {
	return func(blip *Node) string {
		rel, ok := rels[blip.Attr("r:embed")]
		if !ok || rel.External {
			return ""
		}
		src, _ := b.loadMedia(rel.Target)
		return src
	}
}
