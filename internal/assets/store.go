// Package assets persists images returned inline by the PixelLab API.
package assets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/bobmcallan/pixellab-mcp/internal/common"
)

const (
	maxSlugLen     = 30
	paletteSummary = 4
)

var (
	// ErrDecode means the payload was not valid base64.
	ErrDecode = errors.New("image data is not valid base64")
	// ErrWrite means the decoded image could not be written to disk.
	ErrWrite = errors.New("failed to save image")
)

var (
	nonAlnum      = regexp.MustCompile(`[^a-z0-9]+`)
	dataURLPrefix = regexp.MustCompile(`^data:[a-zA-Z0-9/+.-]*(;[a-zA-Z0-9=.-]+)*;base64,`)
)

// Store writes decoded images under a fixed output directory.
type Store struct {
	dir          string
	previewScale int
	logger       *common.Logger
}

// SavedImage describes one persisted image.
type SavedImage struct {
	Path        string
	PreviewPath string
	Bytes       int
	Width       int
	Height      int
	Colors      int      // distinct opaque colours, 0 when the bytes are not a decodable image
	Palette     []string // most frequent colours as #rrggbb
}

// NewStore creates a store writing to dir. A previewScale above 1 also writes
// a nearest-neighbour upscaled copy next to each image.
func NewStore(dir string, previewScale int, logger *common.Logger) *Store {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Store{dir: dir, previewScale: previewScale, logger: logger}
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// Slug turns a free-text description into a file-name stem: lower-case,
// runs of non-alphanumerics collapsed to "_", at most 30 characters.
func Slug(description string) string {
	slug := nonAlnum.ReplaceAllString(strings.ToLower(description), "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "_")
	}
	if slug == "" {
		return "image"
	}
	return slug
}

// StripDataURL removes a leading "data:image/png;base64," style prefix.
func StripDataURL(data string) string {
	data = strings.TrimSpace(data)
	if loc := dataURLPrefix.FindStringIndex(data); loc != nil {
		return data[loc[1]:]
	}
	return data
}

// DecodeBase64 decodes standard, unpadded or URL-safe base64, with or
// without a data-URL prefix.
func DecodeBase64(data string) ([]byte, error) {
	payload := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, StripDataURL(data))
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}

	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if out, err := enc.DecodeString(payload); err == nil {
			return out, nil
		}
	}
	return nil, ErrDecode
}

// SaveBase64 decodes data and writes it as <dir>/<Slug(name)>.png.
// Existing files with the same slug are overwritten.
func (s *Store) SaveBase64(name, data string) (*SavedImage, error) {
	raw, err := DecodeBase64(data)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	slug := Slug(name)
	path := filepath.Join(s.dir, slug+".png")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	saved := &SavedImage{Path: path, Bytes: len(raw)}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		s.logger.Warn().Str("path", path).Str("error", err.Error()).Msg("saved bytes are not a decodable image")
		return saved, nil
	}
	bounds := img.Bounds()
	saved.Width, saved.Height = bounds.Dx(), bounds.Dy()
	saved.Colors, saved.Palette = palette(img, paletteSummary)

	if s.previewScale > 1 {
		preview := imaging.Resize(img, saved.Width*s.previewScale, saved.Height*s.previewScale, imaging.NearestNeighbor)
		previewPath := filepath.Join(s.dir, fmt.Sprintf("%s_x%d.png", slug, s.previewScale))
		if err := imaging.Save(preview, previewPath); err != nil {
			s.logger.Warn().Str("path", previewPath).Str("error", err.Error()).Msg("preview save failed")
		} else {
			saved.PreviewPath = previewPath
		}
	}

	s.logger.Info().
		Str("path", path).
		Int("bytes", saved.Bytes).
		Int("width", saved.Width).
		Int("height", saved.Height).
		Msg("image saved")

	return saved, nil
}

// palette counts distinct opaque colours and returns the top n as hex.
func palette(img image.Image, n int) (int, []string) {
	counts := make(map[color.NRGBA]int)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			c.A = 255
			counts[c]++
		}
	}

	type entry struct {
		c     color.NRGBA
		count int
	}
	entries := make([]entry, 0, len(counts))
	for c, count := range counts {
		entries = append(entries, entry{c, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		a, b := entries[i].c, entries[j].c
		if a.R != b.R {
			return a.R < b.R
		}
		if a.G != b.G {
			return a.G < b.G
		}
		return a.B < b.B
	})

	var hexes []string
	for i := 0; i < len(entries) && i < n; i++ {
		cf, _ := colorful.MakeColor(entries[i].c)
		hexes = append(hexes, cf.Hex())
	}
	return len(counts), hexes
}
