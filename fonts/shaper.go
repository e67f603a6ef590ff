package fonts

import (
	"bytes"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// ShapedGlyph is a single shaped glyph with PDF text-space (1/1000 em)
// positioning, grounded verbatim on fonts/shaper.go's return shape.
type ShapedGlyph struct {
	GID      int
	Cluster  int
	XAdvance float64
	YAdvance float64
	XOffset  float64
	YOffset  float64
}

// Shaper turns a run of text into positioned glyph IDs against one font
// program. Page.FillText takes this interface rather than a concrete
// shaper, so callers can substitute a pre-shaped glyph
// source (e.g. when the caller already has GIDs from an external layout
// engine) without touching the rest of the pipeline.
type Shaper interface {
	Shape(text string, vertical bool) ([]ShapedGlyph, error)
}

// HarfbuzzShaper shapes text against an embedded font program using
// go-text/typesetting, the same shaping stack fonts/shaper.go uses.
type HarfbuzzShaper struct {
	face gofont.Face
}

// NewHarfbuzzShaper parses fontData once and returns a reusable shaper.
func NewHarfbuzzShaper(fontData []byte) (*HarfbuzzShaper, error) {
	face, err := gofont.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, err
	}
	return &HarfbuzzShaper{face: face}, nil
}

func (h *HarfbuzzShaper) Shape(text string, vertical bool) ([]ShapedGlyph, error) {
	shaper := &shaping.HarfbuzzShaper{}
	runes := []rune(text)
	script := detectScript(runes)
	dir := scriptDirection(script)
	if vertical {
		dir = di.DirectionTTB
	}

	// Shape at 1000 units/em so advances come back directly in PDF text space.
	size := fixed.Int26_6(1000 * 64)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      h.face,
		Size:      size,
		Script:    script,
		Language:  language.DefaultLanguage(),
	}
	output := shaper.Shape(input)

	result := make([]ShapedGlyph, 0, len(output.Glyphs))
	for _, g := range output.Glyphs {
		result = append(result, ShapedGlyph{
			GID:      int(g.GlyphID),
			Cluster:  g.ClusterIndex,
			XAdvance: float64(g.XAdvance) / 64.0,
			YAdvance: float64(g.YAdvance) / 64.0,
			XOffset:  float64(g.XOffset) / 64.0,
			YOffset:  float64(g.YOffset) / 64.0,
		})
	}
	return result, nil
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch {
		case r >= 0x4E00 && r <= 0x9FFF:
			return language.Han
		case r >= 0x0600 && r <= 0x06FF:
			return language.Arabic
		case r >= 0x0590 && r <= 0x05FF:
			return language.Hebrew
		}
	}
	return language.Latin
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}
