package engine

import (
	"context"
	"fmt"

	"github.com/grainpress/sealpdf/compliance"
	"github.com/grainpress/sealpdf/fonts"
	"github.com/grainpress/sealpdf/observability"
	"github.com/grainpress/sealpdf/raw"
)

// FontResource carries everything Finish needs to turn one drawn-on CID
// font into a subsetted Type0/CIDFontType2 dictionary trio (Type0, CIDFont,
// FontDescriptor) plus the supporting CIDToGIDMap/ToUnicode streams.
// Registered with a placeholder ref at draw time (so content streams can
// reference it before it's finalized) and filled in by Finalize once every
// glyph use across the whole document is known.
type FontResource struct {
	Key          fonts.FontKey
	Ref          raw.ObjectRef // placeholder allocated by the caller up front
	BaseFont     string
	Descriptor   fonts.Descriptor
	Widths       map[int]int // original CID -> /1000 em width
	DefaultWidth int
	ToUnicode    map[int][]rune
	Registry     string
	Ordering     string
	Supplement   int
}

// Finalize subsets the font program to only the CIDs analyzer recorded for
// Key, writes the CIDFontType2 object graph into ctx at Ref, and returns
// the completed subset plan — Document.Finish needs it afterward to remap
// the CID bytes already written into every page's content stream at draw
// time, before those bytes are compressed and registered.
func (r *FontResource) Finalize(ctx *SerializeContext, analyzer *fonts.Analyzer) *fonts.Subset {
	logger := ctx.Logger()
	_, span := ctx.Tracer().StartSpan(context.Background(), "fontresource.finalize")
	defer span.Finish()

	used := analyzer.UsedSet(r.Key)
	if used == nil {
		used = map[int]bool{0: true}
	}
	subset := fonts.Plan(used)
	tag := fonts.SubsetTag(used)
	subsetBaseFont := tag + "+" + r.BaseFont
	logger.Info("font.finalize.start", observability.String("font", subsetBaseFont), observability.Int("glyphs", len(subset.UsedCIDs)))

	usedGIDs := make(map[int]bool, len(subset.UsedCIDs))
	for _, newCID := range subset.UsedCIDs {
		usedGIDs[subset.NewToOriginal[newCID]] = true
	}

	fontFile := r.Descriptor.FontFile
	switch r.Descriptor.FontFileType {
	case "FontFile2":
		if subsetted, err := fonts.SubsetTrueType(r.Descriptor.FontFile, usedGIDs); err == nil {
			fontFile = subsetted
		}
	case "FontFile3":
		// Glyph-level CFF subsetting is out of scope (see DESIGN.md): the
		// structural parser this is grounded on never decoded the
		// CharStrings INDEX either, so there is no charstring-closure or
		// Top DICT re-encoding to drive a real subset from. The program is
		// validated and described, then embedded unmodified.
		if cff, err := fonts.ParseCFF(r.Descriptor.FontFile); err == nil {
			logger.Debug("font.cff.embed",
				observability.String("font", subsetBaseFont),
				observability.Int("name_count", len(cff.Names)),
				observability.String("cid_keyed", fmt.Sprintf("%v", cff.IsCIDKeyed())))
		} else {
			logger.Warn("font.cff.parse_failed", observability.String("font", subsetBaseFont), observability.Error("err", err))
		}
	}

	fontFileDict := raw.NewDict()
	fontFileDict.Set("Length1", raw.Int(int64(len(fontFile))))
	fontFileStream := raw.NewStream(fontFileDict, fontFile)
	fontFileRef := ctx.AddObject(fontFileStream)

	descDict := raw.NewDict()
	descDict.Set("Type", raw.NameOf("FontDescriptor"))
	descDict.Set("FontName", raw.NameOf(subsetBaseFont))
	descDict.Set("Flags", raw.Int(4))
	descDict.Set("ItalicAngle", raw.Int(0))
	descDict.Set("Ascent", raw.Int(int64(r.Descriptor.UnitsPerEm)))
	descDict.Set("Descent", raw.Int(0))
	descDict.Set("CapHeight", raw.Int(int64(r.Descriptor.UnitsPerEm)))
	descDict.Set("StemV", raw.Int(80))
	descDict.Set(r.Descriptor.FontFileType, raw.RefTo(fontFileRef))

	cidSetDict := raw.NewDict()
	cidSetStream := raw.NewStream(cidSetDict, subset.CIDSet())
	cidSetRef := ctx.AddObject(cidSetStream)
	descDict.Set("CIDSet", raw.RefTo(cidSetRef))

	descRef := ctx.AddObject(descDict)

	widths := subset.RemapWidths(r.Widths, r.DefaultWidth)
	wArray := raw.NewArray()
	for _, newCID := range subset.UsedCIDs {
		wArray.Append(raw.Int(int64(newCID)), raw.NewArray(raw.Int(int64(widths[newCID]))))
	}

	cidToGID := subset.CIDToGIDMap()
	cidToGIDDict := raw.NewDict()
	cidToGIDStream := raw.NewStream(cidToGIDDict, cidToGID)
	cidToGIDRef := ctx.AddObject(cidToGIDStream)

	cidSystemInfo := raw.NewDict()
	cidSystemInfo.Set("Registry", raw.Str([]byte(r.Registry)))
	cidSystemInfo.Set("Ordering", raw.Str([]byte(r.Ordering)))
	cidSystemInfo.Set("Supplement", raw.Int(int64(r.Supplement)))

	cidFontDict := raw.NewDict()
	cidFontDict.Set("Type", raw.NameOf("Font"))
	cidFontDict.Set("Subtype", raw.NameOf("CIDFontType2"))
	cidFontDict.Set("BaseFont", raw.NameOf(subsetBaseFont))
	cidFontDict.Set("CIDSystemInfo", cidSystemInfo)
	cidFontDict.Set("FontDescriptor", raw.RefTo(descRef))
	cidFontDict.Set("DW", raw.Int(int64(r.DefaultWidth)))
	cidFontDict.Set("W", wArray)
	cidFontDict.Set("CIDToGIDMap", raw.RefTo(cidToGIDRef))
	cidFontRef := ctx.AddObject(cidFontDict)

	type0Dict := raw.NewDict()
	type0Dict.Set("Type", raw.NameOf("Font"))
	type0Dict.Set("Subtype", raw.NameOf("Type0"))
	type0Dict.Set("BaseFont", raw.NameOf(subsetBaseFont))
	type0Dict.Set("Encoding", raw.NameOf("Identity-H"))
	type0Dict.Set("DescendantFonts", raw.NewArray(raw.RefTo(cidFontRef)))

	if len(r.ToUnicode) > 0 {
		cmapBody, issues := fonts.BuildToUnicodeCMap(subset.RemapToUnicode(r.ToUnicode))
		for _, issue := range issues {
			if issue.Forbidden {
				ctx.RegisterValidationError(compliance.Violation{
					Code:        "FNT002",
					Description: fmt.Sprintf("font %s: CID %d maps to forbidden codepoint U+%04X", subsetBaseFont, issue.CID, issue.Rune),
				})
			} else {
				ctx.RegisterValidationError(compliance.Violation{
					Code:        "FNT003",
					Description: fmt.Sprintf("font %s: CID %d maps to private-use codepoint U+%04X", subsetBaseFont, issue.CID, issue.Rune),
				})
			}
		}
		cmapDict := raw.NewDict()
		cmapStream := raw.NewStream(cmapDict, []byte(cmapBody))
		cmapRef := ctx.AddObject(cmapStream)
		type0Dict.Set("ToUnicode", raw.RefTo(cmapRef))
	}

	ctx.SetObject(r.Ref, type0Dict)
	logger.Info("font.finalize.done", observability.String("font", subsetBaseFont))
	return subset
}
