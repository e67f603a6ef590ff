// Package pdfa implements the PDF/A family of conformance validators.
// Level and its predicates are grounded verbatim on compliance/pdfa/pdfa.go;
// the Enforcer's whole-document walk is replaced by a Validator that gates
// individual violation codes, matching the incremental registration model
// engine.SerializeContext uses.
package pdfa

import "github.com/grainpress/sealpdf/compliance"

// Level is a PDF/A conformance level.
type Level int

const (
	Level1B Level = iota
	Level2B
	Level2U
	Level3B
	Level3U
	Level4
	Level4E
	Level4F
)

func (l Level) String() string {
	switch l {
	case Level1B:
		return "PDF/A-1b"
	case Level2B:
		return "PDF/A-2b"
	case Level2U:
		return "PDF/A-2u"
	case Level3B:
		return "PDF/A-3b"
	case Level3U:
		return "PDF/A-3u"
	case Level4:
		return "PDF/A-4"
	case Level4E:
		return "PDF/A-4e"
	case Level4F:
		return "PDF/A-4f"
	default:
		return "Unknown"
	}
}

func (l Level) IsLevelA1() bool { return l == Level1B }
func (l Level) IsLevelA2() bool { return l == Level2B || l == Level2U }
func (l Level) IsLevelA3() bool { return l == Level3B || l == Level3U }
func (l Level) IsLevelA4() bool { return l == Level4 || l == Level4E || l == Level4F }

func (l Level) AllowsTransparency() bool { return !l.IsLevelA1() }
func (l Level) AllowsLayers() bool       { return !l.IsLevelA1() }
func (l Level) AllowsAttachment() bool   { return !l.IsLevelA1() }

// AllowsArbitraryAttachment reports whether a non-PDF/A attachment is
// permitted (A-3 and A-4/A-4f; A-2 requires attachments to themselves be
// PDF/A-compliant).
func (l Level) AllowsArbitraryAttachment() bool {
	return l.IsLevelA3() || l == Level4 || l == Level4F
}

// Validator gates the violation codes a PDF/A level cares about. Unlike the
// teacher's Enforcer.Validate, which walks a finished semantic.Document
// tree, this is consulted once per candidate violation as the engine
// registers it — sealpdf never holds a complete document to walk.
type Validator struct {
	Level Level
}

func NewValidator(level Level) *Validator { return &Validator{Level: level} }

func (v *Validator) Standard() string { return v.Level.String() }

func (v *Validator) Gates(code string) bool {
	switch code {
	case "ENC001": // encryption forbidden under every PDF/A level
		return true
	case "INT001", "INT002": // OutputIntent required under every level
		return true
	case "FNT001": // font embedding required under every level
		return true
	case "FNT002": // forbidden ToUnicode codepoint (U+0000, U+FEFF, U+FFFE)
		return true
	case "FNT003": // ToUnicode mapping into a Private Use Area
		return true
	case "TRN001", "TRN002", "TRN003": // transparency forbidden under A-1 only
		return !v.Level.AllowsTransparency()
	case "LYR001": // optional content forbidden under A-1 only
		return !v.Level.AllowsLayers()
	case "ATT001": // attachments forbidden under A-1
		return !v.Level.AllowsAttachment()
	case "ATT002": // non-PDF/A attachments restricted under A-2
		return v.Level.AllowsAttachment() && !v.Level.AllowsArbitraryAttachment()
	case "ACT001": // forbidden annotation/action types
		return true
	case "MET001", "MET002": // missing document title / language
		return true
	case "IMG16": // 16-bit images forbidden under A-1 only
		return v.Level.IsLevelA1()
	default:
		return false
	}
}

var _ compliance.Validator = (*Validator)(nil)
