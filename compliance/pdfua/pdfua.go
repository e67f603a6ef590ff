// Package pdfua implements the PDF/UA-1 accessibility conformance profile.
// Grounded on compliance/pdfua/pdfua.go's violation-code catalogue (UA001
// marked, UA002 tagged, UA003 title, UA004 language, UA005 font embedding,
// UA006 figure alt text), adapted to sealpdf's incremental Validator gate
// rather than a post-hoc walk of a finished semantic.Document.
package pdfua

import "github.com/grainpress/sealpdf/compliance"

type Level int

const PDFUA1 Level = 0

func (l Level) String() string { return "PDF/UA-1" }

// Validator gates every PDF/UA-1 violation code unconditionally — unlike
// pdfa, there is only one level, so Gates degenerates to membership in the
// known-code set.
type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

func (v *Validator) Standard() string { return PDFUA1.String() }

func (v *Validator) Gates(code string) bool {
	switch code {
	case "UA001", "UA002", "UA003", "UA004", "UA005", "UA006", "FNT002", "FNT003", "MET001", "MET002":
		return true
	default:
		return false
	}
}

var _ compliance.Validator = (*Validator)(nil)
