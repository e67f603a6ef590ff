package pdfua

import "testing"

func TestStandardString(t *testing.T) {
	if NewValidator().Standard() != "PDF/UA-1" {
		t.Fatal("expected PDF/UA-1 standard string")
	}
}

func TestGatesKnownCodes(t *testing.T) {
	v := NewValidator()
	for _, code := range []string{"UA001", "UA002", "UA003", "UA004", "UA005", "UA006"} {
		if !v.Gates(code) {
			t.Fatalf("expected %s to be gated", code)
		}
	}
}

func TestGatesRejectsUnknownCode(t *testing.T) {
	if NewValidator().Gates("TRN001") {
		t.Fatal("pdfua validator must not gate a pdfa-specific code")
	}
}
