package pdfa

import "testing"

func TestLevelPredicates(t *testing.T) {
	if !Level1B.IsLevelA1() || Level2B.IsLevelA1() {
		t.Fatal("IsLevelA1 mismatch")
	}
	if !Level2U.IsLevelA2() || !Level3U.IsLevelA3() || !Level4E.IsLevelA4() {
		t.Fatal("level family predicate mismatch")
	}
}

func TestLevel1BForbidsTransparencyLayersAttachment(t *testing.T) {
	if Level1B.AllowsTransparency() || Level1B.AllowsLayers() || Level1B.AllowsAttachment() {
		t.Fatal("PDF/A-1b must forbid transparency, layers and attachments")
	}
}

func TestLevel3AllowsArbitraryAttachment(t *testing.T) {
	if !Level3B.AllowsArbitraryAttachment() {
		t.Fatal("PDF/A-3b must allow arbitrary attachments")
	}
	if Level2B.AllowsArbitraryAttachment() {
		t.Fatal("PDF/A-2b must not allow arbitrary attachments")
	}
}

func TestValidatorGatesByLevel(t *testing.T) {
	v1 := NewValidator(Level1B)
	if !v1.Gates("TRN001") {
		t.Fatal("A-1b must gate transparency violations")
	}
	if !v1.Gates("ATT001") {
		t.Fatal("A-1b must gate any attachment")
	}

	v3 := NewValidator(Level3B)
	if v3.Gates("TRN001") {
		t.Fatal("A-3b must not gate transparency")
	}
	if v3.Gates("ATT001") || v3.Gates("ATT002") {
		t.Fatal("A-3b must not gate attachments at all")
	}

	v2 := NewValidator(Level2B)
	if v2.Gates("ATT001") {
		t.Fatal("A-2b allows attachments in principle")
	}
	if !v2.Gates("ATT002") {
		t.Fatal("A-2b must gate non-PDF/A attachments")
	}
}

func TestValidatorAlwaysGatesEncryptionAndFonts(t *testing.T) {
	for _, lvl := range []Level{Level1B, Level2B, Level3B, Level4} {
		v := NewValidator(lvl)
		if !v.Gates("ENC001") || !v.Gates("FNT001") || !v.Gates("INT001") {
			t.Fatalf("level %v must always gate ENC001/FNT001/INT001", lvl)
		}
	}
}

func TestStandardReportsLevelString(t *testing.T) {
	v := NewValidator(Level2U)
	if v.Standard() != "PDF/A-2u" {
		t.Fatalf("unexpected standard string: %q", v.Standard())
	}
}
