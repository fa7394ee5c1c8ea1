package diag

import "testing"

func TestBagSortOrder(t *testing.T) {
	bag := NewBag()
	bag.Add(Diagnostic{Severity: SevWarning, Code: AnaDataRegion, Addr: 0x82000010})
	bag.Add(Diagnostic{Severity: SevError, Code: CfgUnalignedAddress, Addr: 0x82000010})
	bag.Add(Diagnostic{Severity: SevError, Code: CfgMissingProjectName, Addr: 0})
	bag.Sort()

	items := bag.Items()
	if items[0].Code != CfgMissingProjectName {
		t.Errorf("addr 0 should sort first, got %s", items[0].Code)
	}
	// Same address: errors before warnings.
	if items[1].Code != CfgUnalignedAddress || items[2].Code != AnaDataRegion {
		t.Errorf("severity order wrong: %s, %s", items[1].Code, items[2].Code)
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag()
	for i := 0; i < 3; i++ {
		bag.Add(Diagnostic{Severity: SevError, Code: CfgEmptyJumpTable, Addr: 0x82000000})
	}
	bag.Add(Diagnostic{Severity: SevError, Code: CfgEmptyJumpTable, Addr: 0x82000004})
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("Len = %d after dedup, want 2", bag.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	bag := NewBag()
	bag.Add(Diagnostic{Severity: SevWarning, Code: AnaDataRegion})
	if bag.HasErrors() {
		t.Error("warnings alone should not count as errors")
	}
	bag.Add(Diagnostic{Severity: SevError, Code: CfgMissingFilePath})
	if !bag.HasErrors() {
		t.Error("error diagnostic not detected")
	}
	if len(bag.Errors()) != 1 || len(bag.Warnings()) != 1 {
		t.Errorf("filters = %d errors, %d warnings", len(bag.Errors()), len(bag.Warnings()))
	}
}

func TestMultiReporterFanOut(t *testing.T) {
	a, b := NewBag(), NewBag()
	rep := MultiReporter{BagReporter{Bag: a}, nil, BagReporter{Bag: b}}
	ReportError(rep, CfgMissingProjectName, 0, "missing")
	if a.Len() != 1 || b.Len() != 1 {
		t.Fatalf("fan-out reached %d/%d bags", a.Len(), b.Len())
	}
}
