package image

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadWordBigEndian(t *testing.T) {
	img := New(0x82000000, []byte{0x4E, 0x80, 0x00, 0x20, 0x60, 0x00, 0x00, 0x00})

	cases := []struct {
		addr uint32
		want uint32
		ok   bool
	}{
		{0x82000000, 0x4E800020, true},
		{0x82000004, 0x60000000, true},
		{0x82000006, 0, false}, // straddles the end
		{0x82000008, 0, false},
		{0x81FFFFFC, 0, false},
	}
	for _, tc := range cases {
		got, ok := img.ReadWord(tc.addr)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ReadWord(0x%08X) = (0x%08X, %v), want (0x%08X, %v)",
				tc.addr, got, ok, tc.want, tc.ok)
		}
	}
}

func TestContainsAndEnd(t *testing.T) {
	img := New(0x82000000, make([]byte, 16))
	if !img.Contains(0x82000000) || !img.Contains(0x8200000F) {
		t.Error("interior addresses reported outside")
	}
	if img.Contains(0x82000010) || img.Contains(0x81FFFFFF) {
		t.Error("exterior addresses reported inside")
	}
	if img.End() != 0x82000010 {
		t.Errorf("End = 0x%08X", img.End())
	}
}

func TestSectionOf(t *testing.T) {
	img := &Image{
		Base: 0x82000000,
		Data: make([]byte, 0x30),
		Sections: []Section{
			{Name: ".text", Address: 0x82000000, Size: 0x20, Flags: "rx"},
			{Name: ".data", Address: 0x82000020, Size: 0x10, Flags: "rw"},
		},
	}
	s, ok := img.SectionOf(0x8200001C)
	if !ok || s.Name != ".text" || !s.Executable() {
		t.Fatalf("SectionOf(.text addr) = %+v, %v", s, ok)
	}
	s, ok = img.SectionOf(0x82000020)
	if !ok || s.Name != ".data" || s.Executable() {
		t.Fatalf("SectionOf(.data addr) = %+v, %v", s, ok)
	}
	if _, ok := img.SectionOf(0x82000030); ok {
		t.Error("address past all sections resolved to one")
	}
}

func TestLoadDefaultsToSingleExecutableSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.bin")
	if err := os.WriteFile(path, make([]byte, 8), 0o600); err != nil {
		t.Fatal(err)
	}
	img, err := Load(path, 0x82000000, 0x82000004, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Entry != 0x82000004 {
		t.Errorf("entry = 0x%08X", img.Entry)
	}
	if len(img.Sections) != 1 || !img.Sections[0].Executable() || img.Sections[0].Size != 8 {
		t.Errorf("default section = %+v", img.Sections)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.bin"), 0, 0, nil); err == nil {
		t.Fatal("Load accepted a missing file")
	}
}
