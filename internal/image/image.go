// Package image provides a flat view of the guest binary: big-endian bytes
// mapped at a base address, with a section table describing permissions.
package image

import (
	"encoding/binary"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Section is one mapped region of the guest binary.
type Section struct {
	Name    string
	Address uint32
	Size    uint32
	Flags   string // "rx", "rw", "r"
}

// Executable reports whether code may live in this section.
func (s Section) Executable() bool { return strings.Contains(s.Flags, "x") }

// Contains reports whether addr falls inside the section.
func (s Section) Contains(addr uint32) bool {
	return addr >= s.Address && addr-s.Address < s.Size
}

// Image is the loaded guest binary. Data is big-endian, exactly as mapped.
type Image struct {
	Base     uint32
	Entry    uint32
	Data     []byte
	Sections []Section
}

// Load reads a raw big-endian image from disk and maps it at base. Sections
// default to one executable region covering the whole file when none are
// provided by the caller.
func Load(path string, base, entry uint32, sections []Section) (*Image, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the validated config
	if err != nil {
		return nil, fmt.Errorf("load image %q: %w", path, err)
	}
	img := &Image{Base: base, Entry: entry, Data: data, Sections: sections}
	if len(img.Sections) == 0 {
		img.Sections = []Section{{Name: ".text", Address: base, Size: uint32(len(data)), Flags: "rx"}}
	}
	sort.Slice(img.Sections, func(i, j int) bool { return img.Sections[i].Address < img.Sections[j].Address })
	return img, nil
}

// New wraps an in-memory buffer; used by tests and by callers that already
// extracted the mapped bytes from a container format.
func New(base uint32, data []byte) *Image {
	return &Image{
		Base:     base,
		Data:     data,
		Sections: []Section{{Name: ".text", Address: base, Size: uint32(len(data)), Flags: "rx"}},
	}
}

// Contains reports whether addr maps to a byte of the image.
func (img *Image) Contains(addr uint32) bool {
	return addr >= img.Base && uint64(addr-img.Base) < uint64(len(img.Data))
}

// ReadWord returns the big-endian word at addr.
func (img *Image) ReadWord(addr uint32) (uint32, bool) {
	if !img.Contains(addr) || uint64(addr-img.Base)+4 > uint64(len(img.Data)) {
		return 0, false
	}
	off := addr - img.Base
	return binary.BigEndian.Uint32(img.Data[off : off+4]), true
}

// SectionOf returns the section containing addr.
func (img *Image) SectionOf(addr uint32) (Section, bool) {
	for _, s := range img.Sections {
		if s.Contains(addr) {
			return s, true
		}
	}
	return Section{}, false
}

// End returns the first address past the image.
func (img *Image) End() uint32 { return img.Base + uint32(len(img.Data)) }
