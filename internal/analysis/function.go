// Package analysis resolves function boundaries in the guest image, merging
// the configuration's explicit overrides with a conservative forward scan.
package analysis

import "fmt"

// Range is a half-open [Address, Address+Size) span of guest code.
type Range struct {
	Address uint32
	Size    uint32
}

// End returns the first address past the range.
func (r Range) End() uint32 { return r.Address + r.Size }

// Contains reports whether addr falls inside the range.
func (r Range) Contains(addr uint32) bool {
	return addr >= r.Address && addr < r.End()
}

// Function is one resolved unit of generated code. Chunks are discontiguous
// fragments owned by this function; they are emitted inline after the body,
// never as standalone functions.
type Function struct {
	Address uint32
	Size    uint32
	Name    string
	Chunks  []Range
}

// Body returns the contiguous primary range.
func (f *Function) Body() Range { return Range{Address: f.Address, Size: f.Size} }

// Covers reports whether addr belongs to the body or any chunk.
func (f *Function) Covers(addr uint32) bool {
	if f.Body().Contains(addr) {
		return true
	}
	for _, c := range f.Chunks {
		if c.Contains(addr) {
			return true
		}
	}
	return false
}

// Symbol returns the emitted name, auto-generated when not configured.
func (f *Function) Symbol() string {
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("sub_%08X", f.Address)
}
