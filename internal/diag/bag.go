package diag

import (
	"fmt"
	"sort"
)

// Bag collects diagnostics exhaustively: validation never stops at the first
// error, the caller sees the complete list in one pass.
type Bag struct {
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{items: make([]Diagnostic, 0, 16)}
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int { return len(b.items) }

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (b *Bag) Items() []Diagnostic { return b.items }

// Errors returns only the blocking diagnostics.
func (b *Bag) Errors() []Diagnostic { return b.filter(SevError) }

// Warnings returns only the non-blocking warning diagnostics.
func (b *Bag) Warnings() []Diagnostic { return b.filter(SevWarning) }

func (b *Bag) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range b.items {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// Merge объединяет диагностики из другого Bag.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Sort сортирует диагностики по: addr, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Addr != dj.Addr {
			return di.Addr < dj.Addr
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup removes duplicates by (code, addr).
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%08X", d.Code, d.Addr)
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
