// Package codegen lowers decoded guest functions into C++ translation
// units targeting the runtime macro surface (PPC_FUNC, PPC_LOAD_*,
// PPC_STORE_*, simde intrinsics). One Context lives per function; the
// pipeline runs many of them concurrently, so a Context never touches
// shared mutable state.
package codegen

import (
	"bytes"
	"fmt"

	"ppcrecomp/internal/analysis"
	"ppcrecomp/internal/config"
	"ppcrecomp/internal/ppc"
)

// csrState tracks which flush-to-zero mode the emitted code last set, so
// consecutive scalar or vector instructions share one mode switch.
type csrState int

const (
	csrUnknown csrState = iota
	csrScalar
	csrVector
)

// SymbolResolver maps a guest address to the emitted name of a known
// function. The second result is false for addresses outside the
// resolved function set.
type SymbolResolver func(addr uint32) (string, bool)

// Context carries the per-function emission state. Builders write lines
// into buf through the helpers below and never format registers by hand,
// so the as-local configuration toggles apply uniformly.
type Context struct {
	Cfg *config.Config
	Fn  *analysis.Function
	Ins ppc.Instruction

	buf     bytes.Buffer
	tempIdx int
	csr     csrState

	// labels holds every branch target inside the function body.
	labels map[uint32]struct{}

	// Externs collects call targets outside the function, declared by
	// the aggregate pass.
	Externs map[uint32]struct{}

	resolve SymbolResolver
}

func newContext(cfg *config.Config, fn *analysis.Function, resolve SymbolResolver) *Context {
	if resolve == nil {
		resolve = func(uint32) (string, bool) { return "", false }
	}
	return &Context{
		Cfg:     cfg,
		Fn:      fn,
		labels:  map[uint32]struct{}{},
		Externs: map[uint32]struct{}{},
		resolve: resolve,
	}
}

// line writes one indented statement.
func (c *Context) line(format string, args ...any) {
	c.buf.WriteByte('\t')
	fmt.Fprintf(&c.buf, format, args...)
	c.buf.WriteByte('\n')
}

// rawLine writes without indentation (labels, braces).
func (c *Context) rawLine(format string, args ...any) {
	fmt.Fprintf(&c.buf, format, args...)
	c.buf.WriteByte('\n')
}

func (c *Context) emitLabel(addr uint32) {
	c.rawLine("loc_%X:", addr)
	// A label is a join point: the mode set on the fallthrough path may
	// not hold on the incoming edges.
	c.csr = csrUnknown
}

func (c *Context) isLabel(addr uint32) bool {
	_, ok := c.labels[addr]
	return ok
}

// setCSR switches the host FP environment between scalar and vector
// semantics. The guest runs scalar math with denormal support and VMX
// math in flush-to-zero; emitting the switch lazily keeps runs of
// same-kind instructions free of redundant mode writes.
func (c *Context) setCSR(s csrState) {
	if c.csr == s {
		return
	}
	c.csr = s
	if s == csrVector {
		c.line("ctx.fpscr.enableFlushMode();")
	} else {
		c.line("ctx.fpscr.disableFlushMode();")
	}
}

// Register formatters. Each returns either the context member or the
// local variable name, depending on the as-local toggles; locals are
// declared by the prologue and written back never (the guest ABI makes
// them dead across calls).

func (c *Context) r(i uint32) string {
	local := false
	switch {
	case i == 13:
		local = c.Cfg.ReservedRegisterAsLocal
	case i == 0 || i == 2 || i == 11 || i == 12:
		local = c.Cfg.NonArgumentAsLocals
	case i >= 14:
		local = c.Cfg.NonVolatileAsLocals
	}
	if local {
		return fmt.Sprintf("r%d", i)
	}
	return fmt.Sprintf("ctx.r%d", i)
}

func (c *Context) f(i uint32) string { return fmt.Sprintf("ctx.f%d", i) }
func (c *Context) v(i uint32) string { return fmt.Sprintf("ctx.v%d", i) }

func (c *Context) cr(i uint32) string {
	if c.Cfg.CRAsLocals {
		return fmt.Sprintf("cr%d", i)
	}
	return fmt.Sprintf("ctx.cr%d", i)
}

func (c *Context) xer() string {
	if c.Cfg.XerAsLocal {
		return "xer"
	}
	return "ctx.xer"
}

func (c *Context) ctr() string {
	if c.Cfg.CtrAsLocal {
		return "ctr"
	}
	return "ctx.ctr"
}

func (c *Context) lr() string { return "ctx.lr" }

// temp names the scratch PPCRegister declared in the prologue; ea and
// vTemp are its address and vector counterparts.
func (c *Context) temp() string  { return "temp" }
func (c *Context) ea() string    { return "ea" }
func (c *Context) vTemp() string { return "vTemp" }

// nextTemp mints a fresh local for builders that need more than the
// shared scratch slot.
func (c *Context) nextTemp() string {
	c.tempIdx++
	return fmt.Sprintf("tmp%d", c.tempIdx)
}

// eaD formats the effective address of a D-form memory access. RA=0
// means a zero base, not r0.
func (c *Context) eaD(ra uint32, disp int32) string {
	if ra == 0 {
		return fmt.Sprintf("%d", disp)
	}
	if disp == 0 {
		return fmt.Sprintf("%s.u32", c.r(ra))
	}
	return fmt.Sprintf("%s.u32 + %d", c.r(ra), disp)
}

// eaX formats the effective address of an X-form (indexed) access.
func (c *Context) eaX(ra, rb uint32) string {
	if ra == 0 {
		return fmt.Sprintf("%s.u32", c.r(rb))
	}
	return fmt.Sprintf("%s.u32 + %s.u32", c.r(ra), c.r(rb))
}

// symbolFor names a call target: the resolved function symbol when the
// target is known, a forward-declared stub otherwise. Either way the
// target lands in Externs so the aggregate pass can declare it.
func (c *Context) symbolFor(addr uint32) string {
	c.Externs[addr] = struct{}{}
	if name, ok := c.resolve(addr); ok {
		return name
	}
	return fmt.Sprintf("sub_%08X", addr)
}

// recordCompare emits the CR0 update of a record-form integer result.
func (c *Context) recordCompare(expr string, signed64 bool) {
	t := "int32_t"
	field := "s32"
	if signed64 {
		t = "int64_t"
		field = "s64"
	}
	c.line("%s.compare<%s>(%s.%s, 0, %s);", c.cr(0), t, expr, field, c.xer())
}
