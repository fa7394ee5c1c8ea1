package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ppcrecomp/internal/analysis"
	"ppcrecomp/internal/config"
	"ppcrecomp/internal/image"
	"ppcrecomp/internal/ppc"
)

// Result is one emitted function body plus the external symbols it
// references.
type Result struct {
	Source  string
	Externs map[uint32]struct{}
}

// Emit renders fn into a C++ function body. The body range comes first,
// chunk ranges follow inline; every chunk start and every in-function
// branch target gets a label.
func Emit(cfg *config.Config, img *image.Image, fn *analysis.Function, resolve SymbolResolver) (*Result, error) {
	c := newContext(cfg, fn, resolve)

	ranges := make([]analysis.Range, 0, 1+len(fn.Chunks))
	ranges = append(ranges, fn.Body())
	ranges = append(ranges, fn.Chunks...)

	if err := collectLabels(c, img, ranges); err != nil {
		return nil, err
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("PPC_FUNC(%s) {\n", fn.Symbol()))
	out.WriteString("\tPPC_FUNC_PROLOGUE();\n")
	writePrologue(&out, cfg, fn)

	for _, r := range ranges {
		for addr := r.Address; addr < r.End(); addr += 4 {
			if size, ok := cfg.InvalidInstructions[addr]; ok {
				if size > 4 {
					addr += size - 4
				}
				continue
			}
			if c.isLabel(addr) {
				c.emitLabel(addr)
			}
			hook, hooked := cfg.MidAsmHooks[addr]
			if hooked && !hook.AfterInstruction {
				c.emitHook(hook)
			}
			word, ok := img.ReadWord(addr)
			if !ok {
				return nil, fmt.Errorf("function %s reads past the image at 0x%08X", fn.Symbol(), addr)
			}
			ins := ppc.Decode(addr, word)
			if err := c.build(ins); err != nil {
				return nil, err
			}
			if hooked && hook.AfterInstruction {
				c.emitHook(hook)
			}
		}
	}

	out.WriteString(c.buf.String())
	out.WriteString("}\n")
	return &Result{Source: out.String(), Externs: c.Externs}, nil
}

// writePrologue declares the exception guard and the register locals the
// toggles promote out of the context, plus the shared scratch slots.
func writePrologue(out *strings.Builder, cfg *config.Config, fn *analysis.Function) {
	if cfg.GenerateExceptionHandlers && isHandler(cfg, fn.Address) {
		out.WriteString("\tPPC_EXCEPTION_HANDLER_PROLOGUE();\n")
	}
	var locals []string
	if cfg.NonArgumentAsLocals {
		locals = append(locals, "r0", "r2", "r11", "r12")
	}
	if cfg.ReservedRegisterAsLocal {
		locals = append(locals, "r13")
	}
	if cfg.NonVolatileAsLocals {
		for i := 14; i < 32; i++ {
			locals = append(locals, fmt.Sprintf("r%d", i))
		}
	}
	for _, l := range locals {
		out.WriteString(fmt.Sprintf("\tPPCRegister %s{};\n", l))
	}
	if cfg.CRAsLocals {
		for i := 0; i < 8; i++ {
			out.WriteString(fmt.Sprintf("\tPPCCRRegister cr%d{};\n", i))
		}
	}
	if cfg.XerAsLocal {
		out.WriteString("\tPPCXERRegister xer{};\n")
	}
	if cfg.CtrAsLocal {
		out.WriteString("\tPPCRegister ctr{};\n")
	}
	out.WriteString("\tPPCRegister temp{};\n")
	out.WriteString("\tPPCVRegister vTemp{};\n")
	out.WriteString("\tuint32_t ea{};\n")
	out.WriteString("\n")
}

func isHandler(cfg *config.Config, addr uint32) bool {
	for _, h := range cfg.ExceptionHandlers {
		if h == addr {
			return true
		}
	}
	return false
}

// collectLabels walks the instruction stream once and records every
// branch target that lands inside the function, plus chunk entries and
// hook jump destinations.
func collectLabels(c *Context, img *image.Image, ranges []analysis.Range) error {
	fn := c.Fn
	add := func(target uint32) {
		if fn.Covers(target) {
			c.labels[target] = struct{}{}
		}
	}
	for _, r := range ranges[1:] {
		// A chunk is only reachable by branch, so its entry is always
		// a label.
		c.labels[r.Address] = struct{}{}
	}
	for _, r := range ranges {
		for addr := r.Address; addr < r.End(); addr += 4 {
			if size, ok := c.Cfg.InvalidInstructions[addr]; ok {
				if size > 4 {
					addr += size - 4
				}
				continue
			}
			word, ok := img.ReadWord(addr)
			if !ok {
				return fmt.Errorf("function %s reads past the image at 0x%08X", fn.Symbol(), addr)
			}
			ins := ppc.Decode(addr, word)
			switch ins.Op {
			case ppc.OpB, ppc.OpBc:
				add(branchDest(ins))
			case ppc.OpBa, ppc.OpBca:
				add(branchDest(ins))
			case ppc.OpBcctr:
				if table, ok := c.Cfg.SwitchTables[addr]; ok {
					for _, t := range table.Targets {
						add(t)
					}
					if table.DefaultTarget != 0 {
						add(table.DefaultTarget)
					}
				}
			}
			if hook, ok := c.Cfg.MidAsmHooks[addr]; ok {
				add(hook.JumpAddress)
				add(hook.JumpAddressOnTrue)
				add(hook.JumpAddressOnFalse)
			}
		}
	}
	return nil
}

func branchDest(ins ppc.Instruction) uint32 {
	switch ins.Op {
	case ppc.OpB:
		return uint32(int64(ins.Address) + int64(ins.LI()))
	case ppc.OpBa:
		return uint32(ins.LI())
	case ppc.OpBc:
		return uint32(int64(ins.Address) + int64(ins.BD()))
	case ppc.OpBca:
		return uint32(ins.BD())
	}
	return 0
}

// emitHook splices one user interception point into the stream. The
// hook body is user code linked into the final binary; only the call
// site and the control transfer around it are generated here.
func (c *Context) emitHook(h config.MidAsmHook) {
	args := make([]string, 0, len(h.Registers))
	for _, reg := range h.Registers {
		args = append(args, c.hookArg(reg))
	}
	call := fmt.Sprintf("%s(%s)", h.Name, strings.Join(args, ", "))
	switch {
	case h.Ret:
		c.line("%s;", call)
		c.line("return;")
	case h.ReturnOnTrue:
		c.line("if (%s) return;", call)
	case h.ReturnOnFalse:
		c.line("if (!%s) return;", call)
	case h.JumpAddress != 0:
		c.line("%s;", call)
		c.emitJump("", h.JumpAddress)
	case h.JumpAddressOnTrue != 0:
		c.emitJump(call, h.JumpAddressOnTrue)
	case h.JumpAddressOnFalse != 0:
		c.emitJump("!"+call, h.JumpAddressOnFalse)
	default:
		c.line("%s;", call)
	}
}

// hookArg formats one declared hook register argument, honoring the
// same as-local rules the builders use.
func (c *Context) hookArg(reg string) string {
	reg = strings.ToLower(strings.TrimSpace(reg))
	switch reg {
	case "lr":
		return c.lr()
	case "ctr":
		return c.ctr()
	case "xer":
		return c.xer()
	}
	if n, ok := regIndex(reg, "cr"); ok {
		return c.cr(n)
	}
	if n, ok := regIndex(reg, "r"); ok {
		return c.r(n)
	}
	if n, ok := regIndex(reg, "f"); ok {
		return c.f(n)
	}
	if n, ok := regIndex(reg, "v"); ok {
		return c.v(n)
	}
	return "ctx." + reg
}

func regIndex(reg, prefix string) (uint32, bool) {
	if !strings.HasPrefix(reg, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(reg[len(prefix):])
	if err != nil || n < 0 || n > 127 {
		return 0, false
	}
	return uint32(n), true
}

// SortedExterns returns the extern set in address order for the
// aggregate declaration pass.
func (r *Result) SortedExterns() []uint32 {
	addrs := make([]uint32, 0, len(r.Externs))
	for a := range r.Externs {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}
