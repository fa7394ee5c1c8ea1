package codegen

import (
	"fmt"
	"strings"

	"ppcrecomp/internal/ppc"
)

// Control flow. Local targets become labels, external targets become
// tail calls, and computed branches either materialize a switch from
// the configured jump table or fall back to the indirect dispatcher.

var crFields = [4]string{"lt", "gt", "eq", "so"}

// crBit names one of the 32 condition flags.
func (c *Context) crBit(idx uint32) string {
	return fmt.Sprintf("%s.%s", c.cr(idx/4), crFields[idx%4])
}

// branchCond emits the CTR decrement when required and returns the
// branch condition expression; empty means branch always.
func (c *Context) branchCond(bo, bi uint32) string {
	var conds []string
	if bo&0x04 == 0 {
		c.line("--%s.u64;", c.ctr())
		if bo&0x02 != 0 {
			conds = append(conds, fmt.Sprintf("%s.u32 == 0", c.ctr()))
		} else {
			conds = append(conds, fmt.Sprintf("%s.u32 != 0", c.ctr()))
		}
	}
	if bo&0x10 == 0 {
		if bo&0x08 != 0 {
			conds = append(conds, c.crBit(bi))
		} else {
			conds = append(conds, "!"+c.crBit(bi))
		}
	}
	return strings.Join(conds, " && ")
}

// emitJump transfers control to target: a goto when the target lives in
// this function, a tail call otherwise.
func (c *Context) emitJump(cond string, target uint32) {
	if c.isLabel(target) {
		if cond == "" {
			c.line("goto loc_%X;", target)
		} else {
			c.line("if (%s) goto loc_%X;", cond, target)
		}
		return
	}
	sym := c.symbolFor(target)
	if cond == "" {
		c.line("%s(ctx, base);", sym)
		c.line("return;")
	} else {
		c.line("if (%s) {", cond)
		c.rawLine("\t\t%s(ctx, base);", sym)
		c.rawLine("\t\treturn;")
		c.rawLine("\t}")
	}
}

// emitCall lowers a linking branch. setjmp and longjmp get intercepted
// so the host longjmp unwinds the host stack.
func (c *Context) emitCall(target, next uint32) {
	switch target {
	case c.Cfg.SetJmpAddress:
		if c.Cfg.SetJmpAddress != 0 {
			c.line("%s.s64 = PPC_SETJMP(ctx, base);", c.r(3))
			return
		}
	case c.Cfg.LongJmpAddress:
		if c.Cfg.LongJmpAddress != 0 {
			c.line("PPC_LONGJMP(ctx, base, %s.s32);", c.r(4))
			c.line("return;")
			return
		}
	}
	if !c.Cfg.SkipLR {
		c.line("%s = 0x%X;", c.lr(), next)
	}
	c.line("%s(ctx, base);", c.symbolFor(target))
}

func registerBranch() {
	register(ppc.OpB, func(c *Context) error {
		ins := c.Ins
		c.emitJump("", uint32(int64(ins.Address)+int64(ins.LI())))
		return nil
	})
	register(ppc.OpBa, func(c *Context) error {
		c.emitJump("", uint32(c.Ins.LI()))
		return nil
	})
	register(ppc.OpBl, func(c *Context) error {
		ins := c.Ins
		c.emitCall(uint32(int64(ins.Address)+int64(ins.LI())), ins.Address+4)
		return nil
	})
	register(ppc.OpBla, func(c *Context) error {
		ins := c.Ins
		c.emitCall(uint32(ins.LI()), ins.Address+4)
		return nil
	})

	condRel := func(c *Context) error {
		ins := c.Ins
		cond := c.branchCond(ins.BO(), ins.BI())
		c.emitJump(cond, uint32(int64(ins.Address)+int64(ins.BD())))
		return nil
	}
	register(ppc.OpBc, condRel)
	register(ppc.OpBca, func(c *Context) error {
		ins := c.Ins
		cond := c.branchCond(ins.BO(), ins.BI())
		c.emitJump(cond, uint32(ins.BD()))
		return nil
	})
	register(ppc.OpBcl, func(c *Context) error {
		// bcl 20,31,$+4 materializes the PC; everything else is unseen
		// in compiled code.
		ins := c.Ins
		if !c.Cfg.SkipLR {
			c.line("%s = 0x%X;", c.lr(), ins.Address+4)
		}
		target := uint32(int64(ins.Address) + int64(ins.BD()))
		if target != ins.Address+4 {
			cond := c.branchCond(ins.BO(), ins.BI())
			c.emitJump(cond, target)
		}
		return nil
	})
	register(ppc.OpBcla, func(c *Context) error {
		ins := c.Ins
		if !c.Cfg.SkipLR {
			c.line("%s = 0x%X;", c.lr(), ins.Address+4)
		}
		cond := c.branchCond(ins.BO(), ins.BI())
		c.emitJump(cond, uint32(ins.BD()))
		return nil
	})

	register(ppc.OpBclr, func(c *Context) error {
		ins := c.Ins
		cond := c.branchCond(ins.BO(), ins.BI())
		if cond == "" {
			c.line("return;")
		} else {
			c.line("if (%s) return;", cond)
		}
		return nil
	})
	register(ppc.OpBclrl, func(c *Context) error {
		ins := c.Ins
		cond := c.branchCond(ins.BO(), ins.BI())
		c.line("%s.u32 = %s;", c.temp(), c.lr())
		if !c.Cfg.SkipLR {
			c.line("%s = 0x%X;", c.lr(), ins.Address+4)
		}
		call := fmt.Sprintf("PPC_CALL_INDIRECT_FUNC(ctx, base, %s.u32);", c.temp())
		if cond == "" {
			c.line("%s", call)
		} else {
			c.line("if (%s) %s", cond, call)
		}
		return nil
	})

	register(ppc.OpBcctr, func(c *Context) error {
		ins := c.Ins
		if jt, ok := c.Cfg.SwitchTables[ins.Address]; ok {
			return c.emitSwitchTable(jt.BaseRegister, jt.Targets, jt.DefaultTarget)
		}
		cond := c.branchCond(ins.BO(), ins.BI())
		if c.Cfg.KnownIndirectCalls[ins.Address] {
			// Computed call (vtable or callback), not a tail dispatch.
			if cond == "" {
				c.line("PPC_CALL_INDIRECT_FUNC(ctx, base, %s.u32);", c.ctr())
			} else {
				c.line("if (%s) PPC_CALL_INDIRECT_FUNC(ctx, base, %s.u32);", cond, c.ctr())
			}
			return nil
		}
		if cond == "" {
			c.line("PPC_CALL_INDIRECT_FUNC(ctx, base, %s.u32);", c.ctr())
			c.line("return;")
		} else {
			c.line("if (%s) {", cond)
			c.rawLine("\t\tPPC_CALL_INDIRECT_FUNC(ctx, base, %s.u32);", c.ctr())
			c.rawLine("\t\treturn;")
			c.rawLine("\t}")
		}
		return nil
	})
	register(ppc.OpBcctrl, func(c *Context) error {
		ins := c.Ins
		cond := c.branchCond(ins.BO(), ins.BI())
		if !c.Cfg.SkipLR {
			c.line("%s = 0x%X;", c.lr(), ins.Address+4)
		}
		call := fmt.Sprintf("PPC_CALL_INDIRECT_FUNC(ctx, base, %s.u32);", c.ctr())
		if cond == "" {
			c.line("%s", call)
		} else {
			c.line("if (%s) %s", cond, call)
		}
		return nil
	})

	crOp := func(expr string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.line("%s = "+expr+";", c.crBit(ins.CRBD()), c.crBit(ins.CRBA()), c.crBit(ins.CRBB()))
			return nil
		}
	}
	register(ppc.OpCrand, crOp("%s & %s"))
	register(ppc.OpCror, crOp("%s | %s"))
	register(ppc.OpCrxor, crOp("%s ^ %s"))
	register(ppc.OpCrnand, crOp("(%s & %s) ^ 1"))
	register(ppc.OpCrnor, crOp("(%s | %s) ^ 1"))
	register(ppc.OpCreqv, crOp("(%s ^ %s) ^ 1"))
	register(ppc.OpCrandc, crOp("%s & (%s ^ 1)"))
	register(ppc.OpCrorc, crOp("%s | (%s ^ 1)"))

	register(ppc.OpMcrf, func(c *Context) error {
		ins := c.Ins
		for _, f := range crFields {
			c.line("%s.%s = %s.%s;", c.cr(ins.CRFD()), f, c.cr(ins.CRFS()), f)
		}
		return nil
	})
}

// emitSwitchTable lowers a resolved computed branch. The base register
// holds the zero-based case index at the dispatch site.
func (c *Context) emitSwitchTable(baseReg uint32, targets []uint32, def uint32) error {
	if len(targets) == 0 {
		return fmt.Errorf("empty jump table at 0x%08X", c.Ins.Address)
	}
	c.line("switch (%s.u64) {", c.r(baseReg))
	for i, t := range targets {
		c.rawLine("\tcase %d:", i)
		if c.isLabel(t) {
			c.rawLine("\t\tgoto loc_%X;", t)
		} else {
			c.rawLine("\t\t%s(ctx, base);", c.symbolFor(t))
			c.rawLine("\t\treturn;")
		}
	}
	c.rawLine("\tdefault:")
	if def != 0 {
		if c.isLabel(def) {
			c.rawLine("\t\tgoto loc_%X;", def)
		} else {
			c.rawLine("\t\t%s(ctx, base);", c.symbolFor(def))
			c.rawLine("\t\treturn;")
		}
	} else {
		c.rawLine("\t\t__builtin_unreachable();")
	}
	c.rawLine("\t}")
	return nil
}
