package codegen

import (
	"fmt"
	"strings"

	"ppcrecomp/internal/ppc"
)

// System instructions: barriers, cache ops, traps and special-purpose
// register moves. Barriers vanish on the strongly-ordered host; cache
// block zeroing keeps its architectural store effect.

func registerSystem() {
	noop := func(*Context) error { return nil }
	for _, op := range []ppc.Opcode{
		ppc.OpNop, ppc.OpAttn, ppc.OpDcbf, ppc.OpDcbst, ppc.OpDcbt,
		ppc.OpDcbtst, ppc.OpEieio, ppc.OpIcbi, ppc.OpIsync,
		ppc.OpLwsync, ppc.OpSync,
	} {
		register(op, noop)
	}

	register(ppc.OpDcbz, func(c *Context) error {
		c.line("memset(base + ((%s) & ~31), 0, 32);", c.eaX(c.Ins.RA(), c.Ins.RB()))
		return nil
	})
	register(ppc.OpDcbzl, func(c *Context) error {
		c.line("memset(base + ((%s) & ~127), 0, 128);", c.eaX(c.Ins.RA(), c.Ins.RB()))
		return nil
	})

	register(ppc.OpTwi, func(c *Context) error {
		ins := c.Ins
		// twi 31,r0,imm is the kernel's encoding for a service trap; the
		// immediate selects the service.
		if ins.TO() == 31 && ins.RA() == 0 {
			c.line("PPC_SERVICE_TRAP(ctx, base, %d);", ins.SIMM())
			return nil
		}
		lhs := fmt.Sprintf("%s.s32", c.r(ins.RA()))
		ulhs := fmt.Sprintf("%s.u32", c.r(ins.RA()))
		return c.emitTrap(ins.TO(), lhs, ulhs,
			fmt.Sprintf("%d", ins.SIMM()), fmt.Sprintf("%d", uint32(ins.SIMM())))
	})
	register(ppc.OpTw, func(c *Context) error {
		ins := c.Ins
		return c.emitTrap(ins.TO(),
			fmt.Sprintf("%s.s32", c.r(ins.RA())), fmt.Sprintf("%s.u32", c.r(ins.RA())),
			fmt.Sprintf("%s.s32", c.r(ins.RB())), fmt.Sprintf("%s.u32", c.r(ins.RB())))
	})
	register(ppc.OpTdi, func(c *Context) error {
		ins := c.Ins
		return c.emitTrap(ins.TO(),
			fmt.Sprintf("%s.s64", c.r(ins.RA())), fmt.Sprintf("%s.u64", c.r(ins.RA())),
			fmt.Sprintf("%d", ins.SIMM()), fmt.Sprintf("%dull", uint64(int64(ins.SIMM()))))
	})
	register(ppc.OpTd, func(c *Context) error {
		ins := c.Ins
		return c.emitTrap(ins.TO(),
			fmt.Sprintf("%s.s64", c.r(ins.RA())), fmt.Sprintf("%s.u64", c.r(ins.RA())),
			fmt.Sprintf("%s.s64", c.r(ins.RB())), fmt.Sprintf("%s.u64", c.r(ins.RB())))
	})

	register(ppc.OpMfcr, func(c *Context) error {
		fields := [4]string{"lt", "gt", "eq", "so"}
		for i := 0; i < 32; i++ {
			op := "|="
			if i == 0 {
				op = "="
			}
			c.line("%s.u64 %s %s.%s ? 0x%X : 0;",
				c.r(c.Ins.RD()), op, c.cr(uint32(i/4)), fields[i%4], uint32(1)<<(31-i))
		}
		return nil
	})
	register(ppc.OpMtcr, func(c *Context) error {
		fields := [4]string{"lt", "gt", "eq", "so"}
		for i := 0; i < 32; i++ {
			c.line("%s.%s = (%s.u32 & 0x%X) != 0;",
				c.cr(uint32(i/4)), fields[i%4], c.r(c.Ins.RS()), uint32(1)<<(31-i))
		}
		return nil
	})
	register(ppc.OpMfocrf, func(c *Context) error {
		ins := c.Ins
		fxm := ins.FXM()
		if fxm == 0 || fxm&(fxm-1) != 0 {
			return fmt.Errorf("mfocrf at 0x%08X: field mask 0x%02X is not one-hot", ins.Address, fxm)
		}
		field := uint32(0)
		for fxm&0x80 == 0 {
			fxm <<= 1
			field++
		}
		shift := 28 - 4*field
		fields := [4]string{"lt", "gt", "eq", "so"}
		for i, name := range fields {
			op := "|="
			if i == 0 {
				op = "="
			}
			c.line("%s.u64 %s %s.%s ? 0x%X : 0;",
				c.r(ins.RD()), op, c.cr(field), name, uint32(8>>i)<<shift)
		}
		return nil
	})

	register(ppc.OpMfmsr, func(c *Context) error {
		if !c.Cfg.SkipMSR {
			// The read yields 0x8000 (EE set) when the global lock is
			// free, 0 when held.
			c.line("std::atomic_thread_fence(std::memory_order_seq_cst);")
			c.line("%s.u64 = PPC_CHECK_GLOBAL_LOCK();", c.r(c.Ins.RD()))
		}
		return nil
	})
	register(ppc.OpMtmsrd, func(c *Context) error {
		if c.Cfg.SkipMSR {
			return nil
		}
		// Only EE and RI are writable. The kernel masks interrupts by
		// moving a scratch MSR image in and restores from r13, so r13
		// as the source enters the global lock and anything else
		// leaves it.
		c.line("std::atomic_thread_fence(std::memory_order_seq_cst);")
		c.line("ctx.msr = (%s.u32 & 0x8020) | (ctx.msr & ~0x8020);", c.r(c.Ins.RS()))
		if c.Ins.RS() == 13 {
			c.line("PPC_ENTER_GLOBAL_LOCK();")
		} else {
			c.line("PPC_LEAVE_GLOBAL_LOCK();")
		}
		return nil
	})
	register(ppc.OpMftb, func(c *Context) error {
		c.line("%s.u64 = PPC_READ_TIME_BASE();", c.r(c.Ins.RD()))
		return nil
	})

	register(ppc.OpMfxer, func(c *Context) error {
		d, x := c.r(c.Ins.RD()), c.xer()
		c.line("%s.u64 = uint64_t(%s.so) << 31 | uint64_t(%s.ov) << 30 | uint64_t(%s.ca) << 29;", d, x, x, x)
		return nil
	})
	register(ppc.OpMtxer, func(c *Context) error {
		s, x := c.r(c.Ins.RS()), c.xer()
		c.line("%s.so = (%s.u32 >> 31) & 1;", x, s)
		c.line("%s.ov = (%s.u32 >> 30) & 1;", x, s)
		c.line("%s.ca = (%s.u32 >> 29) & 1;", x, s)
		return nil
	})
	register(ppc.OpMflr, func(c *Context) error {
		if !c.Cfg.SkipLR {
			c.line("%s.u64 = %s;", c.r(c.Ins.RD()), c.lr())
		}
		return nil
	})
	register(ppc.OpMtlr, func(c *Context) error {
		if !c.Cfg.SkipLR {
			c.line("%s = %s.u64;", c.lr(), c.r(c.Ins.RS()))
		}
		return nil
	})
	register(ppc.OpMfctr, func(c *Context) error {
		c.line("%s.u64 = %s.u64;", c.r(c.Ins.RD()), c.ctr())
		return nil
	})
	register(ppc.OpMtctr, func(c *Context) error {
		c.line("%s.u64 = %s.u64;", c.ctr(), c.r(c.Ins.RS()))
		return nil
	})
}

// emitTrap lowers a TO-mask trap. Bits select signed less/greater,
// equality and unsigned less/greater; a full mask traps unconditionally.
func (c *Context) emitTrap(to uint32, signedL, unsignedL, signedR, unsignedR string) error {
	if to == 0 {
		return nil
	}
	if to == 31 {
		c.line("PPC_TRAP(ctx, base);")
		return nil
	}
	var conds []string
	if to&0x10 != 0 {
		conds = append(conds, fmt.Sprintf("%s < %s", signedL, signedR))
	}
	if to&0x08 != 0 {
		conds = append(conds, fmt.Sprintf("%s > %s", signedL, signedR))
	}
	if to&0x04 != 0 {
		conds = append(conds, fmt.Sprintf("%s == %s", signedL, signedR))
	}
	if to&0x02 != 0 {
		conds = append(conds, fmt.Sprintf("%s < %s", unsignedL, unsignedR))
	}
	if to&0x01 != 0 {
		conds = append(conds, fmt.Sprintf("%s > %s", unsignedL, unsignedR))
	}
	c.line("if (%s) PPC_TRAP(ctx, base);", strings.Join(conds, " || "))
	return nil
}
