package codegen

import (
	"ppcrecomp/internal/ppc"
)

// mask32 builds the rlwinm wrap-around mask. Bit 0 is the MSB.
func mask32(mb, me uint32) uint32 {
	lo := uint32(0xFFFFFFFF) >> mb
	hi := uint32(0xFFFFFFFF) << (31 - me)
	if mb <= me {
		return lo & hi
	}
	return lo | hi
}

func mask64(mb, me uint32) uint64 {
	lo := uint64(0xFFFFFFFFFFFFFFFF) >> mb
	hi := uint64(0xFFFFFFFFFFFFFFFF) << (63 - me)
	if mb <= me {
		return lo & hi
	}
	return lo | hi
}

// record appends the CR0 update when the record bit is set.
func (c *Context) record(dest uint32, signed64 bool) {
	if c.Ins.IsRecordForm() {
		c.recordCompare(c.r(dest), signed64)
	}
}

func registerALU() {
	register(ppc.OpAddi, func(c *Context) error {
		ins := c.Ins
		if ins.RA() == 0 {
			c.line("%s.s64 = %d;", c.r(ins.RD()), ins.SIMM())
		} else {
			c.line("%s.s64 = %s.s64 + %d;", c.r(ins.RD()), c.r(ins.RA()), ins.SIMM())
		}
		return nil
	})
	register(ppc.OpAddis, func(c *Context) error {
		ins := c.Ins
		imm := int64(ins.SIMM()) << 16
		if ins.RA() == 0 {
			c.line("%s.s64 = %d;", c.r(ins.RD()), imm)
		} else {
			c.line("%s.s64 = %s.s64 + %d;", c.r(ins.RD()), c.r(ins.RA()), imm)
		}
		return nil
	})
	register(ppc.OpAdd, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64 + %s.u64;", c.r(ins.RD()), c.r(ins.RA()), c.r(ins.RB()))
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpAddic, func(c *Context) error {
		ins := c.Ins
		c.line("%s.ca = %s.u32 > 0x%X;", c.xer(), c.r(ins.RA()), ^uint32(ins.SIMM()))
		c.line("%s.s64 = %s.s64 + %d;", c.r(ins.RD()), c.r(ins.RA()), ins.SIMM())
		return nil
	})
	register(ppc.OpAddicRecord, func(c *Context) error {
		ins := c.Ins
		c.line("%s.ca = %s.u32 > 0x%X;", c.xer(), c.r(ins.RA()), ^uint32(ins.SIMM()))
		c.line("%s.s64 = %s.s64 + %d;", c.r(ins.RD()), c.r(ins.RA()), ins.SIMM())
		c.recordCompare(c.r(ins.RD()), false)
		return nil
	})
	register(ppc.OpAddc, func(c *Context) error {
		ins := c.Ins
		c.line("%s.ca = %s.u32 > ~%s.u32;", c.xer(), c.r(ins.RA()), c.r(ins.RB()))
		c.line("%s.u64 = %s.u64 + %s.u64;", c.r(ins.RD()), c.r(ins.RA()), c.r(ins.RB()))
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpAdde, func(c *Context) error {
		ins := c.Ins
		a, b := c.r(ins.RA()), c.r(ins.RB())
		// Carry out of the 32-bit add, computed before the destination
		// can alias a source.
		c.line("%s.u8 = (%s.u32 + %s.u32 < %s.u32) | (%s.u32 + %s.u32 + %s.ca < %s.ca);",
			c.temp(), a, b, a, a, b, c.xer(), c.xer())
		c.line("%s.u64 = %s.u64 + %s.u64 + %s.ca;", c.r(ins.RD()), a, b, c.xer())
		c.line("%s.ca = %s.u8;", c.xer(), c.temp())
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpAddze, func(c *Context) error {
		ins := c.Ins
		a := c.r(ins.RA())
		c.line("%s.u64 = %s.u64 + %s.ca;", c.temp(), a, c.xer())
		c.line("%s.ca = %s.u32 < %s.u32;", c.xer(), c.temp(), a)
		c.line("%s.u64 = %s.u64;", c.r(ins.RD()), c.temp())
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpAddme, func(c *Context) error {
		ins := c.Ins
		a := c.r(ins.RA())
		c.line("%s.u8 = %s.u32 != 0 || %s.ca != 0;", c.temp(), a, c.xer())
		c.line("%s.u64 = %s.u64 + %s.ca - 1;", c.r(ins.RD()), a, c.xer())
		c.line("%s.ca = %s.u8;", c.xer(), c.temp())
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpSubf, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = %s.s64 - %s.s64;", c.r(ins.RD()), c.r(ins.RB()), c.r(ins.RA()))
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpSubfic, func(c *Context) error {
		ins := c.Ins
		c.line("%s.ca = %s.u32 <= %d;", c.xer(), c.r(ins.RA()), uint32(ins.SIMM()))
		c.line("%s.s64 = %d - %s.s64;", c.r(ins.RD()), ins.SIMM(), c.r(ins.RA()))
		return nil
	})
	register(ppc.OpSubfc, func(c *Context) error {
		ins := c.Ins
		c.line("%s.ca = %s.u32 >= %s.u32;", c.xer(), c.r(ins.RB()), c.r(ins.RA()))
		c.line("%s.s64 = %s.s64 - %s.s64;", c.r(ins.RD()), c.r(ins.RB()), c.r(ins.RA()))
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpSubfe, func(c *Context) error {
		ins := c.Ins
		a, b := c.r(ins.RA()), c.r(ins.RB())
		c.line("%s.u8 = (~%s.u32 + %s.u32 < ~%s.u32) | (~%s.u32 + %s.u32 + %s.ca < %s.ca);",
			c.temp(), a, b, a, a, b, c.xer(), c.xer())
		c.line("%s.u64 = ~%s.u64 + %s.u64 + %s.ca;", c.r(ins.RD()), a, b, c.xer())
		c.line("%s.ca = %s.u8;", c.xer(), c.temp())
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpSubfze, func(c *Context) error {
		ins := c.Ins
		a := c.r(ins.RA())
		c.line("%s.u8 = %s.u32 == 0 && %s.ca != 0;", c.temp(), a, c.xer())
		c.line("%s.u64 = ~%s.u64 + %s.ca;", c.r(ins.RD()), a, c.xer())
		c.line("%s.ca = %s.u8;", c.xer(), c.temp())
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpSubfme, func(c *Context) error {
		ins := c.Ins
		a := c.r(ins.RA())
		c.line("%s.u8 = %s.u32 != 0xFFFFFFFF || %s.ca != 0;", c.temp(), a, c.xer())
		c.line("%s.u64 = ~%s.u64 + %s.ca - 1;", c.r(ins.RD()), a, c.xer())
		c.line("%s.ca = %s.u8;", c.xer(), c.temp())
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpNeg, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = -%s.s64;", c.r(ins.RD()), c.r(ins.RA()))
		c.record(ins.RD(), false)
		return nil
	})

	register(ppc.OpMulli, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = %s.s64 * %d;", c.r(ins.RD()), c.r(ins.RA()), ins.SIMM())
		return nil
	})
	register(ppc.OpMullw, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = int64_t(%s.s32) * int64_t(%s.s32);", c.r(ins.RD()), c.r(ins.RA()), c.r(ins.RB()))
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpMulhw, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = (int64_t(%s.s32) * int64_t(%s.s32)) >> 32;", c.r(ins.RD()), c.r(ins.RA()), c.r(ins.RB()))
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpMulhwu, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = (uint64_t(%s.u32) * uint64_t(%s.u32)) >> 32;", c.r(ins.RD()), c.r(ins.RA()), c.r(ins.RB()))
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpMulld, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = %s.s64 * %s.s64;", c.r(ins.RD()), c.r(ins.RA()), c.r(ins.RB()))
		c.record(ins.RD(), true)
		return nil
	})
	register(ppc.OpDivw, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = %s.s32 / %s.s32;", c.r(ins.RD()), c.r(ins.RA()), c.r(ins.RB()))
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpDivwu, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u32 / %s.u32;", c.r(ins.RD()), c.r(ins.RA()), c.r(ins.RB()))
		c.record(ins.RD(), false)
		return nil
	})
	register(ppc.OpDivd, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = %s.s64 / %s.s64;", c.r(ins.RD()), c.r(ins.RA()), c.r(ins.RB()))
		c.record(ins.RD(), true)
		return nil
	})
	register(ppc.OpDivdu, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64 / %s.u64;", c.r(ins.RD()), c.r(ins.RA()), c.r(ins.RB()))
		c.record(ins.RD(), true)
		return nil
	})

	// Logic. X-form logic writes RA from RS.
	logic2 := func(expr string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.line("%s.u64 = "+expr+";", c.r(ins.RA()), c.r(ins.RS()), c.r(ins.RB()))
			c.record(ins.RA(), true)
			return nil
		}
	}
	register(ppc.OpAnd, logic2("%s.u64 & %s.u64"))
	register(ppc.OpOr, logic2("%s.u64 | %s.u64"))
	register(ppc.OpXor, logic2("%s.u64 ^ %s.u64"))
	register(ppc.OpNand, logic2("~(%s.u64 & %s.u64)"))
	register(ppc.OpNor, logic2("~(%s.u64 | %s.u64)"))
	register(ppc.OpEqv, logic2("~(%s.u64 ^ %s.u64)"))
	register(ppc.OpAndc, logic2("%s.u64 & ~%s.u64"))
	register(ppc.OpOrc, logic2("%s.u64 | ~%s.u64"))
	register(ppc.OpMr, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64;", c.r(ins.RA()), c.r(ins.RS()))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpNot, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = ~%s.u64;", c.r(ins.RA()), c.r(ins.RS()))
		c.record(ins.RA(), true)
		return nil
	})

	register(ppc.OpAndiRecord, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64 & %d;", c.r(ins.RA()), c.r(ins.RS()), ins.UIMM())
		c.recordCompare(c.r(ins.RA()), true)
		return nil
	})
	register(ppc.OpAndisRecord, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64 & 0x%X;", c.r(ins.RA()), c.r(ins.RS()), ins.UIMM()<<16)
		c.recordCompare(c.r(ins.RA()), true)
		return nil
	})
	register(ppc.OpOri, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64 | %d;", c.r(ins.RA()), c.r(ins.RS()), ins.UIMM())
		return nil
	})
	register(ppc.OpOris, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64 | 0x%X;", c.r(ins.RA()), c.r(ins.RS()), ins.UIMM()<<16)
		return nil
	})
	register(ppc.OpXori, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64 ^ %d;", c.r(ins.RA()), c.r(ins.RS()), ins.UIMM())
		return nil
	})
	register(ppc.OpXoris, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64 ^ 0x%X;", c.r(ins.RA()), c.r(ins.RS()), ins.UIMM()<<16)
		return nil
	})

	register(ppc.OpExtsb, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = %s.s8;", c.r(ins.RA()), c.r(ins.RS()))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpExtsh, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = %s.s16;", c.r(ins.RA()), c.r(ins.RS()))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpExtsw, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = %s.s32;", c.r(ins.RA()), c.r(ins.RS()))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpCntlzw, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = std::countl_zero(%s.u32);", c.r(ins.RA()), c.r(ins.RS()))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpCntlzd, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = std::countl_zero(%s.u64);", c.r(ins.RA()), c.r(ins.RS()))
		c.record(ins.RA(), true)
		return nil
	})

	// Rotates. The masks fold to compile-time constants.
	register(ppc.OpRlwinm, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = std::rotl(%s.u32, %d) & 0x%X;",
			c.r(ins.RA()), c.r(ins.RS()), ins.SH(), mask32(ins.MB(), ins.ME()))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpRlwimi, func(c *Context) error {
		ins := c.Ins
		m := mask32(ins.MB(), ins.ME())
		c.line("%s.u64 = (std::rotl(%s.u32, %d) & 0x%X) | (%s.u64 & 0x%X);",
			c.r(ins.RA()), c.r(ins.RS()), ins.SH(), m, c.r(ins.RA()), ^uint64(m))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpRlwnm, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = std::rotl(%s.u32, %s.u8 & 0x1F) & 0x%X;",
			c.r(ins.RA()), c.r(ins.RS()), c.r(ins.RB()), mask32(ins.MB(), ins.ME()))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpRldicl, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = std::rotl(%s.u64, %d) & 0x%X;",
			c.r(ins.RA()), c.r(ins.RS()), ins.SH64(), mask64(ins.MB64(), 63))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpRldicr, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = std::rotl(%s.u64, %d) & 0x%X;",
			c.r(ins.RA()), c.r(ins.RS()), ins.SH64(), mask64(0, ins.MB64()))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpRldimi, func(c *Context) error {
		ins := c.Ins
		m := mask64(ins.MB64(), 63-ins.SH64())
		c.line("%s.u64 = (std::rotl(%s.u64, %d) & 0x%X) | (%s.u64 & 0x%X);",
			c.r(ins.RA()), c.r(ins.RS()), ins.SH64(), m, c.r(ins.RA()), ^m)
		c.record(ins.RA(), true)
		return nil
	})

	// Shifts. Shift counts past the operand width clear the result, so
	// the guest semantics cannot map to a bare host shift.
	register(ppc.OpSlw, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u8 & 0x20 ? 0 : (%s.u32 << (%s.u8 & 0x1F));",
			c.r(ins.RA()), c.r(ins.RB()), c.r(ins.RS()), c.r(ins.RB()))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpSrw, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u8 & 0x20 ? 0 : (%s.u32 >> (%s.u8 & 0x1F));",
			c.r(ins.RA()), c.r(ins.RB()), c.r(ins.RS()), c.r(ins.RB()))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpSld, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u8 & 0x40 ? 0 : (%s.u64 << (%s.u8 & 0x3F));",
			c.r(ins.RA()), c.r(ins.RB()), c.r(ins.RS()), c.r(ins.RB()))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpSrd, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u8 & 0x40 ? 0 : (%s.u64 >> (%s.u8 & 0x3F));",
			c.r(ins.RA()), c.r(ins.RB()), c.r(ins.RS()), c.r(ins.RB()))
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpSraw, func(c *Context) error {
		ins := c.Ins
		s, b := c.r(ins.RS()), c.r(ins.RB())
		c.line("%s.u32 = %s.u32 & 0x3F;", c.temp(), b)
		c.rawLine("\tif (%s.u32 > 31) {", c.temp())
		c.rawLine("\t\t%s.ca = %s.s32 < 0;", c.xer(), s)
		c.rawLine("\t\t%s.s64 = %s.s32 >> 31;", c.r(ins.RA()), s)
		c.rawLine("\t} else {")
		c.rawLine("\t\t%s.ca = %s.s32 < 0 && (%s.u32 & ((1u << %s.u32) - 1)) != 0;", c.xer(), s, s, c.temp())
		c.rawLine("\t\t%s.s64 = %s.s32 >> %s.u32;", c.r(ins.RA()), s, c.temp())
		c.rawLine("\t}")
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpSrawi, func(c *Context) error {
		ins := c.Ins
		s := c.r(ins.RS())
		sh := ins.SH()
		c.line("%s.ca = %s.s32 < 0 && (%s.u32 & 0x%X) != 0;", c.xer(), s, s, uint32(1)<<sh-1)
		c.line("%s.s64 = %s.s32 >> %d;", c.r(ins.RA()), s, sh)
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpSrad, func(c *Context) error {
		ins := c.Ins
		s, b := c.r(ins.RS()), c.r(ins.RB())
		c.line("%s.u32 = %s.u32 & 0x7F;", c.temp(), b)
		c.rawLine("\tif (%s.u32 > 63) {", c.temp())
		c.rawLine("\t\t%s.ca = %s.s64 < 0;", c.xer(), s)
		c.rawLine("\t\t%s.s64 = %s.s64 >> 63;", c.r(ins.RA()), s)
		c.rawLine("\t} else {")
		c.rawLine("\t\t%s.ca = %s.s64 < 0 && (%s.u64 & ((1ull << %s.u32) - 1)) != 0;", c.xer(), s, s, c.temp())
		c.rawLine("\t\t%s.s64 = %s.s64 >> %s.u32;", c.r(ins.RA()), s, c.temp())
		c.rawLine("\t}")
		c.record(ins.RA(), true)
		return nil
	})
	register(ppc.OpSradi, func(c *Context) error {
		ins := c.Ins
		s := c.r(ins.RS())
		sh := ins.SH64()
		c.line("%s.ca = %s.s64 < 0 && (%s.u64 & 0x%X) != 0;", c.xer(), s, s, uint64(1)<<sh-1)
		c.line("%s.s64 = %s.s64 >> %d;", c.r(ins.RA()), s, sh)
		c.record(ins.RA(), true)
		return nil
	})

	// Compares.
	register(ppc.OpCmpwi, func(c *Context) error {
		ins := c.Ins
		c.line("%s.compare<int32_t>(%s.s32, %d, %s);", c.cr(ins.CRFD()), c.r(ins.RA()), ins.SIMM(), c.xer())
		return nil
	})
	register(ppc.OpCmpw, func(c *Context) error {
		ins := c.Ins
		c.line("%s.compare<int32_t>(%s.s32, %s.s32, %s);", c.cr(ins.CRFD()), c.r(ins.RA()), c.r(ins.RB()), c.xer())
		return nil
	})
	register(ppc.OpCmplwi, func(c *Context) error {
		ins := c.Ins
		c.line("%s.compare<uint32_t>(%s.u32, %d, %s);", c.cr(ins.CRFD()), c.r(ins.RA()), ins.UIMM(), c.xer())
		return nil
	})
	register(ppc.OpCmplw, func(c *Context) error {
		ins := c.Ins
		c.line("%s.compare<uint32_t>(%s.u32, %s.u32, %s);", c.cr(ins.CRFD()), c.r(ins.RA()), c.r(ins.RB()), c.xer())
		return nil
	})
	register(ppc.OpCmpdi, func(c *Context) error {
		ins := c.Ins
		c.line("%s.compare<int64_t>(%s.s64, %d, %s);", c.cr(ins.CRFD()), c.r(ins.RA()), ins.SIMM(), c.xer())
		return nil
	})
	register(ppc.OpCmpd, func(c *Context) error {
		ins := c.Ins
		c.line("%s.compare<int64_t>(%s.s64, %s.s64, %s);", c.cr(ins.CRFD()), c.r(ins.RA()), c.r(ins.RB()), c.xer())
		return nil
	})
	register(ppc.OpCmpldi, func(c *Context) error {
		ins := c.Ins
		c.line("%s.compare<uint64_t>(%s.u64, %d, %s);", c.cr(ins.CRFD()), c.r(ins.RA()), ins.UIMM(), c.xer())
		return nil
	})
	register(ppc.OpCmpld, func(c *Context) error {
		ins := c.Ins
		c.line("%s.compare<uint64_t>(%s.u64, %s.u64, %s);", c.cr(ins.CRFD()), c.r(ins.RA()), c.r(ins.RB()), c.xer())
		return nil
	})
}
