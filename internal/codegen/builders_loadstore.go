package codegen

import (
	"ppcrecomp/internal/ppc"
)

// Memory access. The PPC_LOAD_*/PPC_STORE_* macros translate guest
// addresses and swap to host byte order; the brx forms therefore swap a
// second time to recover the little-endian value. Vector accesses go
// through simde and reverse the whole 16 bytes, which every vector
// builder accounts for when it picks lanes.

func registerLoadStore() {
	dLoad := func(macro string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.line("%s.u64 = %s(%s);", c.r(ins.RD()), macro, c.eaD(ins.RA(), ins.SIMM()))
			return nil
		}
	}
	xLoad := func(macro string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.line("%s.u64 = %s(%s);", c.r(ins.RD()), macro, c.eaX(ins.RA(), ins.RB()))
			return nil
		}
	}
	uLoad := func(macro string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.line("%s = %s.u32 + %d;", c.ea(), c.r(ins.RA()), ins.SIMM())
			c.line("%s.u64 = %s(%s);", c.r(ins.RD()), macro, c.ea())
			c.line("%s.u32 = %s;", c.r(ins.RA()), c.ea())
			return nil
		}
	}

	register(ppc.OpLbz, dLoad("PPC_LOAD_U8"))
	register(ppc.OpLhz, dLoad("PPC_LOAD_U16"))
	register(ppc.OpLwz, dLoad("PPC_LOAD_U32"))
	register(ppc.OpLd, dLoad("PPC_LOAD_U64"))
	register(ppc.OpLbzx, xLoad("PPC_LOAD_U8"))
	register(ppc.OpLhzx, xLoad("PPC_LOAD_U16"))
	register(ppc.OpLwzx, xLoad("PPC_LOAD_U32"))
	register(ppc.OpLdx, xLoad("PPC_LOAD_U64"))
	register(ppc.OpLbzu, uLoad("PPC_LOAD_U8"))
	register(ppc.OpLhzu, uLoad("PPC_LOAD_U16"))
	register(ppc.OpLwzu, uLoad("PPC_LOAD_U32"))
	register(ppc.OpLdu, uLoad("PPC_LOAD_U64"))

	register(ppc.OpLha, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = int16_t(PPC_LOAD_U16(%s));", c.r(ins.RD()), c.eaD(ins.RA(), ins.SIMM()))
		return nil
	})
	register(ppc.OpLhax, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = int16_t(PPC_LOAD_U16(%s));", c.r(ins.RD()), c.eaX(ins.RA(), ins.RB()))
		return nil
	})
	register(ppc.OpLwa, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = int32_t(PPC_LOAD_U32(%s));", c.r(ins.RD()), c.eaD(ins.RA(), ins.SIMM()))
		return nil
	})
	register(ppc.OpLwax, func(c *Context) error {
		ins := c.Ins
		c.line("%s.s64 = int32_t(PPC_LOAD_U32(%s));", c.r(ins.RD()), c.eaX(ins.RA(), ins.RB()))
		return nil
	})
	register(ppc.OpLhbrx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = __builtin_bswap16(PPC_LOAD_U16(%s));", c.r(ins.RD()), c.eaX(ins.RA(), ins.RB()))
		return nil
	})
	register(ppc.OpLwbrx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = __builtin_bswap32(PPC_LOAD_U32(%s));", c.r(ins.RD()), c.eaX(ins.RA(), ins.RB()))
		return nil
	})

	dStore := func(macro, field string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.line("%s(%s, %s.%s);", macro, c.eaD(ins.RA(), ins.SIMM()), c.r(ins.RS()), field)
			return nil
		}
	}
	xStore := func(macro, field string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.line("%s(%s, %s.%s);", macro, c.eaX(ins.RA(), ins.RB()), c.r(ins.RS()), field)
			return nil
		}
	}
	uStore := func(macro, field string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.line("%s = %s.u32 + %d;", c.ea(), c.r(ins.RA()), ins.SIMM())
			c.line("%s(%s, %s.%s);", macro, c.ea(), c.r(ins.RS()), field)
			c.line("%s.u32 = %s;", c.r(ins.RA()), c.ea())
			return nil
		}
	}

	register(ppc.OpStb, dStore("PPC_STORE_U8", "u8"))
	register(ppc.OpSth, dStore("PPC_STORE_U16", "u16"))
	register(ppc.OpStw, dStore("PPC_STORE_U32", "u32"))
	register(ppc.OpStd, dStore("PPC_STORE_U64", "u64"))
	register(ppc.OpStbx, xStore("PPC_STORE_U8", "u8"))
	register(ppc.OpSthx, xStore("PPC_STORE_U16", "u16"))
	register(ppc.OpStwx, xStore("PPC_STORE_U32", "u32"))
	register(ppc.OpStdx, xStore("PPC_STORE_U64", "u64"))
	register(ppc.OpStbu, uStore("PPC_STORE_U8", "u8"))
	register(ppc.OpSthu, uStore("PPC_STORE_U16", "u16"))
	register(ppc.OpStwu, uStore("PPC_STORE_U32", "u32"))
	register(ppc.OpStdu, uStore("PPC_STORE_U64", "u64"))

	// Multiple and string forms unroll here, one access per line. lmw
	// with RA inside the loaded range is an invalid form, so the later
	// loads never see a clobbered base.
	register(ppc.OpLmw, func(c *Context) error {
		ins := c.Ins
		for r := ins.RD(); r < 32; r++ {
			c.line("%s.u64 = PPC_LOAD_U32(%s);",
				c.r(r), c.eaD(ins.RA(), ins.SIMM()+4*int32(r-ins.RD())))
		}
		return nil
	})
	register(ppc.OpStmw, func(c *Context) error {
		ins := c.Ins
		for r := ins.RS(); r < 32; r++ {
			c.line("PPC_STORE_U32(%s, %s.u32);",
				c.eaD(ins.RA(), ins.SIMM()+4*int32(r-ins.RS())), c.r(r))
		}
		return nil
	})
	register(ppc.OpLswi, func(c *Context) error {
		ins := c.Ins
		n := ins.RB()
		if n == 0 {
			n = 32
		}
		for i := uint32(0); i < n; i++ {
			r := (ins.RD() + i/4) % 32
			if i%4 == 0 {
				c.line("%s.u64 = 0;", c.r(r))
			}
			c.line("%s.u32 |= uint32_t(PPC_LOAD_U8(%s)) << %d;",
				c.r(r), c.eaD(ins.RA(), int32(i)), 24-(i%4)*8)
		}
		return nil
	})
	register(ppc.OpStswi, func(c *Context) error {
		ins := c.Ins
		n := ins.RB()
		if n == 0 {
			n = 32
		}
		for i := uint32(0); i < n; i++ {
			r := (ins.RS() + i/4) % 32
			c.line("PPC_STORE_U8(%s, uint8_t(%s.u32 >> %d));",
				c.eaD(ins.RA(), int32(i)), c.r(r), 24-(i%4)*8)
		}
		return nil
	})

	register(ppc.OpStwux, func(c *Context) error {
		ins := c.Ins
		c.line("%s = %s.u32 + %s.u32;", c.ea(), c.r(ins.RA()), c.r(ins.RB()))
		c.line("PPC_STORE_U32(%s, %s.u32);", c.ea(), c.r(ins.RS()))
		c.line("%s.u32 = %s;", c.r(ins.RA()), c.ea())
		return nil
	})
	register(ppc.OpSthbrx, func(c *Context) error {
		ins := c.Ins
		c.line("PPC_STORE_U16(%s, __builtin_bswap16(%s.u16));", c.eaX(ins.RA(), ins.RB()), c.r(ins.RS()))
		return nil
	})
	register(ppc.OpStwbrx, func(c *Context) error {
		ins := c.Ins
		c.line("PPC_STORE_U32(%s, __builtin_bswap32(%s.u32));", c.eaX(ins.RA(), ins.RB()), c.r(ins.RS()))
		return nil
	})

	// Load-reserve / store-conditional. The reservation granule is not
	// modeled; the compare-and-swap covers the uses games actually have.
	register(ppc.OpLwarx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = ctx.reserved.u32 = PPC_LOAD_U32(%s);", c.r(ins.RD()), c.eaX(ins.RA(), ins.RB()))
		return nil
	})
	register(ppc.OpLdarx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = ctx.reserved.u64 = PPC_LOAD_U64(%s);", c.r(ins.RD()), c.eaX(ins.RA(), ins.RB()))
		return nil
	})
	register(ppc.OpStwcx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.lt = 0;", c.cr(0))
		c.line("%s.gt = 0;", c.cr(0))
		c.line("%s.eq = PPC_CAS_U32(%s, ctx.reserved.u32, %s.u32);",
			c.cr(0), c.eaX(ins.RA(), ins.RB()), c.r(ins.RS()))
		c.line("%s.so = %s.so;", c.cr(0), c.xer())
		return nil
	})
	register(ppc.OpStdcx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.lt = 0;", c.cr(0))
		c.line("%s.gt = 0;", c.cr(0))
		c.line("%s.eq = PPC_CAS_U64(%s, ctx.reserved.u64, %s.u64);",
			c.cr(0), c.eaX(ins.RA(), ins.RB()), c.r(ins.RS()))
		c.line("%s.so = %s.so;", c.cr(0), c.xer())
		return nil
	})

	// Scalar FP memory. Singles widen on load and narrow on store
	// through the scratch register's f32 view.
	register(ppc.OpLfs, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = PPC_LOAD_U32(%s);", c.temp(), c.eaD(ins.RA(), ins.SIMM()))
		c.line("%s.f64 = %s.f32;", c.f(ins.FD()), c.temp())
		return nil
	})
	register(ppc.OpLfsx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = PPC_LOAD_U32(%s);", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("%s.f64 = %s.f32;", c.f(ins.FD()), c.temp())
		return nil
	})
	register(ppc.OpLfd, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = PPC_LOAD_U64(%s);", c.f(ins.FD()), c.eaD(ins.RA(), ins.SIMM()))
		return nil
	})
	register(ppc.OpLfdx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = PPC_LOAD_U64(%s);", c.f(ins.FD()), c.eaX(ins.RA(), ins.RB()))
		return nil
	})
	register(ppc.OpStfs, func(c *Context) error {
		ins := c.Ins
		c.line("%s.f32 = float(%s.f64);", c.temp(), c.f(ins.FD()))
		c.line("PPC_STORE_U32(%s, %s.u32);", c.eaD(ins.RA(), ins.SIMM()), c.temp())
		return nil
	})
	register(ppc.OpStfsx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.f32 = float(%s.f64);", c.temp(), c.f(ins.FD()))
		c.line("PPC_STORE_U32(%s, %s.u32);", c.eaX(ins.RA(), ins.RB()), c.temp())
		return nil
	})
	register(ppc.OpStfd, func(c *Context) error {
		ins := c.Ins
		c.line("PPC_STORE_U64(%s, %s.u64);", c.eaD(ins.RA(), ins.SIMM()), c.f(ins.FD()))
		return nil
	})
	register(ppc.OpStfdx, func(c *Context) error {
		ins := c.Ins
		c.line("PPC_STORE_U64(%s, %s.u64);", c.eaX(ins.RA(), ins.RB()), c.f(ins.FD()))
		return nil
	})
	register(ppc.OpStfiwx, func(c *Context) error {
		ins := c.Ins
		c.line("PPC_STORE_U32(%s, %s.u32);", c.eaX(ins.RA(), ins.RB()), c.f(ins.FD()))
		return nil
	})

	// Vector memory. Loads reverse all 16 bytes through VectorMaskL so
	// guest lane i lands at host byte 15-i.
	vLoad := func(c *Context, vd uint32, ea string) {
		c.line("simde_mm_store_si128((simde__m128i*)%s.u8, simde_mm_shuffle_epi8(simde_mm_load_si128((simde__m128i*)(base + ((%s) & ~0xF))), simde_mm_load_si128((simde__m128i*)VectorMaskL)));",
			c.v(vd), ea)
	}
	vStore := func(c *Context, vs uint32, ea string) {
		c.line("simde_mm_store_si128((simde__m128i*)(base + ((%s) & ~0xF)), simde_mm_shuffle_epi8(simde_mm_load_si128((simde__m128i*)%s.u8), simde_mm_load_si128((simde__m128i*)VectorMaskL)));",
			c.v(vs), ea)
	}

	for _, op := range []ppc.Opcode{ppc.OpLvx, ppc.OpLvebx, ppc.OpLvehx, ppc.OpLvewx} {
		register(op, func(c *Context) error {
			vLoad(c, c.Ins.VD(), c.eaX(c.Ins.RA(), c.Ins.RB()))
			return nil
		})
	}
	register(ppc.OpStvx, func(c *Context) error {
		vStore(c, c.Ins.VD(), c.eaX(c.Ins.RA(), c.Ins.RB()))
		return nil
	})
	register(ppc.OpStvebx, func(c *Context) error {
		ins := c.Ins
		c.line("%s = %s;", c.ea(), c.eaX(ins.RA(), ins.RB()))
		c.line("PPC_STORE_U8(%s, %s.u8[15 - (%s & 0xF)]);", c.ea(), c.v(ins.VD()), c.ea())
		return nil
	})
	register(ppc.OpStvehx, func(c *Context) error {
		ins := c.Ins
		c.line("%s = (%s) & ~0x1;", c.ea(), c.eaX(ins.RA(), ins.RB()))
		c.line("PPC_STORE_U16(%s, %s.u16[7 - ((%s & 0xF) >> 1)]);", c.ea(), c.v(ins.VD()), c.ea())
		return nil
	})
	register(ppc.OpStvewx, func(c *Context) error {
		ins := c.Ins
		c.line("%s = (%s) & ~0x3;", c.ea(), c.eaX(ins.RA(), ins.RB()))
		c.line("PPC_STORE_U32(%s, %s.u32[3 - ((%s & 0xF) >> 2)]);", c.ea(), c.v(ins.VD()), c.ea())
		return nil
	})

	register(ppc.OpLvlx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = %s;", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("simde_mm_store_si128((simde__m128i*)%s.u8, simde_mm_shuffle_epi8(simde_mm_load_si128((simde__m128i*)(base + (%s.u32 & ~0xF))), simde_mm_load_si128((simde__m128i*)&VectorMaskL[(%s.u32 & 0xF) * 16])));",
			c.v(ins.VD()), c.temp(), c.temp())
		return nil
	})
	register(ppc.OpLvrx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = %s;", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("simde_mm_store_si128((simde__m128i*)%s.u8, %s.u32 & 0xF ? simde_mm_shuffle_epi8(simde_mm_load_si128((simde__m128i*)(base + (%s.u32 & ~0xF))), simde_mm_load_si128((simde__m128i*)&VectorMaskR[(%s.u32 & 0xF) * 16])) : simde_mm_setzero_si128());",
			c.v(ins.VD()), c.temp(), c.temp(), c.temp())
		return nil
	})
	register(ppc.OpStvlx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = %s;", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("for (size_t i = 0; i < (16 - (%s.u32 & 0xF)); i++)", c.temp())
		c.rawLine("\t\tPPC_STORE_U8(%s.u32 + i, %s.u8[15 - i]);", c.temp(), c.v(ins.VD()))
		return nil
	})
	register(ppc.OpStvrx, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = %s;", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("for (size_t i = 0; i < (%s.u32 & 0xF); i++)", c.temp())
		c.rawLine("\t\tPPC_STORE_U8(%s.u32 - i - 1, %s.u8[i]);", c.temp(), c.v(ins.VD()))
		return nil
	})
	register(ppc.OpLvsl, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = %s;", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("simde_mm_store_si128((simde__m128i*)%s.u8, simde_mm_load_si128((simde__m128i*)&VectorShiftTableL[(%s.u32 & 0xF) * 16]));",
			c.v(ins.VD()), c.temp())
		return nil
	})
	register(ppc.OpLvsr, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = %s;", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("simde_mm_store_si128((simde__m128i*)%s.u8, simde_mm_load_si128((simde__m128i*)&VectorShiftTableR[(%s.u32 & 0xF) * 16]));",
			c.v(ins.VD()), c.temp())
		return nil
	})
}
