package codegen

import (
	"ppcrecomp/internal/ppc"
)

// Scalar floating point. Every FPR holds a double; single-precision
// forms round through float. Arithmetic runs with denormals enabled, so
// each op first makes sure the host left vector flush-to-zero mode.

func registerFPU() {
	bin := func(expr string, single bool) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.setCSR(csrScalar)
			rhs := expr
			if single {
				rhs = "float(" + expr + ")"
			}
			c.line("%s.f64 = "+rhs+";", c.f(ins.FD()), c.f(ins.FA()), c.f(ins.FB()))
			return nil
		}
	}
	register(ppc.OpFadd, bin("%s.f64 + %s.f64", false))
	register(ppc.OpFadds, bin("%s.f64 + %s.f64", true))
	register(ppc.OpFsub, bin("%s.f64 - %s.f64", false))
	register(ppc.OpFsubs, bin("%s.f64 - %s.f64", true))
	register(ppc.OpFdiv, bin("%s.f64 / %s.f64", false))
	register(ppc.OpFdivs, bin("%s.f64 / %s.f64", true))

	mul := func(single bool) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.setCSR(csrScalar)
			if single {
				c.line("%s.f64 = float(%s.f64 * %s.f64);", c.f(ins.FD()), c.f(ins.FA()), c.f(ins.FC()))
			} else {
				c.line("%s.f64 = %s.f64 * %s.f64;", c.f(ins.FD()), c.f(ins.FA()), c.f(ins.FC()))
			}
			return nil
		}
	}
	register(ppc.OpFmul, mul(false))
	register(ppc.OpFmuls, mul(true))

	// a*c +/- b, optionally negated and/or rounded to single.
	fma := func(tmpl string, single bool) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.setCSR(csrScalar)
			if single {
				tmpl = "float(" + tmpl + ")"
			}
			c.line("%s.f64 = "+tmpl+";", c.f(ins.FD()), c.f(ins.FA()), c.f(ins.FC()), c.f(ins.FB()))
			return nil
		}
	}
	register(ppc.OpFmadd, fma("%s.f64 * %s.f64 + %s.f64", false))
	register(ppc.OpFmadds, fma("%s.f64 * %s.f64 + %s.f64", true))
	register(ppc.OpFmsub, fma("%s.f64 * %s.f64 - %s.f64", false))
	register(ppc.OpFmsubs, fma("%s.f64 * %s.f64 - %s.f64", true))
	register(ppc.OpFnmadd, fma("-(%s.f64 * %s.f64 + %s.f64)", false))
	register(ppc.OpFnmadds, fma("-(%s.f64 * %s.f64 + %s.f64)", true))
	register(ppc.OpFnmsub, fma("-(%s.f64 * %s.f64 - %s.f64)", false))
	register(ppc.OpFnmsubs, fma("-(%s.f64 * %s.f64 - %s.f64)", true))

	// Sign manipulation is pure bit arithmetic, no mode switch needed.
	register(ppc.OpFabs, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64 & ~0x8000000000000000;", c.f(ins.FD()), c.f(ins.FB()))
		return nil
	})
	register(ppc.OpFnabs, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64 | 0x8000000000000000;", c.f(ins.FD()), c.f(ins.FB()))
		return nil
	})
	register(ppc.OpFneg, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64 ^ 0x8000000000000000;", c.f(ins.FD()), c.f(ins.FB()))
		return nil
	})
	register(ppc.OpFmr, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u64 = %s.u64;", c.f(ins.FD()), c.f(ins.FB()))
		return nil
	})

	register(ppc.OpFrsp, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrScalar)
		c.line("%s.f64 = float(%s.f64);", c.f(ins.FD()), c.f(ins.FB()))
		return nil
	})
	register(ppc.OpFsel, func(c *Context) error {
		ins := c.Ins
		c.line("%s.f64 = %s.f64 >= 0.0 ? %s.f64 : %s.f64;",
			c.f(ins.FD()), c.f(ins.FA()), c.f(ins.FC()), c.f(ins.FB()))
		return nil
	})
	register(ppc.OpFsqrt, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrScalar)
		c.line("%s.f64 = sqrt(%s.f64);", c.f(ins.FD()), c.f(ins.FB()))
		return nil
	})
	register(ppc.OpFsqrts, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrScalar)
		c.line("%s.f64 = float(sqrt(%s.f64));", c.f(ins.FD()), c.f(ins.FB()))
		return nil
	})
	register(ppc.OpFres, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrScalar)
		c.line("%s.f64 = float(1.0 / %s.f64);", c.f(ins.FD()), c.f(ins.FB()))
		return nil
	})
	register(ppc.OpFrsqrte, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrScalar)
		c.line("%s.f64 = 1.0 / sqrt(%s.f64);", c.f(ins.FD()), c.f(ins.FB()))
		return nil
	})

	register(ppc.OpFcfid, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrScalar)
		c.line("%s.f64 = double(%s.s64);", c.f(ins.FD()), c.f(ins.FB()))
		return nil
	})
	register(ppc.OpFctid, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrScalar)
		c.line("%s.s64 = (%s.f64 > double(LLONG_MAX)) ? LLONG_MAX : simde_mm_cvtsd_si64(simde_mm_load_sd(&%s.f64));",
			c.f(ins.FD()), c.f(ins.FB()), c.f(ins.FB()))
		return nil
	})
	register(ppc.OpFctidz, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrScalar)
		c.line("%s.s64 = (%s.f64 > double(LLONG_MAX)) ? LLONG_MAX : simde_mm_cvttsd_si64(simde_mm_load_sd(&%s.f64));",
			c.f(ins.FD()), c.f(ins.FB()), c.f(ins.FB()))
		return nil
	})
	register(ppc.OpFctiw, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrScalar)
		c.line("%s.s64 = (%s.f64 > double(INT_MAX)) ? INT_MAX : simde_mm_cvtsd_si32(simde_mm_load_sd(&%s.f64));",
			c.f(ins.FD()), c.f(ins.FB()), c.f(ins.FB()))
		return nil
	})
	register(ppc.OpFctiwz, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrScalar)
		c.line("%s.s64 = (%s.f64 > double(INT_MAX)) ? INT_MAX : simde_mm_cvttsd_si32(simde_mm_load_sd(&%s.f64));",
			c.f(ins.FD()), c.f(ins.FB()), c.f(ins.FB()))
		return nil
	})

	register(ppc.OpFcmpu, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrScalar)
		c.line("%s.compare(%s.f64, %s.f64);", c.cr(ins.CRFD()), c.f(ins.FA()), c.f(ins.FB()))
		return nil
	})

	register(ppc.OpMffs, func(c *Context) error {
		c.line("%s.u64 = ctx.fpscr.loadFromHost();", c.f(c.Ins.FD()))
		return nil
	})
	register(ppc.OpMtfsf, func(c *Context) error {
		c.line("ctx.fpscr.storeFromGuest(%s.u32);", c.f(c.Ins.FB()))
		return nil
	})
}
