package codegen

import (
	"fmt"

	"ppcrecomp/internal/ppc"
)

// VMX lowering. Vector registers hold the guest's 16 bytes fully
// reversed (guest lane i at host byte 15-i), so positional element ops
// translate directly while anything lane-indexed flips its index.
// Bodies are shared with the VMX128 re-encodings, which differ only in
// where the register numbers live.

func (c *Context) vps(i uint32) string {
	return fmt.Sprintf("simde_mm_load_ps(%s.f32)", c.v(i))
}

func (c *Context) vsi(i uint32) string {
	return fmt.Sprintf("simde_mm_load_si128((simde__m128i*)%s.u8)", c.v(i))
}

func (c *Context) storePS(d uint32, expr string) {
	c.line("simde_mm_store_ps(%s.f32, %s);", c.v(d), expr)
}

func (c *Context) storeSI(d uint32, expr string) {
	c.line("simde_mm_store_si128((simde__m128i*)%s.u8, %s);", c.v(d), expr)
}

// storeVTemp copies the scratch vector into the destination; loop-based
// lowerings build there so a destination aliasing a source stays safe.
func (c *Context) storeVTemp(d uint32) {
	c.storeSI(d, fmt.Sprintf("simde_mm_load_si128((simde__m128i*)%s.u8)", c.vTemp()))
}

// vfloat3 is the generic three-operand float body.
func vfloat3(c *Context, intrin string, d, a, b uint32) {
	c.setCSR(csrVector)
	c.storePS(d, fmt.Sprintf("%s(%s, %s)", intrin, c.vps(a), c.vps(b)))
}

// vint3 is the generic three-operand integer body.
func vint3(c *Context, intrin string, d, a, b uint32) {
	c.storeSI(d, fmt.Sprintf("%s(%s, %s)", intrin, c.vsi(a), c.vsi(b)))
}

func vmaddfpBody(c *Context, d, a, b, acc uint32) {
	c.setCSR(csrVector)
	c.storePS(d, fmt.Sprintf("simde_mm_add_ps(simde_mm_mul_ps(%s, %s), %s)",
		c.vps(a), c.vps(b), c.vps(acc)))
}

func vnmsubfpBody(c *Context, d, a, b, acc uint32) {
	c.setCSR(csrVector)
	c.storePS(d, fmt.Sprintf("simde_mm_xor_ps(simde_mm_sub_ps(simde_mm_mul_ps(%s, %s), %s), simde_mm_castsi128_ps(simde_mm_set1_epi32(int(0x80000000))))",
		c.vps(a), c.vps(b), c.vps(acc)))
}

func vandcBody(c *Context, d, a, b uint32) {
	// a & ~b; andnot negates its first operand.
	c.storeSI(d, fmt.Sprintf("simde_mm_andnot_si128(%s, %s)", c.vsi(b), c.vsi(a)))
}

func vnorBody(c *Context, d, a, b uint32) {
	c.storeSI(d, fmt.Sprintf("simde_mm_andnot_si128(simde_mm_or_si128(%s, %s), simde_mm_set1_epi32(-1))",
		c.vsi(a), c.vsi(b)))
}

func vselBody(c *Context, d, a, b, m uint32) {
	c.storeSI(d, fmt.Sprintf("simde_mm_or_si128(simde_mm_and_si128(%s, %s), simde_mm_andnot_si128(%s, %s))",
		c.vsi(m), c.vsi(b), c.vsi(m), c.vsi(a)))
}

func vpermBody(c *Context, d, a, b, sel uint32) {
	c.line("for (size_t i = 0; i < 16; i++) {")
	c.rawLine("\t\tuint8_t s = %s.u8[i] & 0x1F;", c.v(sel))
	c.rawLine("\t\t%s.u8[i] = s & 0x10 ? %s.u8[15 - (s & 0xF)] : %s.u8[15 - (s & 0xF)];",
		c.vTemp(), c.v(b), c.v(a))
	c.rawLine("\t}")
	c.storeVTemp(d)
}

func vsldoiBody(c *Context, d, a, b, shb uint32) {
	c.storeSI(d, fmt.Sprintf("simde_mm_alignr_epi8(%s, %s, %d)", c.vsi(a), c.vsi(b), 16-shb))
}

// Unsigned compares bias both sides into signed range.
func vcmpgtuBody(c *Context, d, a, b uint32, width string, bias string) {
	c.storeSI(d, fmt.Sprintf("simde_mm_cmpgt_%s(simde_mm_xor_si128(%s, simde_mm_set1_%s(%s)), simde_mm_xor_si128(%s, simde_mm_set1_%s(%s)))",
		width, c.vsi(a), width, bias, c.vsi(b), width, bias))
}

func vcmpbfpBody(c *Context, d, a, b uint32) {
	c.setCSR(csrVector)
	c.storeSI(d, fmt.Sprintf("simde_mm_or_si128("+
		"simde_mm_andnot_si128(simde_mm_castps_si128(simde_mm_cmple_ps(%s, %s)), simde_mm_set1_epi32(int(0x80000000))), "+
		"simde_mm_andnot_si128(simde_mm_castps_si128(simde_mm_cmpge_ps(%s, simde_mm_xor_ps(%s, simde_mm_castsi128_ps(simde_mm_set1_epi32(int(0x80000000)))))), simde_mm_set1_epi32(0x40000000)))",
		c.vps(a), c.vps(b), c.vps(a), c.vps(b)))
}

// recordCR6 reflects an all-lanes/no-lanes compare result into CR6.
func (c *Context) recordCR6(d uint32, float bool) {
	if !c.Ins.IsRecordForm() {
		return
	}
	if float {
		c.line("%s.setFromMask(simde_mm_load_ps(%s.f32), 0xF);", c.cr(6), c.v(d))
	} else {
		c.line("%s.setFromMask(%s, 0xFFFF);", c.cr(6), c.vsi(d))
	}
}

func vaddswsBody(c *Context, d, a, b uint32) {
	c.line("for (size_t i = 0; i < 4; i++) {")
	c.rawLine("\t\tint32_t lhs = %s.s32[i], rhs = %s.s32[i];", c.v(a), c.v(b))
	c.rawLine("\t\tint32_t sum = int32_t(uint32_t(lhs) + uint32_t(rhs));")
	c.rawLine("\t\t%s.s32[i] = ((lhs ^ sum) & (rhs ^ sum)) < 0 ? (lhs >> 31) ^ 0x7FFFFFFF : sum;", c.vTemp())
	c.rawLine("\t}")
	c.storeVTemp(d)
}

func vsubswsBody(c *Context, d, a, b uint32) {
	c.line("for (size_t i = 0; i < 4; i++) {")
	c.rawLine("\t\tint32_t lhs = %s.s32[i], rhs = %s.s32[i];", c.v(a), c.v(b))
	c.rawLine("\t\tint32_t diff = int32_t(uint32_t(lhs) - uint32_t(rhs));")
	c.rawLine("\t\t%s.s32[i] = ((lhs ^ rhs) & (lhs ^ diff)) < 0 ? (lhs >> 31) ^ 0x7FFFFFFF : diff;", c.vTemp())
	c.rawLine("\t}")
	c.storeVTemp(d)
}

func vadduwsBody(c *Context, d, a, b uint32) {
	c.line("for (size_t i = 0; i < 4; i++) {")
	c.rawLine("\t\tuint64_t sum = uint64_t(%s.u32[i]) + uint64_t(%s.u32[i]);", c.v(a), c.v(b))
	c.rawLine("\t\t%s.u32[i] = sum > 0xFFFFFFFF ? 0xFFFFFFFF : uint32_t(sum);", c.vTemp())
	c.rawLine("\t}")
	c.storeVTemp(d)
}

func vsubuwsBody(c *Context, d, a, b uint32) {
	c.line("for (size_t i = 0; i < 4; i++)")
	c.rawLine("\t\t%s.u32[i] = %s.u32[i] < %s.u32[i] ? 0 : %s.u32[i] - %s.u32[i];",
		c.vTemp(), c.v(a), c.v(b), c.v(a), c.v(b))
	c.storeVTemp(d)
}

func vspltBody(c *Context, d, b, idx uint32, kind byte) {
	switch kind {
	case 'b':
		c.storeSI(d, fmt.Sprintf("simde_mm_set1_epi8(%s.u8[%d])", c.v(b), 15-idx))
	case 'h':
		c.storeSI(d, fmt.Sprintf("simde_mm_set1_epi16(%s.u16[%d])", c.v(b), 7-idx))
	case 'w':
		c.storeSI(d, fmt.Sprintf("simde_mm_set1_epi32(%s.u32[%d])", c.v(b), 3-idx))
	}
}

func vcfsxBody(c *Context, d, b, scale uint32) {
	c.setCSR(csrVector)
	c.storePS(d, fmt.Sprintf("simde_mm_mul_ps(simde_mm_cvtepi32_ps(%s), simde_mm_set1_ps(%v))",
		c.vsi(b), floatLit(1.0/float64(uint64(1)<<scale))))
}

func vcfuxBody(c *Context, d, b, scale uint32) {
	c.setCSR(csrVector)
	c.line("for (size_t i = 0; i < 4; i++)")
	c.rawLine("\t\t%s.f32[i] = float(double(%s.u32[i]) * %v);",
		c.vTemp(), c.v(b), floatLit(1.0/float64(uint64(1)<<scale)))
	c.storeVTemp(d)
}

func vctsxsBody(c *Context, d, b, scale uint32) {
	c.setCSR(csrVector)
	c.line("for (size_t i = 0; i < 4; i++) {")
	c.rawLine("\t\tdouble x = double(%s.f32[i]) * %v;", c.v(b), floatLit(float64(uint64(1)<<scale)))
	c.rawLine("\t\t%s.s32[i] = x != x ? 0 : x >= 2147483647.0 ? 0x7FFFFFFF : x < -2147483648.0 ? int32_t(0x80000000) : int32_t(x);", c.vTemp())
	c.rawLine("\t}")
	c.storeVTemp(d)
}

func vctuxsBody(c *Context, d, b, scale uint32) {
	c.setCSR(csrVector)
	c.line("for (size_t i = 0; i < 4; i++) {")
	c.rawLine("\t\tdouble x = double(%s.f32[i]) * %v;", c.v(b), floatLit(float64(uint64(1)<<scale)))
	c.rawLine("\t\t%s.u32[i] = x != x ? 0 : x >= 4294967295.0 ? 0xFFFFFFFF : x < 0.0 ? 0 : uint32_t(x);", c.vTemp())
	c.rawLine("\t}")
	c.storeVTemp(d)
}

func vrfiBody(c *Context, d, b uint32, mode string) {
	c.setCSR(csrVector)
	c.storePS(d, fmt.Sprintf("simde_mm_round_ps(%s, %s | SIMDE_MM_FROUND_NO_EXC)", c.vps(b), mode))
}

func vrefpBody(c *Context, d, b uint32) {
	c.setCSR(csrVector)
	c.storePS(d, fmt.Sprintf("simde_mm_div_ps(simde_mm_set1_ps(1.0f), %s)", c.vps(b)))
}

func vrsqrtefpBody(c *Context, d, b uint32) {
	c.setCSR(csrVector)
	c.storePS(d, fmt.Sprintf("simde_mm_div_ps(simde_mm_set1_ps(1.0f), simde_mm_sqrt_ps(%s))", c.vps(b)))
}

func vexptefpBody(c *Context, d, b uint32) {
	c.setCSR(csrVector)
	for i := 0; i < 4; i++ {
		c.line("%s.f32[%d] = exp2f(%s.f32[%d]);", c.vTemp(), i, c.v(b), i)
	}
	c.storeVTemp(d)
}

func vlogefpBody(c *Context, d, b uint32) {
	c.setCSR(csrVector)
	for i := 0; i < 4; i++ {
		c.line("%s.f32[%d] = log2f(%s.f32[%d]);", c.vTemp(), i, c.v(b), i)
	}
	c.storeVTemp(d)
}

// Per-element shifts have no SSE2 form; the loops stay lane-aligned so
// no index flipping applies.
func vshiftBody(c *Context, d, a, b uint32, lanes int, expr string) {
	c.line("for (size_t i = 0; i < %d; i++)", lanes)
	c.rawLine("\t\t"+expr+";", c.vTemp(), c.v(a), c.v(b))
	c.storeVTemp(d)
}

func vslBody(c *Context, d, a, b uint32) {
	c.line("%s.u32 = %s.u8[0] & 7;", c.temp(), c.v(b))
	c.line("for (size_t i = 15; i > 0; i--)")
	c.rawLine("\t\t%s.u8[i] = (%s.u8[i] << %s.u32) | (%s.u32 ? %s.u8[i - 1] >> (8 - %s.u32) : 0);",
		c.vTemp(), c.v(a), c.temp(), c.temp(), c.v(a), c.temp())
	c.line("%s.u8[0] = %s.u8[0] << %s.u32;", c.vTemp(), c.v(a), c.temp())
	c.storeVTemp(d)
}

func vsrBody(c *Context, d, a, b uint32) {
	c.line("%s.u32 = %s.u8[0] & 7;", c.temp(), c.v(b))
	c.line("for (size_t i = 0; i < 15; i++)")
	c.rawLine("\t\t%s.u8[i] = (%s.u8[i] >> %s.u32) | (%s.u32 ? %s.u8[i + 1] << (8 - %s.u32) : 0);",
		c.vTemp(), c.v(a), c.temp(), c.temp(), c.v(a), c.temp())
	c.line("%s.u8[15] = %s.u8[15] >> %s.u32;", c.vTemp(), c.v(a), c.temp())
	c.storeVTemp(d)
}

func vsloBody(c *Context, d, a, b uint32) {
	c.line("%s.u32 = (%s.u8[0] >> 3) & 0xF;", c.temp(), c.v(b))
	c.line("for (size_t i = 0; i < 16; i++)")
	c.rawLine("\t\t%s.u8[i] = i >= %s.u32 ? %s.u8[i - %s.u32] : 0;", c.vTemp(), c.temp(), c.v(a), c.temp())
	c.storeVTemp(d)
}

func vsroBody(c *Context, d, a, b uint32) {
	c.line("%s.u32 = (%s.u8[0] >> 3) & 0xF;", c.temp(), c.v(b))
	c.line("for (size_t i = 0; i < 16; i++)")
	c.rawLine("\t\t%s.u8[i] = i + %s.u32 < 16 ? %s.u8[i + %s.u32] : 0;", c.vTemp(), c.temp(), c.v(a), c.temp())
	c.storeVTemp(d)
}

// Packs narrow the concatenation a||b. After the host reversal the low
// half of the result comes from b, so b always feeds the first packer
// operand.
func vpkBody(c *Context, d, a, b uint32, expr string) {
	c.storeSI(d, fmt.Sprintf(expr, c.vsi(b), c.vsi(a)))
}

func registerVector() {
	// Float arithmetic.
	f3 := func(intrin string) builderFn {
		return func(c *Context) error {
			vfloat3(c, intrin, c.Ins.VD(), c.Ins.VA(), c.Ins.VB())
			return nil
		}
	}
	register(ppc.OpVaddfp, f3("simde_mm_add_ps"))
	register(ppc.OpVsubfp, f3("simde_mm_sub_ps"))
	register(ppc.OpVmaxfp, f3("simde_mm_max_ps"))
	register(ppc.OpVminfp, f3("simde_mm_min_ps"))
	register(ppc.OpVmaddfp, func(c *Context) error {
		// d = a*c + b
		vmaddfpBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VC(), c.Ins.VB())
		return nil
	})
	register(ppc.OpVnmsubfp, func(c *Context) error {
		vnmsubfpBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VC(), c.Ins.VB())
		return nil
	})

	// Logic.
	i3 := func(intrin string) builderFn {
		return func(c *Context) error {
			vint3(c, intrin, c.Ins.VD(), c.Ins.VA(), c.Ins.VB())
			return nil
		}
	}
	register(ppc.OpVand, i3("simde_mm_and_si128"))
	register(ppc.OpVor, i3("simde_mm_or_si128"))
	register(ppc.OpVxor, i3("simde_mm_xor_si128"))
	register(ppc.OpVandc, func(c *Context) error {
		vandcBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB())
		return nil
	})
	register(ppc.OpVnor, func(c *Context) error {
		vnorBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB())
		return nil
	})
	register(ppc.OpVsel, func(c *Context) error {
		vselBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), c.Ins.VC())
		return nil
	})
	register(ppc.OpVperm, func(c *Context) error {
		vpermBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), c.Ins.VC())
		return nil
	})
	register(ppc.OpVsldoi, func(c *Context) error {
		vsldoiBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), c.Ins.VC()&0xF)
		return nil
	})

	// Integer add/sub.
	register(ppc.OpVaddubm, i3("simde_mm_add_epi8"))
	register(ppc.OpVadduhm, i3("simde_mm_add_epi16"))
	register(ppc.OpVadduwm, i3("simde_mm_add_epi32"))
	register(ppc.OpVaddubs, i3("simde_mm_adds_epu8"))
	register(ppc.OpVadduhs, i3("simde_mm_adds_epu16"))
	register(ppc.OpVaddsbs, i3("simde_mm_adds_epi8"))
	register(ppc.OpVaddshs, i3("simde_mm_adds_epi16"))
	register(ppc.OpVsububm, i3("simde_mm_sub_epi8"))
	register(ppc.OpVsubuhm, i3("simde_mm_sub_epi16"))
	register(ppc.OpVsubuwm, i3("simde_mm_sub_epi32"))
	register(ppc.OpVsububs, i3("simde_mm_subs_epu8"))
	register(ppc.OpVsubuhs, i3("simde_mm_subs_epu16"))
	register(ppc.OpVsubsbs, i3("simde_mm_subs_epi8"))
	register(ppc.OpVsubshs, i3("simde_mm_subs_epi16"))
	register(ppc.OpVaddsws, func(c *Context) error {
		vaddswsBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB())
		return nil
	})
	register(ppc.OpVsubsws, func(c *Context) error {
		vsubswsBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB())
		return nil
	})
	register(ppc.OpVadduws, func(c *Context) error {
		vadduwsBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB())
		return nil
	})
	register(ppc.OpVsubuws, func(c *Context) error {
		vsubuwsBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB())
		return nil
	})

	// Averages.
	register(ppc.OpVavgub, i3("simde_mm_avg_epu8"))
	register(ppc.OpVavguh, i3("simde_mm_avg_epu16"))
	avgLoop := func(lanes int, expr string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			vshiftBody(c, ins.VD(), ins.VA(), ins.VB(), lanes, expr)
			return nil
		}
	}
	register(ppc.OpVavguw, avgLoop(4, "%s.u32[i] = uint32_t((uint64_t(%s.u32[i]) + uint64_t(%s.u32[i]) + 1) >> 1)"))
	register(ppc.OpVavgsb, avgLoop(16, "%s.s8[i] = int8_t((int16_t(%s.s8[i]) + int16_t(%s.s8[i]) + 1) >> 1)"))
	register(ppc.OpVavgsh, avgLoop(8, "%s.s16[i] = int16_t((int32_t(%s.s16[i]) + int32_t(%s.s16[i]) + 1) >> 1)"))
	register(ppc.OpVavgsw, avgLoop(4, "%s.s32[i] = int32_t((int64_t(%s.s32[i]) + int64_t(%s.s32[i]) + 1) >> 1)"))

	// Min/max.
	register(ppc.OpVmaxub, i3("simde_mm_max_epu8"))
	register(ppc.OpVmaxuh, i3("simde_mm_max_epu16"))
	register(ppc.OpVmaxuw, i3("simde_mm_max_epu32"))
	register(ppc.OpVmaxsb, i3("simde_mm_max_epi8"))
	register(ppc.OpVmaxsh, i3("simde_mm_max_epi16"))
	register(ppc.OpVmaxsw, i3("simde_mm_max_epi32"))
	register(ppc.OpVminub, i3("simde_mm_min_epu8"))
	register(ppc.OpVminuh, i3("simde_mm_min_epu16"))
	register(ppc.OpVminuw, i3("simde_mm_min_epu32"))
	register(ppc.OpVminsb, i3("simde_mm_min_epi8"))
	register(ppc.OpVminsh, i3("simde_mm_min_epi16"))
	register(ppc.OpVminsw, i3("simde_mm_min_epi32"))

	// Compares.
	icmp := func(intrin string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			vint3(c, intrin, ins.VD(), ins.VA(), ins.VB())
			c.recordCR6(ins.VD(), false)
			return nil
		}
	}
	register(ppc.OpVcmpequb, icmp("simde_mm_cmpeq_epi8"))
	register(ppc.OpVcmpequh, icmp("simde_mm_cmpeq_epi16"))
	register(ppc.OpVcmpequw, icmp("simde_mm_cmpeq_epi32"))
	register(ppc.OpVcmpgtsb, icmp("simde_mm_cmpgt_epi8"))
	register(ppc.OpVcmpgtsh, icmp("simde_mm_cmpgt_epi16"))
	register(ppc.OpVcmpgtsw, icmp("simde_mm_cmpgt_epi32"))
	ucmp := func(width, bias string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			vcmpgtuBody(c, ins.VD(), ins.VA(), ins.VB(), width, bias)
			c.recordCR6(ins.VD(), false)
			return nil
		}
	}
	register(ppc.OpVcmpgtub, ucmp("epi8", "int8_t(0x80)"))
	register(ppc.OpVcmpgtuh, ucmp("epi16", "int16_t(0x8000)"))
	register(ppc.OpVcmpgtuw, ucmp("epi32", "int(0x80000000)"))
	fcmp := func(intrin string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.setCSR(csrVector)
			c.storePS(ins.VD(), fmt.Sprintf("%s(%s, %s)", intrin, c.vps(ins.VA()), c.vps(ins.VB())))
			c.recordCR6(ins.VD(), true)
			return nil
		}
	}
	register(ppc.OpVcmpeqfp, fcmp("simde_mm_cmpeq_ps"))
	register(ppc.OpVcmpgefp, fcmp("simde_mm_cmpge_ps"))
	register(ppc.OpVcmpgtfp, fcmp("simde_mm_cmpgt_ps"))
	register(ppc.OpVcmpbfp, func(c *Context) error {
		ins := c.Ins
		vcmpbfpBody(c, ins.VD(), ins.VA(), ins.VB())
		c.recordCR6(ins.VD(), false)
		return nil
	})

	// Merges. unpackhi on the reversed layout yields the guest's high
	// merge with b leading.
	register(ppc.OpVmrghb, func(c *Context) error {
		vint3(c, "simde_mm_unpackhi_epi8", c.Ins.VD(), c.Ins.VB(), c.Ins.VA())
		return nil
	})
	register(ppc.OpVmrghh, func(c *Context) error {
		vint3(c, "simde_mm_unpackhi_epi16", c.Ins.VD(), c.Ins.VB(), c.Ins.VA())
		return nil
	})
	register(ppc.OpVmrghw, func(c *Context) error {
		vint3(c, "simde_mm_unpackhi_epi32", c.Ins.VD(), c.Ins.VB(), c.Ins.VA())
		return nil
	})
	register(ppc.OpVmrglb, func(c *Context) error {
		vint3(c, "simde_mm_unpacklo_epi8", c.Ins.VD(), c.Ins.VB(), c.Ins.VA())
		return nil
	})
	register(ppc.OpVmrglh, func(c *Context) error {
		vint3(c, "simde_mm_unpacklo_epi16", c.Ins.VD(), c.Ins.VB(), c.Ins.VA())
		return nil
	})
	register(ppc.OpVmrglw, func(c *Context) error {
		vint3(c, "simde_mm_unpacklo_epi32", c.Ins.VD(), c.Ins.VB(), c.Ins.VA())
		return nil
	})

	// Splats. The immediate indexes guest lanes.
	register(ppc.OpVspltb, func(c *Context) error {
		vspltBody(c, c.Ins.VD(), c.Ins.VB(), c.Ins.VA()&0xF, 'b')
		return nil
	})
	register(ppc.OpVsplth, func(c *Context) error {
		vspltBody(c, c.Ins.VD(), c.Ins.VB(), c.Ins.VA()&0x7, 'h')
		return nil
	})
	register(ppc.OpVspltw, func(c *Context) error {
		vspltBody(c, c.Ins.VD(), c.Ins.VB(), c.Ins.VA()&0x3, 'w')
		return nil
	})
	splatImm := func(kind string) builderFn {
		return func(c *Context) error {
			imm := int32(c.Ins.VA())
			if imm > 15 {
				imm -= 32
			}
			c.storeSI(c.Ins.VD(), fmt.Sprintf("simde_mm_set1_%s(%d)", kind, imm))
			return nil
		}
	}
	register(ppc.OpVspltisb, splatImm("epi8"))
	register(ppc.OpVspltish, splatImm("epi16"))
	register(ppc.OpVspltisw, splatImm("epi32"))

	// Shifts and rotates.
	register(ppc.OpVslb, func(c *Context) error {
		vshiftBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), 16, "%s.u8[i] = %s.u8[i] << (%s.u8[i] & 7)")
		return nil
	})
	register(ppc.OpVslh, func(c *Context) error {
		vshiftBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), 8, "%s.u16[i] = %s.u16[i] << (%s.u16[i] & 15)")
		return nil
	})
	register(ppc.OpVslw, func(c *Context) error {
		vshiftBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), 4, "%s.u32[i] = %s.u32[i] << (%s.u32[i] & 31)")
		return nil
	})
	register(ppc.OpVsrb, func(c *Context) error {
		vshiftBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), 16, "%s.u8[i] = %s.u8[i] >> (%s.u8[i] & 7)")
		return nil
	})
	register(ppc.OpVsrh, func(c *Context) error {
		vshiftBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), 8, "%s.u16[i] = %s.u16[i] >> (%s.u16[i] & 15)")
		return nil
	})
	register(ppc.OpVsrw, func(c *Context) error {
		vshiftBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), 4, "%s.u32[i] = %s.u32[i] >> (%s.u32[i] & 31)")
		return nil
	})
	register(ppc.OpVsrab, func(c *Context) error {
		vshiftBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), 16, "%s.s8[i] = %s.s8[i] >> (%s.u8[i] & 7)")
		return nil
	})
	register(ppc.OpVsrah, func(c *Context) error {
		vshiftBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), 8, "%s.s16[i] = %s.s16[i] >> (%s.u16[i] & 15)")
		return nil
	})
	register(ppc.OpVsraw, func(c *Context) error {
		vshiftBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), 4, "%s.s32[i] = %s.s32[i] >> (%s.u32[i] & 31)")
		return nil
	})
	register(ppc.OpVrlb, func(c *Context) error {
		vshiftBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), 16, "%s.u8[i] = std::rotl(%s.u8[i], %s.u8[i] & 7)")
		return nil
	})
	register(ppc.OpVrlh, func(c *Context) error {
		vshiftBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), 8, "%s.u16[i] = std::rotl(%s.u16[i], %s.u16[i] & 15)")
		return nil
	})
	register(ppc.OpVrlw, func(c *Context) error {
		vshiftBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), 4, "%s.u32[i] = std::rotl(%s.u32[i], %s.u32[i] & 31)")
		return nil
	})
	register(ppc.OpVsl, func(c *Context) error {
		vslBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB())
		return nil
	})
	register(ppc.OpVsr, func(c *Context) error {
		vsrBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB())
		return nil
	})
	register(ppc.OpVslo, func(c *Context) error {
		vsloBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB())
		return nil
	})
	register(ppc.OpVsro, func(c *Context) error {
		vsroBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB())
		return nil
	})

	// Packs and unpacks.
	pack := func(expr string) builderFn {
		return func(c *Context) error {
			vpkBody(c, c.Ins.VD(), c.Ins.VA(), c.Ins.VB(), expr)
			return nil
		}
	}
	register(ppc.OpVpkuhum, pack("simde_mm_packus_epi16(simde_mm_and_si128(%s, simde_mm_set1_epi16(0xFF)), simde_mm_and_si128(%s, simde_mm_set1_epi16(0xFF)))"))
	register(ppc.OpVpkuwum, pack("simde_mm_packus_epi32(simde_mm_and_si128(%s, simde_mm_set1_epi32(0xFFFF)), simde_mm_and_si128(%s, simde_mm_set1_epi32(0xFFFF)))"))
	register(ppc.OpVpkuhus, pack("simde_mm_packus_epi16(simde_mm_min_epu16(%s, simde_mm_set1_epi16(0xFF)), simde_mm_min_epu16(%s, simde_mm_set1_epi16(0xFF)))"))
	register(ppc.OpVpkuwus, pack("simde_mm_packus_epi32(simde_mm_min_epu32(%s, simde_mm_set1_epi32(0xFFFF)), simde_mm_min_epu32(%s, simde_mm_set1_epi32(0xFFFF)))"))
	register(ppc.OpVpkshss, pack("simde_mm_packs_epi16(%s, %s)"))
	register(ppc.OpVpkshus, pack("simde_mm_packus_epi16(%s, %s)"))
	register(ppc.OpVpkswss, pack("simde_mm_packs_epi32(%s, %s)"))
	register(ppc.OpVpkswus, pack("simde_mm_packus_epi32(%s, %s)"))

	register(ppc.OpVupkhsb, func(c *Context) error {
		c.storeSI(c.Ins.VD(), fmt.Sprintf("simde_mm_cvtepi8_epi16(simde_mm_srli_si128(%s, 8))", c.vsi(c.Ins.VB())))
		return nil
	})
	register(ppc.OpVupklsb, func(c *Context) error {
		c.storeSI(c.Ins.VD(), fmt.Sprintf("simde_mm_cvtepi8_epi16(%s)", c.vsi(c.Ins.VB())))
		return nil
	})
	register(ppc.OpVupkhsh, func(c *Context) error {
		c.storeSI(c.Ins.VD(), fmt.Sprintf("simde_mm_cvtepi16_epi32(simde_mm_srli_si128(%s, 8))", c.vsi(c.Ins.VB())))
		return nil
	})
	register(ppc.OpVupklsh, func(c *Context) error {
		c.storeSI(c.Ins.VD(), fmt.Sprintf("simde_mm_cvtepi16_epi32(%s)", c.vsi(c.Ins.VB())))
		return nil
	})

	// Rounding and estimates.
	register(ppc.OpVrfin, func(c *Context) error {
		vrfiBody(c, c.Ins.VD(), c.Ins.VB(), "SIMDE_MM_FROUND_TO_NEAREST_INT")
		return nil
	})
	register(ppc.OpVrfiz, func(c *Context) error {
		vrfiBody(c, c.Ins.VD(), c.Ins.VB(), "SIMDE_MM_FROUND_TO_ZERO")
		return nil
	})
	register(ppc.OpVrfip, func(c *Context) error {
		vrfiBody(c, c.Ins.VD(), c.Ins.VB(), "SIMDE_MM_FROUND_TO_POS_INF")
		return nil
	})
	register(ppc.OpVrfim, func(c *Context) error {
		vrfiBody(c, c.Ins.VD(), c.Ins.VB(), "SIMDE_MM_FROUND_TO_NEG_INF")
		return nil
	})
	register(ppc.OpVrefp, func(c *Context) error {
		vrefpBody(c, c.Ins.VD(), c.Ins.VB())
		return nil
	})
	register(ppc.OpVrsqrtefp, func(c *Context) error {
		vrsqrtefpBody(c, c.Ins.VD(), c.Ins.VB())
		return nil
	})
	register(ppc.OpVexptefp, func(c *Context) error {
		vexptefpBody(c, c.Ins.VD(), c.Ins.VB())
		return nil
	})
	register(ppc.OpVlogefp, func(c *Context) error {
		vlogefpBody(c, c.Ins.VD(), c.Ins.VB())
		return nil
	})

	// Conversions.
	register(ppc.OpVcfsx, func(c *Context) error {
		vcfsxBody(c, c.Ins.VD(), c.Ins.VB(), c.Ins.VA())
		return nil
	})
	register(ppc.OpVcfux, func(c *Context) error {
		vcfuxBody(c, c.Ins.VD(), c.Ins.VB(), c.Ins.VA())
		return nil
	})
	register(ppc.OpVctsxs, func(c *Context) error {
		vctsxsBody(c, c.Ins.VD(), c.Ins.VB(), c.Ins.VA())
		return nil
	})
	register(ppc.OpVctuxs, func(c *Context) error {
		vctuxsBody(c, c.Ins.VD(), c.Ins.VB(), c.Ins.VA())
		return nil
	})

	register(ppc.OpVmhraddshs, func(c *Context) error {
		ins := c.Ins
		c.line("for (size_t i = 0; i < 8; i++) {")
		c.rawLine("\t\tint32_t p = ((int32_t(%s.s16[i]) * %s.s16[i] + 0x4000) >> 15) + %s.s16[i];",
			c.v(ins.VA()), c.v(ins.VB()), c.v(ins.VC()))
		c.rawLine("\t\t%s.s16[i] = p > 32767 ? 32767 : p < -32768 ? -32768 : int16_t(p);", c.vTemp())
		c.rawLine("\t}")
		c.storeVTemp(ins.VD())
		return nil
	})

	register(ppc.OpMfvscr, func(c *Context) error {
		c.storeSI(c.Ins.VD(), "simde_mm_set_epi32(0, 0, 0, ctx.fpscr.loadFromHost())")
		return nil
	})
	register(ppc.OpMtvscr, func(c *Context) error {
		c.line("ctx.fpscr.storeFromGuest(%s.u32[0]);", c.v(c.Ins.VB()))
		return nil
	})
}

// floatLit renders a float constant the way C++ expects, keeping the
// fraction for exact powers of two.
func floatLit(v float64) string {
	s := fmt.Sprintf("%g", v)
	for _, r := range s {
		if r == '.' || r == 'e' || r == '+' || r == '-' {
			return s
		}
	}
	return s + ".0"
}
