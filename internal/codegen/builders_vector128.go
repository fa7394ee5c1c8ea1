package codegen

import (
	"fmt"

	"ppcrecomp/internal/ppc"
)

// VMX128 lowering. Most of these are re-encodings of base VMX
// operations with the register numbers scattered differently, so they
// feed the same bodies with the 128-form accessors. The rest are
// Xenon-only: D3D packs, permute-immediate, rotate-insert, and the
// dot-product family.

func registerVector128() {
	f3 := func(intrin string) builderFn {
		return func(c *Context) error {
			vfloat3(c, intrin, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128())
			return nil
		}
	}
	register(ppc.OpVaddfp128, f3("simde_mm_add_ps"))
	register(ppc.OpVsubfp128, f3("simde_mm_sub_ps"))
	register(ppc.OpVmulfp128, f3("simde_mm_mul_ps"))
	register(ppc.OpVmaxfp128, f3("simde_mm_max_ps"))
	register(ppc.OpVminfp128, f3("simde_mm_min_ps"))
	register(ppc.OpVmaddfp128, func(c *Context) error {
		// d = a*b + d
		vmaddfpBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128(), c.Ins.VD128())
		return nil
	})
	register(ppc.OpVmaddcfp128, func(c *Context) error {
		// d = d*a + b
		vmaddfpBody(c, c.Ins.VD128(), c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128())
		return nil
	})
	register(ppc.OpVnmsubfp128, func(c *Context) error {
		vnmsubfpBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128(), c.Ins.VD128())
		return nil
	})

	// Dot products. Host lane 3 is guest word 0 (x), so the 3-term sum
	// covers lanes 1..3 and the 4-term sum all lanes, splatted.
	register(ppc.OpVmsum3fp128, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrVector)
		c.storePS(ins.VD128(), fmt.Sprintf("simde_mm_dp_ps(%s, %s, 0xEF)",
			c.vps(ins.VA128()), c.vps(ins.VB128())))
		return nil
	})
	register(ppc.OpVmsum4fp128, func(c *Context) error {
		ins := c.Ins
		c.setCSR(csrVector)
		c.storePS(ins.VD128(), fmt.Sprintf("simde_mm_dp_ps(%s, %s, 0xFF)",
			c.vps(ins.VA128()), c.vps(ins.VB128())))
		return nil
	})

	i3 := func(intrin string) builderFn {
		return func(c *Context) error {
			vint3(c, intrin, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128())
			return nil
		}
	}
	register(ppc.OpVand128, i3("simde_mm_and_si128"))
	register(ppc.OpVor128, i3("simde_mm_or_si128"))
	register(ppc.OpVxor128, i3("simde_mm_xor_si128"))
	register(ppc.OpVandc128, func(c *Context) error {
		vandcBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128())
		return nil
	})
	register(ppc.OpVnor128, func(c *Context) error {
		vnorBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128())
		return nil
	})
	register(ppc.OpVsel128, func(c *Context) error {
		// The mask rides in VD.
		vselBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128(), c.Ins.VD128())
		return nil
	})
	register(ppc.OpVperm128, func(c *Context) error {
		vpermBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128(), c.Ins.VC128())
		return nil
	})
	register(ppc.OpVsldoi128, func(c *Context) error {
		vsldoiBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128(), (c.Ins.Raw>>16)&0xF)
		return nil
	})

	register(ppc.OpVslw128, func(c *Context) error {
		vshiftBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128(), 4, "%s.u32[i] = %s.u32[i] << (%s.u32[i] & 31)")
		return nil
	})
	register(ppc.OpVsrw128, func(c *Context) error {
		vshiftBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128(), 4, "%s.u32[i] = %s.u32[i] >> (%s.u32[i] & 31)")
		return nil
	})
	register(ppc.OpVsraw128, func(c *Context) error {
		vshiftBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128(), 4, "%s.s32[i] = %s.s32[i] >> (%s.u32[i] & 31)")
		return nil
	})
	register(ppc.OpVrlw128, func(c *Context) error {
		vshiftBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128(), 4, "%s.u32[i] = std::rotl(%s.u32[i], %s.u32[i] & 31)")
		return nil
	})
	register(ppc.OpVslo128, func(c *Context) error {
		vsloBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128())
		return nil
	})
	register(ppc.OpVsro128, func(c *Context) error {
		vsroBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128())
		return nil
	})

	register(ppc.OpVmrghw128, func(c *Context) error {
		vint3(c, "simde_mm_unpackhi_epi32", c.Ins.VD128(), c.Ins.VB128(), c.Ins.VA128())
		return nil
	})
	register(ppc.OpVmrglw128, func(c *Context) error {
		vint3(c, "simde_mm_unpacklo_epi32", c.Ins.VD128(), c.Ins.VB128(), c.Ins.VA128())
		return nil
	})

	pack := func(expr string) builderFn {
		return func(c *Context) error {
			vpkBody(c, c.Ins.VD128(), c.Ins.VA128(), c.Ins.VB128(), expr)
			return nil
		}
	}
	register(ppc.OpVpkuhum128, pack("simde_mm_packus_epi16(simde_mm_and_si128(%s, simde_mm_set1_epi16(0xFF)), simde_mm_and_si128(%s, simde_mm_set1_epi16(0xFF)))"))
	register(ppc.OpVpkuwum128, pack("simde_mm_packus_epi32(simde_mm_and_si128(%s, simde_mm_set1_epi32(0xFFFF)), simde_mm_and_si128(%s, simde_mm_set1_epi32(0xFFFF)))"))
	register(ppc.OpVpkuhus128, pack("simde_mm_packus_epi16(simde_mm_min_epu16(%s, simde_mm_set1_epi16(0xFF)), simde_mm_min_epu16(%s, simde_mm_set1_epi16(0xFF)))"))
	register(ppc.OpVpkuwus128, pack("simde_mm_packus_epi32(simde_mm_min_epu32(%s, simde_mm_set1_epi32(0xFFFF)), simde_mm_min_epu32(%s, simde_mm_set1_epi32(0xFFFF)))"))
	register(ppc.OpVpkshss128, pack("simde_mm_packs_epi16(%s, %s)"))
	register(ppc.OpVpkshus128, pack("simde_mm_packus_epi16(%s, %s)"))
	register(ppc.OpVpkswss128, pack("simde_mm_packs_epi32(%s, %s)"))
	register(ppc.OpVpkswus128, pack("simde_mm_packus_epi32(%s, %s)"))

	register(ppc.OpVupkhsb128, func(c *Context) error {
		c.storeSI(c.Ins.VD128(), fmt.Sprintf("simde_mm_cvtepi8_epi16(simde_mm_srli_si128(%s, 8))", c.vsi(c.Ins.VB128())))
		return nil
	})
	register(ppc.OpVupklsb128, func(c *Context) error {
		c.storeSI(c.Ins.VD128(), fmt.Sprintf("simde_mm_cvtepi8_epi16(%s)", c.vsi(c.Ins.VB128())))
		return nil
	})

	fcmp := func(intrin string) builderFn {
		return func(c *Context) error {
			ins := c.Ins
			c.setCSR(csrVector)
			c.storePS(ins.VD128(), fmt.Sprintf("%s(%s, %s)", intrin, c.vps(ins.VA128()), c.vps(ins.VB128())))
			c.recordCR6(ins.VD128(), true)
			return nil
		}
	}
	register(ppc.OpVcmpeqfp128, fcmp("simde_mm_cmpeq_ps"))
	register(ppc.OpVcmpgefp128, fcmp("simde_mm_cmpge_ps"))
	register(ppc.OpVcmpgtfp128, fcmp("simde_mm_cmpgt_ps"))
	register(ppc.OpVcmpbfp128, func(c *Context) error {
		ins := c.Ins
		vcmpbfpBody(c, ins.VD128(), ins.VA128(), ins.VB128())
		c.recordCR6(ins.VD128(), false)
		return nil
	})
	register(ppc.OpVcmpequw128, func(c *Context) error {
		ins := c.Ins
		vint3(c, "simde_mm_cmpeq_epi32", ins.VD128(), ins.VA128(), ins.VB128())
		c.recordCR6(ins.VD128(), false)
		return nil
	})

	register(ppc.OpVrfim128, func(c *Context) error {
		vrfiBody(c, c.Ins.VD128(), c.Ins.VB128(), "SIMDE_MM_FROUND_TO_NEG_INF")
		return nil
	})
	register(ppc.OpVrfin128, func(c *Context) error {
		vrfiBody(c, c.Ins.VD128(), c.Ins.VB128(), "SIMDE_MM_FROUND_TO_NEAREST_INT")
		return nil
	})
	register(ppc.OpVrfip128, func(c *Context) error {
		vrfiBody(c, c.Ins.VD128(), c.Ins.VB128(), "SIMDE_MM_FROUND_TO_POS_INF")
		return nil
	})
	register(ppc.OpVrfiz128, func(c *Context) error {
		vrfiBody(c, c.Ins.VD128(), c.Ins.VB128(), "SIMDE_MM_FROUND_TO_ZERO")
		return nil
	})
	register(ppc.OpVrefp128, func(c *Context) error {
		vrefpBody(c, c.Ins.VD128(), c.Ins.VB128())
		return nil
	})
	register(ppc.OpVrsqrtefp128, func(c *Context) error {
		vrsqrtefpBody(c, c.Ins.VD128(), c.Ins.VB128())
		return nil
	})
	register(ppc.OpVexptefp128, func(c *Context) error {
		vexptefpBody(c, c.Ins.VD128(), c.Ins.VB128())
		return nil
	})
	register(ppc.OpVlogefp128, func(c *Context) error {
		vlogefpBody(c, c.Ins.VD128(), c.Ins.VB128())
		return nil
	})

	register(ppc.OpVcsxwfp128, func(c *Context) error {
		vcfsxBody(c, c.Ins.VD128(), c.Ins.VB128(), c.Ins.VA128()&0x1F)
		return nil
	})
	register(ppc.OpVcuxwfp128, func(c *Context) error {
		vcfuxBody(c, c.Ins.VD128(), c.Ins.VB128(), c.Ins.VA128()&0x1F)
		return nil
	})
	register(ppc.OpVcfpsxws128, func(c *Context) error {
		vctsxsBody(c, c.Ins.VD128(), c.Ins.VB128(), c.Ins.VA128()&0x1F)
		return nil
	})
	register(ppc.OpVcfpuxws128, func(c *Context) error {
		vctuxsBody(c, c.Ins.VD128(), c.Ins.VB128(), c.Ins.VA128()&0x1F)
		return nil
	})

	register(ppc.OpVspltw128, func(c *Context) error {
		vspltBody(c, c.Ins.VD128(), c.Ins.VB128(), (c.Ins.Raw>>16)&0x3, 'w')
		return nil
	})
	register(ppc.OpVspltisw128, func(c *Context) error {
		imm := int32((c.Ins.Raw >> 16) & 0x1F)
		if imm > 15 {
			imm -= 32
		}
		c.storeSI(c.Ins.VD128(), fmt.Sprintf("simde_mm_set1_epi32(%d)", imm))
		return nil
	})

	// Memory forms mirror the base encodings with the wider register
	// field.
	register(ppc.OpLvx128, func(c *Context) error {
		ins := c.Ins
		c.line("simde_mm_store_si128((simde__m128i*)%s.u8, simde_mm_shuffle_epi8(simde_mm_load_si128((simde__m128i*)(base + ((%s) & ~0xF))), simde_mm_load_si128((simde__m128i*)VectorMaskL)));",
			c.v(ins.VD128()), c.eaX(ins.RA(), ins.RB()))
		return nil
	})
	register(ppc.OpStvx128, func(c *Context) error {
		ins := c.Ins
		c.line("simde_mm_store_si128((simde__m128i*)(base + ((%s) & ~0xF)), simde_mm_shuffle_epi8(simde_mm_load_si128((simde__m128i*)%s.u8), simde_mm_load_si128((simde__m128i*)VectorMaskL)));",
			c.eaX(ins.RA(), ins.RB()), c.v(ins.VD128()))
		return nil
	})
	register(ppc.OpLvlx128, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = %s;", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("simde_mm_store_si128((simde__m128i*)%s.u8, simde_mm_shuffle_epi8(simde_mm_load_si128((simde__m128i*)(base + (%s.u32 & ~0xF))), simde_mm_load_si128((simde__m128i*)&VectorMaskL[(%s.u32 & 0xF) * 16])));",
			c.v(ins.VD128()), c.temp(), c.temp())
		return nil
	})
	register(ppc.OpLvrx128, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = %s;", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("simde_mm_store_si128((simde__m128i*)%s.u8, %s.u32 & 0xF ? simde_mm_shuffle_epi8(simde_mm_load_si128((simde__m128i*)(base + (%s.u32 & ~0xF))), simde_mm_load_si128((simde__m128i*)&VectorMaskR[(%s.u32 & 0xF) * 16])) : simde_mm_setzero_si128());",
			c.v(ins.VD128()), c.temp(), c.temp(), c.temp())
		return nil
	})
	register(ppc.OpStvlx128, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = %s;", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("for (size_t i = 0; i < (16 - (%s.u32 & 0xF)); i++)", c.temp())
		c.rawLine("\t\tPPC_STORE_U8(%s.u32 + i, %s.u8[15 - i]);", c.temp(), c.v(ins.VD128()))
		return nil
	})
	register(ppc.OpStvrx128, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = %s;", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("for (size_t i = 0; i < (%s.u32 & 0xF); i++)", c.temp())
		c.rawLine("\t\tPPC_STORE_U8(%s.u32 - i - 1, %s.u8[i]);", c.temp(), c.v(ins.VD128()))
		return nil
	})
	register(ppc.OpLvsl128, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = %s;", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("simde_mm_store_si128((simde__m128i*)%s.u8, simde_mm_load_si128((simde__m128i*)&VectorShiftTableL[(%s.u32 & 0xF) * 16]));",
			c.v(ins.VD128()), c.temp())
		return nil
	})
	register(ppc.OpLvsr128, func(c *Context) error {
		ins := c.Ins
		c.line("%s.u32 = %s;", c.temp(), c.eaX(ins.RA(), ins.RB()))
		c.line("simde_mm_store_si128((simde__m128i*)%s.u8, simde_mm_load_si128((simde__m128i*)&VectorShiftTableR[(%s.u32 & 0xF) * 16]));",
			c.v(ins.VD128()), c.temp())
		return nil
	})

	register(ppc.OpVpermwi128, vpermwi128)
	register(ppc.OpVrlimi128, vrlimi128)
	register(ppc.OpVpkd3d128, vpkd3d128)
	register(ppc.OpVupkd3d128, vupkd3d128)
}

// vpermwi128 permutes words of VB by a 8-bit immediate, two bits per
// destination word. Immediate selectors count guest words from the
// high end.
func vpermwi128(c *Context) error {
	ins := c.Ins
	uimm := (ins.Raw >> 16) & 0xFF
	// Guest word i takes selector bits (6-2i, 2). Host word 3-i.
	var sel [4]uint32
	for i := uint32(0); i < 4; i++ {
		src := (uimm >> (6 - 2*i)) & 3
		sel[3-i] = 3 - src
	}
	ctl := sel[0] | sel[1]<<2 | sel[2]<<4 | sel[3]<<6
	c.storeSI(ins.VD128(), fmt.Sprintf("simde_mm_shuffle_epi32(%s, 0x%X)", c.vsi(ins.VB128()), ctl))
	return nil
}

// vrlimi128 rotates VB's words left as a group and inserts the result
// into VD under a 4-bit write mask. The rotate amount counts whole
// words; on the reversed layout a guest rotate-left by z words is a
// host rotate toward higher lanes.
func vrlimi128(c *Context) error {
	ins := c.Ins
	uimm := (ins.Raw >> 16) & 0x1F
	mask := uimm & 0xF
	z := (ins.Raw >> 14) & 0x3
	src := c.vsi(ins.VB128())
	if z != 0 {
		// shuffle control for a rotate by z guest words
		var sel [4]uint32
		for i := uint32(0); i < 4; i++ {
			sel[3-i] = 3 - ((i + z) & 3)
		}
		ctl := sel[0] | sel[1]<<2 | sel[2]<<4 | sel[3]<<6
		src = fmt.Sprintf("simde_mm_shuffle_epi32(%s, 0x%X)", src, ctl)
	}
	if mask == 0xF {
		c.storeSI(ins.VD128(), src)
		return nil
	}
	// Guest mask bit 3>>i gates guest word i, host word 3-i.
	var hostMask uint32
	for i := uint32(0); i < 4; i++ {
		if mask&(8>>i) != 0 {
			hostMask |= 1 << (3 - i)
		}
	}
	c.storeSI(ins.VD128(), fmt.Sprintf("simde_mm_blend_epi32(%s, %s, 0x%X)",
		c.vsi(ins.VD128()), src, hostMask))
	return nil
}

// D3D pack formats, selected by the high three bits of the immediate.
const (
	d3dColorArgb8   = 0
	d3dNormShort2   = 1
	d3dNormPacked32 = 2
	d3dFloat16x2    = 3
	d3dNormShort4   = 4
	d3dFloat16x4    = 5
	d3dNormPacked64 = 6
)

// Byte/word positions of the ARGB channels for guest elements 0..3.
var d3dColorIndices = [4]uint32{3, 0, 1, 2}

// packHalf emits the float32 to float16 conversion of b's lane src
// into d.u16[dst]: manual exponent rebias with NaN and overflow
// mapping to the 0x7FFF sentinel, underflow denormalizing the
// mantissa, sign carried separately.
func packHalf(c *Context, d, b string, src, dst uint32) {
	c.line("%s.u32 = (%s.u32[%d]&0x7FFFFFFF);", c.temp(), b, src)
	c.line("%s.u8[0] = (%s.f32 != %s.f32) || (%s.f32 > 65504.0f) ? 0xFF : ((%s.u32[%d]&0x7f800000)>>23);",
		c.vTemp(), c.temp(), c.temp(), c.temp(), b, src)
	c.line("%s.u16 = %s.u8[0] != 0xFF ? ((%s.u32[%d]&0x7FE000)>>13) : 0x0;",
		c.temp(), c.vTemp(), b, src)
	c.line("%s.u16[%d] = %s.u8[0] != 0xFF ? (%s.u8[0] > 0x70 ? (((%s.u8[0]-0x70)<<10)+%s.u16) : (0x71-%s.u8[0] > 31 ? 0x0 : ((0x400+%s.u16)>>(0x71-%s.u8[0])))) : 0x7FFF;",
		d, dst, c.vTemp(), c.vTemp(), c.vTemp(), c.temp(), c.vTemp(), c.temp(), c.vTemp())
	c.line("%s.u16[%d] |= ((%s.u32[%d]&0x80000000)>>16);", d, dst, b, src)
}

// unpackHalf emits the float16 to float32 expansion of b.u16[src]
// into d.u32[dst] via vTemp, rebasing the exponent and zeroing
// denormals.
func unpackHalf(c *Context, d, b string, src, dst uint32) {
	c.line("%s.u32 = %s.u16[%d];", c.temp(), b, src)
	c.line("%s.u32[0] = ((%s.u32 & 0x8000) << 16) | (((%s.u32 & 0x7C00) + 0x1C000) << 13) | ((%s.u32 & 0x03FF) << 13);",
		c.vTemp(), c.temp(), c.temp(), c.temp())
	c.line("if ((%s.u32 & 0x7C00) == 0) %s.u32[0] = (%s.u32 & 0x8000) << 16;",
		c.temp(), c.vTemp(), c.temp())
	c.line("%s.u32[%d] = %s.u32[0];", d, dst, c.vTemp())
}

// clampNormShort emits the saturation of temp to the signed
// normalized-short range. The bound is 32767 on both sides.
func clampNormShort(c *Context) {
	c.line("%s.s32 = %s.s32 > 32767 ? 32767 : (%s.s32 < -32767 ? -32767 : %s.s32);",
		c.temp(), c.temp(), c.temp(), c.temp())
}

// vpkd3d128 packs VB into one of the D3D interchange formats and
// writes the packed bytes into VD under the shift immediate. Lane
// reversal is handled here: guest element i lives at host index 3-i.
func vpkd3d128(c *Context) error {
	ins := c.Ins
	format := (ins.Raw >> 18) & 0x7
	mask := (ins.Raw >> 16) & 0x3
	shift := (ins.Raw >> 6) & 0x3
	d := c.v(ins.VD128())
	b := c.v(ins.VB128())
	c.setCSR(csrVector)
	switch format {
	case d3dColorArgb8:
		// The 0x404000FF pattern is 3.0 + 255/256: clamping the input
		// into [3.0, that] leaves the 8-bit channel in the low byte.
		for i := uint32(0); i < 4; i++ {
			c.line("%s.u32[%d] = 0x404000FF;", c.vTemp(), i)
			// !(x >= 3.0f) instead of (x < 3.0f) so NaN clamps to the minimum.
			c.line("%s.f32[%d] = !(%s.f32[%d] >= 3.0f) ? 3.0f : (%s.f32[%d] > %s.f32[%d] ? %s.f32[%d] : %s.f32[%d]);",
				c.vTemp(), i, b, i, b, i, c.vTemp(), i, c.vTemp(), i, b, i)
			op := "|"
			if i == 0 {
				op = ""
			}
			c.line("%s.u32 %s= uint32_t(%s.u8[%d]) << %d;",
				c.temp(), op, c.vTemp(), i*4, d3dColorIndices[i]*8)
		}
		// mask=1 writes word[shift]; mask>=2 also clears the adjacent
		// word, except mask=3 shift=3 which only clears word 0.
		if mask == 3 && shift == 3 {
			c.line("%s.u32[0] = 0;", d)
		} else {
			c.line("%s.u32[%d] = %s.u32;", d, shift, c.temp())
			if mask >= 2 && shift < 3 {
				c.line("%s.u32[%d] = 0;", d, shift+1)
			}
		}
	case d3dNormShort2:
		// Inputs carry the 3.0f bias, so the short rides in the low
		// bits of the float's own pattern. Guest element 0 lands in
		// the high half of the packed word.
		c.line("%s.s32 = %s.s32[3] - 0x40400000;", c.temp(), b)
		clampNormShort(c)
		c.line("%s.u32[0] = uint32_t(uint16_t(%s.s32)) << 16;", c.vTemp(), c.temp())
		c.line("%s.s32 = %s.s32[2] - 0x40400000;", c.temp(), b)
		clampNormShort(c)
		c.line("%s.u32[0] |= uint16_t(%s.s32);", c.vTemp(), c.temp())
		c.line("%s.u32[%d] = %s.u32[0];", d, shift, c.vTemp())
	case d3dNormPacked32:
		// w:z:y:x as 2:10:10:10. The bound constants live in the
		// runtime context header.
		c.line("%s.u32[0] = 0;", c.vTemp())
		fields := []struct {
			src   uint32
			bound string
			bits  uint32
			pos   uint32
		}{
			{3, "10", 0x3FF, 0},
			{2, "10", 0x3FF, 10},
			{1, "10", 0x3FF, 20},
			{0, "2", 0x3, 30},
		}
		for _, f := range fields {
			lo := "kPack2101010_Min" + f.bound
			hi := "kPack2101010_Max" + f.bound
			c.line("%s.f32 = %s.f32[%d] < %s ? %s : (%s.f32[%d] > %s ? %s : %s.f32[%d]);",
				c.temp(), b, f.src, lo, lo, b, f.src, hi, hi, b, f.src)
			if f.pos == 0 {
				c.line("%s.u32[0] = %s.u32 & 0x%X;", c.vTemp(), c.temp(), f.bits)
			} else {
				c.line("%s.u32[0] |= (%s.u32 & 0x%X) << %d;", c.vTemp(), c.temp(), f.bits, f.pos)
			}
		}
		c.line("%s.u32[%d] = %s.u32[0];", d, shift, c.vTemp())
	case d3dFloat16x2:
		// Guest element 0 to the high half, element 1 to the low.
		for i := uint32(0); i < 2; i++ {
			packHalf(c, d, b, 3-i, (1-i)+2*shift)
		}
	case d3dNormShort4:
		for i := uint32(0); i < 4; i++ {
			c.line("%s.s32 = %s.s32[%d] - 0x40400000;", c.temp(), b, 3-i)
			clampNormShort(c)
			c.line("%s.u16[%d] = uint16_t(%s.s32);", d, (3-i)+2*shift, c.temp())
		}
	case d3dFloat16x4:
		for i := uint32(0); i < 4; i++ {
			packHalf(c, d, b, 3-i, (3-i)+2*shift)
		}
	case d3dNormPacked64:
		// w:z:y:x as 4:20:20:20 in one 64-bit lane.
		c.line("%s.u64[0] = 0;", c.vTemp())
		c.line("%s.s32 = int32_t(%s.f32[0]);", c.temp(), b)
		c.line("%s.u64[0] = uint64_t(%s.s32 & 0xFFFFF);", c.vTemp(), c.temp())
		c.line("%s.s32 = int32_t(%s.f32[1]);", c.temp(), b)
		c.line("%s.u64[0] |= uint64_t(%s.s32 & 0xFFFFF) << 20;", c.vTemp(), c.temp())
		c.line("%s.s32 = int32_t(%s.f32[2]);", c.temp(), b)
		c.line("%s.u64[0] |= uint64_t(%s.s32 & 0xFFFFF) << 40;", c.vTemp(), c.temp())
		c.line("%s.s32 = int32_t(%s.f32[3]);", c.temp(), b)
		c.line("%s.u64[0] |= uint64_t(%s.s32 & 0xF) << 60;", c.vTemp(), c.temp())
		c.line("%s.u64[%d] = %s.u64[0];", d, shift>>1, c.vTemp())
	default:
		c.line("__builtin_debugtrap();")
	}
	return nil
}

// vupkd3d128 is the inverse unpack family. The format rides in the
// high bits of the immediate; the low two bits are unused here.
func vupkd3d128(c *Context) error {
	ins := c.Ins
	uimm := (ins.Raw >> 16) & 0x1F
	d := c.v(ins.VD128())
	b := c.v(ins.VB128())
	switch uimm >> 2 {
	case d3dColorArgb8:
		// Each byte becomes 1.0 + channel/2^23.
		for i := uint32(0); i < 4; i++ {
			c.line("%s.u32[%d] = %s.u8[%d] | 0x3F800000;",
				c.vTemp(), i, b, d3dColorIndices[i])
		}
		c.line("%s = %s;", d, c.vTemp())
	case d3dNormShort2:
		// The short adds into the 3.0f bit pattern as an integer.
		for i := uint32(0); i < 2; i++ {
			c.line("%s.f32 = 3.0f;", c.temp())
			c.line("%s.s32 += %s.s16[%d];", c.temp(), b, 1-i)
			c.line("%s.f32[%d] = %s.f32;", c.vTemp(), 3-i, c.temp())
		}
		c.line("%s.f32[1] = 0.0f;", c.vTemp())
		c.line("%s.f32[0] = 1.0f;", c.vTemp())
		c.line("%s = %s;", d, c.vTemp())
	case d3dNormPacked32:
		// x gets the quiet-NaN sentinel for the -512 encoding; w is
		// 2 bits in 1.0+w form.
		c.line("%s.s32 = (%s.s32[0] << 22) >> 22;", c.temp(), b)
		c.line("%s.s32[0] = %s.s32 == -512 ? 0x7FC00000 : (%s.s32 + 0x40400000);",
			c.vTemp(), c.temp(), c.temp())
		c.line("%s.u32[3] = %s.u32[0];", d, c.vTemp())
		c.line("%s.s32 = (%s.s32[0] << 12) >> 22;", c.temp(), b)
		c.line("%s.s32[0] = %s.s32 + 0x40400000;", c.vTemp(), c.temp())
		c.line("%s.u32[2] = %s.u32[0];", d, c.vTemp())
		c.line("%s.s32 = (%s.s32[0] << 2) >> 22;", c.temp(), b)
		c.line("%s.s32[0] = %s.s32 + 0x40400000;", c.vTemp(), c.temp())
		c.line("%s.u32[1] = %s.u32[0];", d, c.vTemp())
		c.line("%s.u32[0] = (%s.u32[0] >> 30) | 0x3F800000;", c.vTemp(), b)
		c.line("%s.u32[0] = %s.u32[0];", d, c.vTemp())
	case d3dFloat16x2:
		for i := uint32(0); i < 2; i++ {
			unpackHalf(c, d, b, 1-i, 3-i)
		}
		c.line("%s.f32[1] = 0.0f;", d)
		c.line("%s.f32[0] = 1.0f;", d)
	case d3dNormShort4:
		for i := uint32(0); i < 4; i++ {
			c.line("%s.f32 = 3.0f;", c.temp())
			c.line("%s.s32 += %s.s16[%d];", c.temp(), b, 3-i)
			c.line("%s.f32[%d] = %s.f32;", d, 3-i, c.temp())
		}
	case d3dFloat16x4:
		for i := uint32(0); i < 4; i++ {
			unpackHalf(c, d, b, 3-i, 3-i)
		}
	case d3dNormPacked64:
		c.line("%s.u64[0] = %s.u64[1];", c.vTemp(), b)
		c.line("%s.s32 = (int32_t(%s.u64[0] << 44) >> 44);", c.temp(), c.vTemp())
		c.line("%s.f32[0] = float(%s.s32);", d, c.temp())
		c.line("%s.s32 = (int32_t(%s.u64[0] << 24) >> 44);", c.temp(), c.vTemp())
		c.line("%s.f32[1] = float(%s.s32);", d, c.temp())
		c.line("%s.s32 = (int32_t(%s.u64[0] << 4) >> 44);", c.temp(), c.vTemp())
		c.line("%s.f32[2] = float(%s.s32);", d, c.temp())
		c.line("%s.f32[3] = float(%s.u64[0] >> 60);", d, c.vTemp())
	default:
		c.line("__builtin_debugtrap();")
	}
	return nil
}
