package codegen

import (
	"encoding/binary"
	"strings"
	"testing"

	"ppcrecomp/internal/analysis"
	"ppcrecomp/internal/config"
	"ppcrecomp/internal/image"
	"ppcrecomp/internal/ppc"
)

const testBase = 0x82000000

func testImage(words ...uint32) *image.Image {
	data := make([]byte, 4*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint32(data[i*4:], w)
	}
	return image.New(testBase, data)
}

func emitOne(t *testing.T, cfg *config.Config, fn *analysis.Function, words ...uint32) string {
	t.Helper()
	res, err := Emit(cfg, testImage(words...), fn, nil)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	return res.Source
}

func wantLines(t *testing.T, src string, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if !strings.Contains(src, l) {
			t.Errorf("missing %q in emitted source:\n%s", l, src)
		}
	}
}

func TestEmitAddRecordForm(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 8}
	src := emitOne(t, config.Default(), fn,
		0x7C642A15, // add. r3, r4, r5
		0x4E800020, // blr
	)
	wantLines(t, src,
		"PPC_FUNC(sub_82000000) {",
		"ctx.r3.u64 = ctx.r4.u64 + ctx.r5.u64;",
		"ctx.cr0.compare<int32_t>(ctx.r3.s32, 0, ctx.xer);",
		"return;",
	)
}

func TestEmitBranchLabel(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 16}
	src := emitOne(t, config.Default(), fn,
		0x2C030000, // cmpwi r3, 0
		0x40820008, // bne +8
		0x38600001, // li r3, 1
		0x4E800020, // blr
	)
	wantLines(t, src,
		"ctx.cr0.compare<int32_t>(ctx.r3.s32, 0, ctx.xer);",
		"if (!ctx.cr0.eq) goto loc_8200000C;",
		"loc_8200000C:",
	)
}

func TestEmitServiceTrap(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 8}
	src := emitOne(t, config.Default(), fn,
		0x0FE0002A, // twi 31, r0, 42
		0x4E800020,
	)
	wantLines(t, src, "PPC_SERVICE_TRAP(ctx, base, 42);")
}

func TestEmitMfcrComposesAllFields(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 8}
	src := emitOne(t, config.Default(), fn,
		0x7C600026, // mfcr r3
		0x4E800020,
	)
	wantLines(t, src,
		"ctx.r3.u64 = ctx.cr0.lt ? 0x80000000 : 0;",
		"ctx.r3.u64 |= ctx.cr0.gt ? 0x40000000 : 0;",
		"ctx.r3.u64 |= ctx.cr7.so ? 0x1 : 0;",
	)
}

func TestEmitSaturatingAdd(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 8}
	src := emitOne(t, config.Default(), fn,
		0x10011380, // vaddsws v0, v1, v2
		0x4E800020,
	)
	wantLines(t, src,
		"int32_t lhs = ctx.v1.s32[i], rhs = ctx.v2.s32[i];",
		"(lhs >> 31) ^ 0x7FFFFFFF",
	)
}

func TestEmitSplatLaneReversal(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 8}
	src := emitOne(t, config.Default(), fn,
		0x10010A8C, // vspltw v0, v1, 1
		0x4E800020,
	)
	// Guest word 1 lives at host lane 2.
	wantLines(t, src, "simde_mm_set1_epi32(ctx.v1.u32[2])")
}

func TestEmitRegisterLocalToggles(t *testing.T) {
	cfg := config.Default()
	cfg.CRAsLocals = true
	cfg.NonVolatileAsLocals = true
	fn := &analysis.Function{Address: testBase, Size: 8}
	src := emitOne(t, cfg, fn,
		0x7DCE7A15, // add. r14, r14, r15
		0x4E800020,
	)
	wantLines(t, src,
		"PPCCRRegister cr0{};",
		"PPCRegister r14{};",
		"r14.u64 = r14.u64 + r15.u64;",
		"cr0.compare<int32_t>(r14.s32, 0, ctx.xer);",
	)
}

func TestEmitChunkMerge(t *testing.T) {
	fn := &analysis.Function{
		Address: testBase,
		Size:    4,
		Chunks:  []analysis.Range{{Address: testBase + 0x10, Size: 4}},
	}
	words := make([]uint32, 5)
	words[0] = 0x48000010 // b +0x10
	words[4] = 0x4E800020 // blr
	src := emitOne(t, config.Default(), fn, words...)
	wantLines(t, src,
		"goto loc_82000010;",
		"loc_82000010:",
	)
	if strings.Count(src, "PPC_FUNC(") != 1 {
		t.Fatalf("chunk must merge into one function:\n%s", src)
	}
}

func TestEmitExternalCall(t *testing.T) {
	resolve := func(addr uint32) (string, bool) {
		if addr == testBase+0x100 {
			return "KnownHelper", true
		}
		return "", false
	}
	fn := &analysis.Function{Address: testBase, Size: 12}
	img := testImage(
		0x48000101, // bl +0x100
		0x48000201, // bl +0x200
		0x4E800020, // blr
	)
	res, err := Emit(config.Default(), img, fn, resolve)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	wantLines(t, res.Source,
		"ctx.lr = 0x82000004;",
		"KnownHelper(ctx, base);",
		"sub_82000204(ctx, base);",
	)
	if _, ok := res.Externs[testBase+0x100]; !ok {
		t.Fatal("resolved call target missing from externs")
	}
	if _, ok := res.Externs[testBase+0x204]; !ok {
		t.Fatal("unresolved call target missing from externs")
	}
}

func TestEmitSwitchTable(t *testing.T) {
	cfg := config.Default()
	cfg.SwitchTables[testBase+4] = config.JumpTable{
		BaseRegister:  11,
		Targets:       []uint32{testBase + 8, testBase + 12},
		DefaultTarget: testBase + 8,
	}
	fn := &analysis.Function{Address: testBase, Size: 16}
	src := emitOne(t, cfg, fn,
		0x7D6903A6, // mtctr r11
		0x4E800420, // bctr
		0x38600001, // li r3, 1
		0x4E800020, // blr
	)
	wantLines(t, src,
		"switch (ctx.r11.u64) {",
		"goto loc_82000008;",
		"goto loc_8200000C;",
	)
}

func TestEmitMidAsmHook(t *testing.T) {
	cfg := config.Default()
	cfg.MidAsmHooks[testBase+4] = config.MidAsmHook{
		Name:         "PatchReturnValue",
		Registers:    []string{"r3"},
		ReturnOnTrue: true,
	}
	fn := &analysis.Function{Address: testBase, Size: 12}
	src := emitOne(t, cfg, fn,
		0x38600001, // li r3, 1
		0x60000000, // nop
		0x4E800020, // blr
	)
	wantLines(t, src, "if (PatchReturnValue(ctx.r3)) return;")
}

func TestEmitMidAsmHookJumpOutsideFunction(t *testing.T) {
	cfg := config.Default()
	cfg.MidAsmHooks[testBase+4] = config.MidAsmHook{
		Name:              "ShouldBail",
		JumpAddressOnTrue: testBase + 0x100,
	}
	cfg.MidAsmHooks[testBase+8] = config.MidAsmHook{
		Name:               "KeepGoing",
		JumpAddressOnFalse: testBase + 4,
	}
	fn := &analysis.Function{Address: testBase, Size: 16}
	src := emitOne(t, cfg, fn,
		0x38600001, // li r3, 1
		0x60000000, // nop
		0x60000000, // nop
		0x4E800020, // blr
	)
	// The on-true target is outside the function, so it has no label
	// here and must leave through a tail call.
	wantLines(t, src,
		"if (ShouldBail()) {",
		"sub_82000100(ctx, base);",
		"if (!KeepGoing()) goto loc_82000004;",
	)
	if strings.Contains(src, "goto loc_82000100") {
		t.Errorf("out-of-function hook target emitted as a goto:\n%s", src)
	}
}

func TestEmitKnownIndirectCallContinues(t *testing.T) {
	cfg := config.Default()
	cfg.KnownIndirectCalls[testBase+4] = true
	fn := &analysis.Function{Address: testBase, Size: 12}
	src := emitOne(t, cfg, fn,
		0x7D6903A6, // mtctr r11
		0x4E800420, // bctr, marked as a computed call
		0x4E800020, // blr
	)
	wantLines(t, src, "PPC_CALL_INDIRECT_FUNC(ctx, base, ctx.ctr.u32);")
	if strings.Contains(src, "PPC_CALL_INDIRECT_FUNC(ctx, base, ctx.ctr.u32);\n\treturn;\n\treturn;") {
		t.Error("computed call emitted a tail-dispatch return")
	}
}

func TestEmitMtcrDistributesAllFields(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 8}
	src := emitOne(t, config.Default(), fn,
		0x7C6FF120, // mtcr r3
		0x4E800020, // blr
	)
	wantLines(t, src,
		"ctx.cr0.lt = (ctx.r3.u32 & 0x80000000) != 0;",
		"ctx.cr0.gt = (ctx.r3.u32 & 0x40000000) != 0;",
		"ctx.cr3.eq = (ctx.r3.u32 & 0x20000) != 0;",
		"ctx.cr7.so = (ctx.r3.u32 & 0x1) != 0;",
	)
}

func TestEmitHalfFloatPackSentinel(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 8}
	src := emitOne(t, config.Default(), fn,
		0x182D1650, // vpkd3d128 v1, v2, FLOAT16_2, 1, 1
		0x4E800020, // blr
	)
	wantLines(t, src,
		"ctx.fpscr.enableFlushMode();",
		"vTemp.u8[0] = (temp.f32 != temp.f32) || (temp.f32 > 65504.0f) ? 0xFF : ((ctx.v2.u32[3]&0x7f800000)>>23);",
		"ctx.v1.u16[3] = vTemp.u8[0] != 0xFF ? (vTemp.u8[0] > 0x70 ? (((vTemp.u8[0]-0x70)<<10)+temp.u16) : (0x71-vTemp.u8[0] > 31 ? 0x0 : ((0x400+temp.u16)>>(0x71-vTemp.u8[0])))) : 0x7FFF;",
		"ctx.v1.u16[3] |= ((ctx.v2.u32[3]&0x80000000)>>16);",
		"ctx.v1.u16[2] |= ((ctx.v2.u32[2]&0x80000000)>>16);",
	)
}

func TestEmitD3DColorUnpackBias(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 8}
	src := emitOne(t, config.Default(), fn,
		0x182017F0, // vupkd3d128 v1, v2, D3DCOLOR
		0x4E800020, // blr
	)
	wantLines(t, src,
		"vTemp.u32[0] = ctx.v2.u8[3] | 0x3F800000;",
		"vTemp.u32[1] = ctx.v2.u8[0] | 0x3F800000;",
		"vTemp.u32[2] = ctx.v2.u8[1] | 0x3F800000;",
		"vTemp.u32[3] = ctx.v2.u8[2] | 0x3F800000;",
		"ctx.v1 = vTemp;",
	)
}

func TestEmitD3DColorPackClampsAndClears(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 8}
	src := emitOne(t, config.Default(), fn,
		0x18221650, // vpkd3d128 v1, v2, D3DCOLOR, 2, 1
		0x4E800020, // blr
	)
	wantLines(t, src,
		"vTemp.u32[0] = 0x404000FF;",
		"vTemp.f32[0] = !(ctx.v2.f32[0] >= 3.0f) ? 3.0f : (ctx.v2.f32[0] > vTemp.f32[0] ? vTemp.f32[0] : ctx.v2.f32[0]);",
		"temp.u32 = uint32_t(vTemp.u8[0]) << 24;",
		"temp.u32 |= uint32_t(vTemp.u8[4]) << 0;",
		"ctx.v1.u32[1] = temp.u32;",
		"ctx.v1.u32[2] = 0;",
	)
}

func TestEmitNormShortPack(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 8}
	src := emitOne(t, config.Default(), fn,
		0x18261650, // vpkd3d128 v1, v2, NORMSHORT2, 2, 1
		0x4E800020, // blr
	)
	wantLines(t, src,
		"temp.s32 = ctx.v2.s32[3] - 0x40400000;",
		"temp.s32 = temp.s32 > 32767 ? 32767 : (temp.s32 < -32767 ? -32767 : temp.s32);",
		"vTemp.u32[0] = uint32_t(uint16_t(temp.s32)) << 16;",
		"vTemp.u32[0] |= uint16_t(temp.s32);",
		"ctx.v1.u32[1] = vTemp.u32[0];",
	)
}

func TestEmitNormShortUnpackBias(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 8}
	src := emitOne(t, config.Default(), fn,
		0x183017F0, // vupkd3d128 v1, v2, NORMSHORT4
		0x4E800020, // blr
	)
	wantLines(t, src,
		"temp.f32 = 3.0f;",
		"temp.s32 += ctx.v2.s16[3];",
		"ctx.v1.f32[3] = temp.f32;",
		"temp.s32 += ctx.v2.s16[0];",
		"ctx.v1.f32[0] = temp.f32;",
	)
}

func TestEmitLoadStoreMultiple(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 12}
	src := emitOne(t, config.Default(), fn,
		0xBBA1FFF4, // lmw r29, -12(r1)
		0xBFC10008, // stmw r30, 8(r1)
		0x4E800020, // blr
	)
	wantLines(t, src,
		"ctx.r29.u64 = PPC_LOAD_U32(ctx.r1.u32 + -12);",
		"ctx.r30.u64 = PPC_LOAD_U32(ctx.r1.u32 + -8);",
		"ctx.r31.u64 = PPC_LOAD_U32(ctx.r1.u32 + -4);",
		"PPC_STORE_U32(ctx.r1.u32 + 8, ctx.r30.u32);",
		"PPC_STORE_U32(ctx.r1.u32 + 12, ctx.r31.u32);",
	)
}

func TestEmitLoadStoreString(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 12}
	src := emitOne(t, config.Default(), fn,
		0x7CA434AA, // lswi r5, r4, 6
		0x7CA425AA, // stswi r5, r4, 4
		0x4E800020, // blr
	)
	wantLines(t, src,
		"ctx.r5.u64 = 0;",
		"ctx.r5.u32 |= uint32_t(PPC_LOAD_U8(ctx.r4.u32)) << 24;",
		"ctx.r5.u32 |= uint32_t(PPC_LOAD_U8(ctx.r4.u32 + 3)) << 0;",
		"ctx.r6.u64 = 0;",
		"ctx.r6.u32 |= uint32_t(PPC_LOAD_U8(ctx.r4.u32 + 5)) << 16;",
		"PPC_STORE_U8(ctx.r4.u32, uint8_t(ctx.r5.u32 >> 24));",
		"PPC_STORE_U8(ctx.r4.u32 + 3, uint8_t(ctx.r5.u32 >> 0));",
	)
}

func TestEmitMSRGlobalLock(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 16}
	src := emitOne(t, config.Default(), fn,
		0x7C6000A6, // mfmsr r3
		0x7DA00164, // mtmsrd r13
		0x7C600164, // mtmsrd r3
		0x4E800020, // blr
	)
	wantLines(t, src,
		"std::atomic_thread_fence(std::memory_order_seq_cst);",
		"ctx.r3.u64 = PPC_CHECK_GLOBAL_LOCK();",
		"ctx.msr = (ctx.r13.u32 & 0x8020) | (ctx.msr & ~0x8020);",
		"PPC_ENTER_GLOBAL_LOCK();",
		"ctx.msr = (ctx.r3.u32 & 0x8020) | (ctx.msr & ~0x8020);",
		"PPC_LEAVE_GLOBAL_LOCK();",
	)
}

func TestEmitFctiwRounds(t *testing.T) {
	fn := &analysis.Function{Address: testBase, Size: 12}
	src := emitOne(t, config.Default(), fn,
		0xFC20101C, // fctiw f1, f2
		0xFC40181E, // fctiwz f2, f3
		0x4E800020, // blr
	)
	wantLines(t, src,
		"ctx.f1.s64 = (ctx.f2.f64 > double(INT_MAX)) ? INT_MAX : simde_mm_cvtsd_si32(simde_mm_load_sd(&ctx.f2.f64));",
		"ctx.f2.s64 = (ctx.f3.f64 > double(INT_MAX)) ? INT_MAX : simde_mm_cvttsd_si32(simde_mm_load_sd(&ctx.f3.f64));",
	)
}

func TestImplementedCoversEveryOpcode(t *testing.T) {
	if Implemented(ppc.OpInvalid) {
		t.Fatal("the invalid opcode must not report as implemented")
	}
	for op := ppc.OpInvalid + 1; int(op) < ppc.NumOpcodes; op++ {
		if !Implemented(op) {
			t.Errorf("no lowering registered for %s", op)
		}
	}
}
