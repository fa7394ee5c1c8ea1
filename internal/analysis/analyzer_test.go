package analysis

import (
	"encoding/binary"
	"testing"

	"ppcrecomp/internal/config"
	"ppcrecomp/internal/image"
)

const testBase = 0x82000000

func testImage(words ...uint32) *image.Image {
	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.BigEndian.PutUint32(data[i*4:], w)
	}
	return image.New(testBase, data)
}

func runAnalyzer(t *testing.T, cfg *config.Config, img *image.Image) []*Function {
	t.Helper()
	funcs, err := New(cfg, img, nil).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return funcs
}

func TestScanStopsAtReturn(t *testing.T) {
	img := testImage(
		0x38600001, // li r3, 1
		0x38800002, // li r4, 2
		0x4E800020, // blr
		0x38A00003, // unrelated code past the function
	)
	cfg := config.Default()
	cfg.Functions[testBase] = config.FunctionConfig{}

	funcs := runAnalyzer(t, cfg, img)
	if len(funcs) != 1 || funcs[0].Size != 12 {
		t.Fatalf("funcs = %+v", funcs)
	}
}

func TestScanFollowsForwardBranchPastReturn(t *testing.T) {
	// The conditional branch over the early return keeps the scan alive
	// until the final return at +8.
	img := testImage(
		0x40820008, // bne +8
		0x4E800020, // blr (early out, inside the pending span)
		0x4E800020, // blr
	)
	cfg := config.Default()
	cfg.Functions[testBase] = config.FunctionConfig{}

	funcs := runAnalyzer(t, cfg, img)
	if funcs[0].Size != 12 {
		t.Fatalf("size = %d, want 12", funcs[0].Size)
	}
}

func TestScanStopsAtUnconditionalBranch(t *testing.T) {
	img := testImage(
		0x38600001, // li r3, 1
		0x4BFFFFFC, // b -4 (tail loop, no pending forward target)
		0x38800002,
	)
	cfg := config.Default()
	cfg.Functions[testBase] = config.FunctionConfig{}

	funcs := runAnalyzer(t, cfg, img)
	if funcs[0].Size != 8 {
		t.Fatalf("size = %d, want 8", funcs[0].Size)
	}
}

func TestScanStopsAtDataRegion(t *testing.T) {
	img := testImage(
		0x4E800020, // blr... but a pending switch target keeps scanning
		0x00000000,
		0x00000000,
		0x00000000,
	)
	cfg := config.Default()
	cfg.DataRegionThreshold = 2
	cfg.SwitchTables[testBase] = config.JumpTable{
		BaseRegister: 11,
		Targets:      []uint32{testBase + 12},
	}
	cfg.Functions[testBase] = config.FunctionConfig{}

	funcs := runAnalyzer(t, cfg, img)
	if funcs[0].Size != 4 {
		t.Fatalf("size = %d, want 4 (data region truncates the extension)", funcs[0].Size)
	}
}

func TestExplicitSizeWinsOverScan(t *testing.T) {
	img := testImage(
		0x4E800020, // blr at +0; scan alone would stop here
		0x38600001,
		0x4E800020,
	)
	cfg := config.Default()
	cfg.Functions[testBase] = config.FunctionConfig{Size: 12}

	funcs := runAnalyzer(t, cfg, img)
	if funcs[0].Size != 12 {
		t.Fatalf("size = %d, want the configured 12", funcs[0].Size)
	}
}

func TestChunksAttachToParent(t *testing.T) {
	img := testImage(
		0x4E800020, // parent body
		0x60000000, // padding
		0x38600001, // chunk body
		0x4E800020,
	)
	cfg := config.Default()
	cfg.Functions[testBase] = config.FunctionConfig{Size: 4, Name: "Parent"}
	cfg.Functions[testBase+8] = config.FunctionConfig{Size: 8, Parent: testBase}

	funcs := runAnalyzer(t, cfg, img)
	if len(funcs) != 1 {
		t.Fatalf("chunk surfaced as a standalone function: %+v", funcs)
	}
	fn := funcs[0]
	if fn.Symbol() != "Parent" || len(fn.Chunks) != 1 {
		t.Fatalf("parent = %+v", fn)
	}
	if fn.Chunks[0].Address != testBase+8 || fn.Chunks[0].Size != 8 {
		t.Fatalf("chunk range = %+v", fn.Chunks[0])
	}
	if !fn.Covers(testBase+12) || fn.Covers(testBase+4) {
		t.Error("Covers disagrees with the chunk layout")
	}
}

func TestEntryPointResolvedWithoutConfig(t *testing.T) {
	img := testImage(0x4E800020)
	img.Entry = testBase
	cfg := config.Default()

	funcs := runAnalyzer(t, cfg, img)
	if len(funcs) != 1 || funcs[0].Address != testBase || funcs[0].Size != 4 {
		t.Fatalf("entry function = %+v", funcs)
	}
	if funcs[0].Symbol() != "sub_82000000" {
		t.Errorf("symbol = %s", funcs[0].Symbol())
	}
}

func TestScanContinuesPastKnownIndirectCall(t *testing.T) {
	img := testImage(
		0x7D6903A6, // mtctr r11
		0x4E800420, // bctr, marked as a computed call
		0x4E800020, // blr
	)
	cfg := config.Default()
	cfg.KnownIndirectCalls[testBase+4] = true
	cfg.Functions[testBase] = config.FunctionConfig{}

	funcs := runAnalyzer(t, cfg, img)
	if funcs[0].Size != 12 {
		t.Fatalf("size = %d, want 12 (call returns, scan continues)", funcs[0].Size)
	}
}

func TestFunctionOutsideImageFails(t *testing.T) {
	img := testImage(0x4E800020)
	cfg := config.Default()
	cfg.Functions[0x90000000] = config.FunctionConfig{Size: 4}

	if _, err := New(cfg, img, nil).Run(); err == nil {
		t.Fatal("function outside the image was resolved")
	}
}

func TestInvalidInstructionHintSkipsRegion(t *testing.T) {
	img := testImage(
		0x38600001, // li r3, 1
		0x00000000, // embedded data, hinted invalid
		0x00000000,
		0x4E800020, // blr
	)
	cfg := config.Default()
	cfg.InvalidInstructions[testBase+4] = 8
	cfg.Functions[testBase] = config.FunctionConfig{}

	funcs := runAnalyzer(t, cfg, img)
	if funcs[0].Size != 16 {
		t.Fatalf("size = %d, want 16 (hint skips the embedded data)", funcs[0].Size)
	}
}
