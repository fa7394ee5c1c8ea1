package config

import (
	"os"
	"path/filepath"
	"testing"

	"ppcrecomp/internal/diag"
)

func TestEffectiveSize(t *testing.T) {
	cases := []struct {
		name string
		fc   FunctionConfig
		addr uint32
		want uint32
	}{
		{"explicit size wins", FunctionConfig{Size: 0x40, End: 0x82000100}, 0x82000000, 0x40},
		{"end fallback", FunctionConfig{End: 0x82000100}, 0x82000000, 0x100},
		{"end before address", FunctionConfig{End: 0x81000000}, 0x82000000, 0},
		{"unconfigured", FunctionConfig{}, 0x82000000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fc.EffectiveSize(tc.addr); got != tc.want {
				t.Fatalf("EffectiveSize = 0x%X, want 0x%X", got, tc.want)
			}
		})
	}
}

func TestValidateFlagsDegenerateConfigs(t *testing.T) {
	base := func() *Config {
		cfg := Default()
		cfg.ProjectName = "game"
		cfg.FilePath = "game.bin"
		cfg.OutDirectoryPath = "out"
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		code   diag.Code
	}{
		{
			"missing project name",
			func(c *Config) { c.ProjectName = "" },
			diag.CfgMissingProjectName,
		},
		{
			"unaligned function",
			func(c *Config) { c.Functions[0x82000002] = FunctionConfig{Size: 8} },
			diag.CfgUnalignedAddress,
		},
		{
			"size and end conflict",
			func(c *Config) {
				c.Functions[0x82000000] = FunctionConfig{Size: 8, End: 0x82000010}
			},
			diag.CfgSizeEndConflict,
		},
		{
			"orphan chunk",
			func(c *Config) {
				c.Functions[0x82000100] = FunctionConfig{Size: 8, Parent: 0x82000000}
			},
			diag.CfgOrphanChunk,
		},
		{
			"empty jump table",
			func(c *Config) { c.SwitchTables[0x82000000] = JumpTable{BaseRegister: 11} },
			diag.CfgEmptyJumpTable,
		},
		{
			"hook ret and jump",
			func(c *Config) {
				c.MidAsmHooks[0x82000000] = MidAsmHook{Name: "h", Ret: true, JumpAddress: 0x82000010}
			},
			diag.CfgHookRetAndJump,
		},
		{
			"zero data region threshold",
			func(c *Config) { c.DataRegionThreshold = 0 },
			diag.CfgBadThreshold,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			res := cfg.Validate()
			if res.Valid {
				t.Fatal("config validated despite the defect")
			}
			found := false
			for _, d := range res.Errors {
				if d.Code == tc.code {
					found = true
				}
			}
			if !found {
				t.Fatalf("missing %s in %v", tc.code, res.Errors)
			}
		})
	}
}

func TestValidateAcceptsCleanConfig(t *testing.T) {
	cfg := Default()
	cfg.ProjectName = "game"
	cfg.FilePath = "game.bin"
	cfg.OutDirectoryPath = "out"
	cfg.Functions[0x82000000] = FunctionConfig{Size: 0x40, Name: "main"}
	cfg.Functions[0x82000100] = FunctionConfig{Size: 8, Parent: 0x82000000}
	res := cfg.Validate()
	if !res.Valid {
		t.Fatalf("clean config rejected: %v", res.Errors)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	content := `
[main]
project_name = "game"
file_path = "game.bin"
out_directory_path = "out"
image_base = "0x82000000"
skip_lr = true
cr_as_locals = true
longjmp_address = "0x831B6790"

[functions.0x82120000]
size = 0x30
name = "EntryMain"

[functions.0x82120100]
end = "0x82120140"
parent = "0x82120000"

[switch_tables.0x82120010]
base_register = 11
targets = ["0x82120020", "0x82120030"]

[mid_asm_hooks.0x82120004]
name = "PatchBootFlag"
registers = ["r3", "cr6"]
return_on_true = true
`
	dir := t.TempDir()
	path := filepath.Join(dir, "game.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProjectName != "game" || !cfg.SkipLR || !cfg.CRAsLocals {
		t.Fatalf("main section mismatch: %+v", cfg)
	}
	if cfg.ImageBase != 0x82000000 {
		t.Fatalf("image base = 0x%X", cfg.ImageBase)
	}
	if cfg.LongJmpAddress != 0x831B6790 {
		t.Fatalf("longjmp = 0x%X", cfg.LongJmpAddress)
	}
	fn, ok := cfg.Functions[0x82120000]
	if !ok || fn.Size != 0x30 || fn.Name != "EntryMain" {
		t.Fatalf("function entry mismatch: %+v", fn)
	}
	chunk := cfg.Functions[0x82120100]
	if !chunk.IsChunk() || chunk.EffectiveSize(0x82120100) != 0x40 {
		t.Fatalf("chunk mismatch: %+v", chunk)
	}
	jt := cfg.SwitchTables[0x82120010]
	if jt.BaseRegister != 11 || len(jt.Targets) != 2 || jt.Targets[1] != 0x82120030 {
		t.Fatalf("jump table mismatch: %+v", jt)
	}
	hook := cfg.MidAsmHooks[0x82120004]
	if hook.Name != "PatchBootFlag" || !hook.ReturnOnTrue || len(hook.Registers) != 2 {
		t.Fatalf("hook mismatch: %+v", hook)
	}
}

func TestLoadRejectsMissingMain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.toml")
	if err := os.WriteFile(path, []byte("# nothing\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted a config without [main]")
	}
}
