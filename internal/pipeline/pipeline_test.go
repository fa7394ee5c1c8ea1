package pipeline

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ppcrecomp/internal/config"
)

const testBase = 0x82000000

// writeImage assembles the given big-endian words into a raw image file.
func writeImage(t *testing.T, dir string, words ...uint32) string {
	t.Helper()
	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.BigEndian.PutUint32(data[i*4:], w)
	}
	path := filepath.Join(dir, "test.bin")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T, words ...uint32) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ProjectName = "game"
	cfg.FilePath = writeImage(t, dir, words...)
	cfg.OutDirectoryPath = filepath.Join(dir, "out")
	cfg.ImageBase = testBase
	return cfg
}

func TestOwnsFile(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"game_000.cpp", true},
		{"game_127.cpp", true},
		{"ppc_recomp_shared.h", true},
		{"ppc_config.h", true},
		{"ppc_func_mapping.cpp", true},
		{"function_table_init.cpp", true},
		{"sources.cmake", true},
		{"game_notes.txt", false},
		{"CMakeLists.txt", false},
		{"main.cpp", false},
		{"readme.md", false},
		{"other_000.cpp", false},
	}
	for _, tc := range cases {
		if got := ownsFile(tc.name, "game"); got != tc.want {
			t.Errorf("ownsFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCleanOutputDirPreservesUserFiles(t *testing.T) {
	dir := t.TempDir()
	stale := []string{"game_000.cpp", "game_001.cpp", "sources.cmake", "ppc_config.h"}
	keep := []string{"main.cpp", "notes.txt", "CMakeLists.txt"}
	for _, name := range append(append([]string{}, stale...), keep...) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "game_sub.cpp"), 0o750); err != nil {
		t.Fatal(err)
	}

	if err := cleanOutputDir(dir, "game"); err != nil {
		t.Fatalf("cleanOutputDir: %v", err)
	}
	for _, name := range stale {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("stale %s survived the clean", name)
		}
	}
	for _, name := range keep {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("user file %s was removed", name)
		}
	}
	// Directories are never touched, even with an owned-looking name.
	if fi, err := os.Stat(filepath.Join(dir, "game_sub.cpp")); err != nil || !fi.IsDir() {
		t.Error("directory with owned-looking name was removed")
	}
}

func TestCleanOutputDirCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh", "out")
	if err := cleanOutputDir(dir, "game"); err != nil {
		t.Fatalf("cleanOutputDir: %v", err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatal("output directory was not created")
	}
}

func TestBlockedRunMutatesNothing(t *testing.T) {
	cfg := testConfig(t, 0x4E800020) // blr
	cfg.Functions[testBase] = config.FunctionConfig{Size: 4}
	cfg.ProjectName = "" // validation error

	p := New(cfg, nil)
	res, err := p.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != StateBlocked || p.State() != StateBlocked {
		t.Fatalf("state = %s, want %s", res.State, StateBlocked)
	}
	if !res.Diagnostics.HasErrors() {
		t.Fatal("blocked run reported no errors")
	}
	if _, err := os.Stat(cfg.OutDirectoryPath); !os.IsNotExist(err) {
		t.Fatal("blocked run touched the output directory")
	}
}

func TestForcedRunProceedsPastValidationErrors(t *testing.T) {
	cfg := testConfig(t, 0x4E800020)
	cfg.Functions[testBase] = config.FunctionConfig{Size: 4}
	cfg.MidAsmHooks[testBase] = config.MidAsmHook{Name: "Patch", Ret: true, JumpAddress: testBase + 8}

	p := New(cfg, nil)
	res, err := p.Run(context.Background(), true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != StateDone {
		t.Fatalf("state = %s, want %s", res.State, StateDone)
	}
}

func TestRunEmitsArtifacts(t *testing.T) {
	// li r3, 1; blr
	cfg := testConfig(t, 0x38600001, 0x4E800020)
	cfg.Functions[testBase] = config.FunctionConfig{Size: 8, Name: "BootMain"}

	p := New(cfg, nil)
	res, err := p.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != StateDone {
		t.Fatalf("state = %s, want %s", res.State, StateDone)
	}
	if res.FunctionCount != 1 {
		t.Fatalf("function count = %d, want 1", res.FunctionCount)
	}

	want := []string{
		"game_000.cpp",
		"ppc_config.h",
		"ppc_recomp_shared.h",
		"ppc_func_mapping.cpp",
		"function_table_init.cpp",
		"sources.cmake",
	}
	for _, name := range want {
		if _, err := os.Stat(filepath.Join(cfg.OutDirectoryPath, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	shard, err := os.ReadFile(filepath.Join(cfg.OutDirectoryPath, "game_000.cpp"))
	if err != nil {
		t.Fatal(err)
	}
	for _, frag := range []string{
		"#include \"ppc_recomp_shared.h\"",
		"PPC_FUNC(BootMain) {",
		"ctx.r3.s64 = 1;",
	} {
		if !strings.Contains(string(shard), frag) {
			t.Errorf("shard missing %q", frag)
		}
	}

	header, err := os.ReadFile(filepath.Join(cfg.OutDirectoryPath, "ppc_recomp_shared.h"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(header), "PPC_EXTERN_FUNC(BootMain);") {
		t.Error("shared header missing the function declaration")
	}
	if !strings.Contains(string(header), "PPC_DECLARE_GLOBAL_LOCK();") {
		t.Error("shared header missing the global lock declaration")
	}

	mapping, err := os.ReadFile(filepath.Join(cfg.OutDirectoryPath, "ppc_func_mapping.cpp"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(mapping), "{ 0x82000000, BootMain },") {
		t.Error("mapping missing the function row")
	}
	if !strings.Contains(string(mapping), "{ 0, nullptr },") {
		t.Error("mapping missing the sentinel row")
	}
}

func TestRerunCleansPriorShards(t *testing.T) {
	cfg := testConfig(t, 0x4E800020)
	cfg.Functions[testBase] = config.FunctionConfig{Size: 4}
	if err := os.MkdirAll(cfg.OutDirectoryPath, 0o750); err != nil {
		t.Fatal(err)
	}
	// Pretend a prior, larger run left extra shards and a user file behind.
	leftover := filepath.Join(cfg.OutDirectoryPath, "game_057.cpp")
	userFile := filepath.Join(cfg.OutDirectoryPath, "hooks.cpp")
	for _, path := range []string{leftover, userFile} {
		if err := os.WriteFile(path, []byte("// stale\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	p := New(cfg, nil)
	res, err := p.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != StateDone {
		t.Fatalf("state = %s, want %s", res.State, StateDone)
	}
	if _, err := os.Stat(leftover); !os.IsNotExist(err) {
		t.Error("stale shard from a prior run survived")
	}
	if _, err := os.Stat(userFile); err != nil {
		t.Error("user-owned source was removed")
	}
}

func TestRunUsesAnalysisCache(t *testing.T) {
	cfg := testConfig(t, 0x4E800020)
	cfg.Functions[testBase] = config.FunctionConfig{Size: 4}
	cacheDir := filepath.Join(t.TempDir(), "cache")

	run := func() {
		t.Helper()
		p := New(cfg, nil)
		p.CacheDir = cacheDir
		res, err := p.Run(context.Background(), false)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if res.State != StateDone || res.FunctionCount != 1 {
			t.Fatalf("state = %s, functions = %d", res.State, res.FunctionCount)
		}
	}
	run()

	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("first run left no cache entry: %v", err)
	}
	// Second run must load from the cache and still produce identical output.
	run()
}
