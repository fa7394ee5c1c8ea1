package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"ppcrecomp/internal/analysis"
	"ppcrecomp/internal/codegen"
	"ppcrecomp/internal/config"
	"ppcrecomp/internal/image"
)

// shardSize bounds how many functions land in one translation unit.
// Small enough to keep host compiler memory sane on big images, large
// enough that the file count stays manageable.
const shardSize = 128

type generator struct {
	cfg     *config.Config
	img     *image.Image
	funcs   []*analysis.Function
	symbols map[uint32]string
	shards  [][]*analysis.Function

	// externs is merged single-threaded after the workers join.
	externs map[uint32]struct{}
}

func newGenerator(cfg *config.Config, img *image.Image, funcs []*analysis.Function) *generator {
	g := &generator{
		cfg:     cfg,
		img:     img,
		funcs:   funcs,
		symbols: make(map[uint32]string, len(funcs)),
		externs: map[uint32]struct{}{},
	}
	for _, fn := range funcs {
		g.symbols[fn.Address] = fn.Symbol()
	}
	for i := 0; i < len(funcs); i += shardSize {
		end := i + shardSize
		if end > len(funcs) {
			end = len(funcs)
		}
		g.shards = append(g.shards, funcs[i:end])
	}
	return g
}

func (g *generator) shardCount() int { return len(g.shards) }

func (g *generator) resolve(addr uint32) (string, bool) {
	name, ok := g.symbols[addr]
	return name, ok
}

// emitAll renders every shard concurrently, then writes the aggregate
// artifacts. Each shard builds fully in memory and lands on disk in one
// write, so a failed run never leaves a half-written unit behind.
func (g *generator) emitAll(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())

	shardExterns := make([]map[uint32]struct{}, len(g.shards))
	for i := range g.shards {
		i := i
		eg.Go(func() error {
			externs, err := g.emitShard(ctx, i)
			shardExterns[i] = externs
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, se := range shardExterns {
		for addr := range se {
			// Targets inside the emitted set are declared as functions
			// already; only true unknowns need stub declarations.
			if _, known := g.symbols[addr]; !known {
				g.externs[addr] = struct{}{}
			}
		}
	}
	return g.emitAggregates()
}

func (g *generator) emitShard(ctx context.Context, idx int) (map[uint32]struct{}, error) {
	var out strings.Builder
	out.WriteString("#include \"ppc_recomp_shared.h\"\n\n")
	externs := map[uint32]struct{}{}
	for _, fn := range g.shards[idx] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := codegen.Emit(g.cfg, g.img, fn, g.resolve)
		if err != nil {
			return nil, fmt.Errorf("emit %s: %w", fn.Symbol(), err)
		}
		out.WriteString(res.Source)
		out.WriteString("\n")
		for addr := range res.Externs {
			externs[addr] = struct{}{}
		}
	}
	name := fmt.Sprintf("%s_%03d.cpp", g.cfg.ProjectName, idx)
	return externs, g.writeFile(name, out.String())
}

func (g *generator) writeFile(name, content string) error {
	path := filepath.Join(g.cfg.OutDirectoryPath, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (g *generator) emitAggregates() error {
	if err := g.writeFile("ppc_config.h", g.renderConfigHeader()); err != nil {
		return err
	}
	if err := g.writeFile("ppc_recomp_shared.h", g.renderSharedHeader()); err != nil {
		return err
	}
	if err := g.writeFile("ppc_func_mapping.cpp", g.renderFuncMapping()); err != nil {
		return err
	}
	if err := g.writeFile("function_table_init.cpp", g.renderTableInit()); err != nil {
		return err
	}
	return g.writeFile("sources.cmake", g.renderSourcesList())
}

// renderConfigHeader freezes the toggles the generated code was built
// under, so the runtime can assert it links against a matching build.
func (g *generator) renderConfigHeader() string {
	var b strings.Builder
	b.WriteString("#pragma once\n\n")
	imageSize, err := safecast.Conv[uint32](len(g.img.Data))
	if err != nil {
		imageSize = 0
	}
	fmt.Fprintf(&b, "#define PPC_IMAGE_BASE 0x%XULL\n", g.cfg.ImageBase)
	fmt.Fprintf(&b, "#define PPC_IMAGE_SIZE 0x%XULL\n", imageSize)
	fmt.Fprintf(&b, "#define PPC_CODE_BASE 0x%XULL\n", g.cfg.ImageBase)
	for _, t := range []struct {
		name string
		on   bool
	}{
		{"PPC_CONFIG_SKIP_LR", g.cfg.SkipLR},
		{"PPC_CONFIG_SKIP_MSR", g.cfg.SkipMSR},
		{"PPC_CONFIG_CTR_AS_LOCAL", g.cfg.CtrAsLocal},
		{"PPC_CONFIG_XER_AS_LOCAL", g.cfg.XerAsLocal},
		{"PPC_CONFIG_RESERVED_AS_LOCAL", g.cfg.ReservedRegisterAsLocal},
		{"PPC_CONFIG_CR_AS_LOCALS", g.cfg.CRAsLocals},
		{"PPC_CONFIG_NON_ARGUMENT_AS_LOCALS", g.cfg.NonArgumentAsLocals},
		{"PPC_CONFIG_NON_VOLATILE_AS_LOCALS", g.cfg.NonVolatileAsLocals},
	} {
		if t.on {
			fmt.Fprintf(&b, "#define %s\n", t.name)
		}
	}
	return b.String()
}

// renderSharedHeader declares every emitted function plus the external
// stubs call sites referenced, and owns the single definition point of
// the global-lock emulation state.
func (g *generator) renderSharedHeader() string {
	var b strings.Builder
	b.WriteString("#pragma once\n\n")
	b.WriteString("#include \"ppc_config.h\"\n")
	b.WriteString("#include <ppc_context.h>\n\n")
	b.WriteString("PPC_DECLARE_GLOBAL_LOCK();\n\n")
	for _, fn := range g.funcs {
		fmt.Fprintf(&b, "PPC_EXTERN_FUNC(%s);\n", fn.Symbol())
	}
	if len(g.externs) > 0 {
		b.WriteString("\n// Call targets outside the resolved function set.\n")
		for _, addr := range sortedAddrs(g.externs) {
			fmt.Fprintf(&b, "PPC_EXTERN_FUNC(sub_%08X);\n", addr)
		}
	}
	return b.String()
}

func (g *generator) renderFuncMapping() string {
	var b strings.Builder
	b.WriteString("#include \"ppc_recomp_shared.h\"\n\n")
	b.WriteString("PPCFuncMapping PPCFuncMappings[] = {\n")
	for _, fn := range g.funcs {
		fmt.Fprintf(&b, "\t{ 0x%X, %s },\n", fn.Address, fn.Symbol())
	}
	b.WriteString("\t{ 0, nullptr },\n")
	b.WriteString("};\n")
	return b.String()
}

func (g *generator) renderTableInit() string {
	var b strings.Builder
	b.WriteString("#include \"ppc_recomp_shared.h\"\n\n")
	b.WriteString("void PPCFuncTableInit(PPCFunc** table) {\n")
	for _, fn := range g.funcs {
		fmt.Fprintf(&b, "\ttable[(0x%X - PPC_CODE_BASE) / 4] = %s;\n", fn.Address, fn.Symbol())
	}
	b.WriteString("}\n")
	return b.String()
}

func (g *generator) renderSourcesList() string {
	var b strings.Builder
	b.WriteString("set(PPC_RECOMP_SOURCES\n")
	b.WriteString("\t\"ppc_func_mapping.cpp\"\n")
	b.WriteString("\t\"function_table_init.cpp\"\n")
	for i := range g.shards {
		fmt.Fprintf(&b, "\t\"%s_%03d.cpp\"\n", g.cfg.ProjectName, i)
	}
	b.WriteString(")\n")
	return b.String()
}

func sortedAddrs(set map[uint32]struct{}) []uint32 {
	addrs := make([]uint32, 0, len(set))
	for a := range set {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}
