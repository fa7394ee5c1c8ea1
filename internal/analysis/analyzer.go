package analysis

import (
	"fmt"
	"sort"

	"ppcrecomp/internal/config"
	"ppcrecomp/internal/diag"
	"ppcrecomp/internal/image"
	"ppcrecomp/internal/ppc"
)

// Analyzer walks the guest image once per run. Inputs are read-only; the
// result is a deterministic, address-ordered function list.
type Analyzer struct {
	cfg *config.Config
	img *image.Image
	rep diag.Reporter
}

func New(cfg *config.Config, img *image.Image, rep diag.Reporter) *Analyzer {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &Analyzer{cfg: cfg, img: img, rep: rep}
}

// Run resolves every configured function plus the image entry point.
// Explicit sizes win over end addresses, which win over scanning; chunks
// attach to their parent and never surface as functions.
func (a *Analyzer) Run() ([]*Function, error) {
	byAddr := make(map[uint32]*Function)

	addrs := make([]uint32, 0, len(a.cfg.Functions))
	for addr := range a.cfg.Functions {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	for _, addr := range addrs {
		fc := a.cfg.Functions[addr]
		if fc.IsChunk() {
			continue
		}
		fn, err := a.resolve(addr, fc)
		if err != nil {
			return nil, err
		}
		byAddr[addr] = fn
	}

	if entry := a.img.Entry; entry != 0 && byAddr[entry] == nil {
		if !chunkAt(a.cfg, entry) {
			fn, err := a.resolve(entry, a.cfg.Functions[entry])
			if err != nil {
				return nil, err
			}
			byAddr[entry] = fn
		}
	}

	// Attach chunks after every parent exists.
	for _, addr := range addrs {
		fc := a.cfg.Functions[addr]
		if !fc.IsChunk() {
			continue
		}
		parent, ok := byAddr[fc.Parent]
		if !ok {
			return nil, fmt.Errorf("chunk 0x%08X: parent 0x%08X was not resolved", addr, fc.Parent)
		}
		size := fc.EffectiveSize(addr)
		if size == 0 {
			size = a.scan(addr)
		}
		parent.Chunks = append(parent.Chunks, Range{Address: addr, Size: size})
	}

	out := make([]*Function, 0, len(byAddr))
	for _, fn := range byAddr {
		sort.Slice(fn.Chunks, func(i, j int) bool { return fn.Chunks[i].Address < fn.Chunks[j].Address })
		out = append(out, fn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

func chunkAt(cfg *config.Config, addr uint32) bool {
	fc, ok := cfg.Functions[addr]
	return ok && fc.IsChunk()
}

func (a *Analyzer) resolve(addr uint32, fc config.FunctionConfig) (*Function, error) {
	if !a.img.Contains(addr) {
		return nil, fmt.Errorf("function 0x%08X lies outside the image", addr)
	}
	size := fc.EffectiveSize(addr)
	if size == 0 {
		size = a.scan(addr)
		if size == 0 {
			return nil, fmt.Errorf("function 0x%08X: could not determine size", addr)
		}
	}
	return &Function{Address: addr, Size: size, Name: fc.Name}, nil
}

// scan walks forward from addr until the function provably ends: an
// unconditional return or backward branch past every pending forward target,
// or a run of invalid words long enough to be a data region. Switch tables
// inside the body extend it across their targets, bounded by
// MaxJumpExtension.
func (a *Analyzer) scan(addr uint32) uint32 {
	maxTarget := addr
	invalidRun := uint32(0)
	invalidStart := uint32(0)

	limit := a.img.End()
	if s, ok := a.img.SectionOf(addr); ok {
		limit = s.Address + s.Size
	}

	for pc := addr; pc < limit; pc += 4 {
		if hintSize, ok := a.cfg.InvalidInstructions[pc]; ok && hintSize > 0 {
			pc += hintSize - 4
			continue
		}

		raw, ok := a.img.ReadWord(pc)
		if !ok {
			return pc - addr
		}
		ins := ppc.Decode(pc, raw)

		if ins.Op == ppc.OpInvalid {
			if invalidRun == 0 {
				invalidStart = pc
			}
			invalidRun++
			if invalidRun >= a.cfg.DataRegionThreshold {
				diag.ReportWarning(a.rep, diag.AnaDataRegion, invalidStart,
					fmt.Sprintf("data region after %d consecutive invalid words", invalidRun))
				return invalidStart - addr
			}
			continue
		}
		invalidRun = 0

		if jt, ok := a.cfg.SwitchTables[pc]; ok {
			for _, t := range jt.Targets {
				if t > maxTarget && t-addr <= a.cfg.MaxJumpExtension {
					maxTarget = t
					diag.ReportInfo(a.rep, diag.AnaJumpExtension, pc,
						fmt.Sprintf("extending function to switch target 0x%08X", t))
				}
			}
		}

		switch ins.Op {
		case ppc.OpBc, ppc.OpBca:
			if t := branchTarget(ins); t > maxTarget && t < addr+a.cfg.MaxJumpExtension {
				maxTarget = t
			}
		case ppc.OpB, ppc.OpBa:
			if t := branchTarget(ins); t > maxTarget && t < addr+a.cfg.MaxJumpExtension && t < limit {
				// Forward unconditional branch that stays local: keep going.
				if t-pc < a.cfg.MaxJumpExtension {
					maxTarget = t
				}
			}
			if pc >= maxTarget {
				return pc + 4 - addr
			}
		case ppc.OpBclr, ppc.OpBcctr:
			if ins.Op == ppc.OpBcctr && a.cfg.KnownIndirectCalls[pc] {
				// Marked as a computed call, control comes back.
				continue
			}
			if isUnconditional(ins) && pc >= maxTarget {
				return pc + 4 - addr
			}
		}
	}

	diag.ReportWarning(a.rep, diag.AnaUnboundedScan, addr, "scan hit section end without a terminator")
	return limit - addr
}

func branchTarget(ins ppc.Instruction) uint32 {
	var disp int32
	switch ins.Op {
	case ppc.OpB, ppc.OpBl:
		disp = ins.LI()
	case ppc.OpBc, ppc.OpBcl:
		disp = ins.BD()
	case ppc.OpBa, ppc.OpBla:
		return uint32(ins.LI())
	case ppc.OpBca, ppc.OpBcla:
		return uint32(ins.BD())
	default:
		return 0
	}
	return uint32(int64(ins.Address) + int64(disp))
}

// isUnconditional reports the "branch always" BO encoding.
func isUnconditional(ins ppc.Instruction) bool {
	return ins.BO()&0x14 == 0x14
}
