package config

import (
	"fmt"
	"sort"

	"ppcrecomp/internal/diag"
)

// ValidationResult mirrors the contract the pipeline gates on: Valid is true
// iff Errors is empty; warnings never block generation.
type ValidationResult struct {
	Valid    bool
	Warnings []diag.Diagnostic
	Errors   []diag.Diagnostic
}

// Bag returns the combined diagnostics for reporting.
func (v ValidationResult) Bag() *diag.Bag {
	bag := diag.NewBag()
	for _, d := range v.Warnings {
		bag.Add(d)
	}
	for _, d := range v.Errors {
		bag.Add(d)
	}
	bag.Sort()
	return bag
}

// Validate checks the configuration for consistency. Collection is
// exhaustive: every problem is reported, nothing short-circuits.
func (c *Config) Validate() ValidationResult {
	bag := diag.NewBag()
	r := diag.BagReporter{Bag: bag}

	if c.ProjectName == "" {
		diag.ReportError(r, diag.CfgMissingProjectName, 0, "main.project_name is required")
	}
	if c.FilePath == "" {
		diag.ReportError(r, diag.CfgMissingFilePath, 0, "main.file_path is required")
	}
	if c.OutDirectoryPath == "" {
		diag.ReportError(r, diag.CfgMissingOutDirectory, 0, "main.out_directory_path is required")
	}
	if c.DataRegionThreshold == 0 {
		diag.ReportError(r, diag.CfgBadThreshold, 0, "main.data_region_threshold must be non-zero")
	}

	// Deterministic reporting order regardless of map iteration.
	addrs := make([]uint32, 0, len(c.Functions))
	for addr := range c.Functions {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	for _, addr := range addrs {
		fn := c.Functions[addr]
		if addr%4 != 0 {
			diag.ReportError(r, diag.CfgUnalignedAddress, addr, "function address is not word aligned")
		}
		if fn.Size != 0 && fn.End != 0 && fn.End != addr+fn.Size {
			diag.ReportError(r, diag.CfgSizeEndConflict, addr,
				fmt.Sprintf("size (0x%X) and end (0x%08X) disagree", fn.Size, fn.End))
		}
		if size := fn.EffectiveSize(addr); size == 0 {
			// Unconfigured size is legal: the analyzer measures the function
			// itself. Still worth surfacing, an end below the address is
			// usually a typo.
			diag.ReportWarning(r, diag.CfgDegenerateSize, addr,
				"no usable size or end configured; deferring to automatic analysis")
		} else if size > c.LargeFunctionThreshold {
			diag.ReportWarning(r, diag.CfgOversizedFunction, addr,
				fmt.Sprintf("function size 0x%X exceeds large-function threshold 0x%X", size, c.LargeFunctionThreshold))
		}
		if fn.IsChunk() {
			parent, ok := c.Functions[fn.Parent]
			if !ok {
				diag.ReportError(r, diag.CfgOrphanChunk, addr,
					fmt.Sprintf("chunk parent 0x%08X has no function entry", fn.Parent))
			} else if parent.IsChunk() {
				diag.ReportError(r, diag.CfgChunkParentIsChunk, addr,
					fmt.Sprintf("chunk parent 0x%08X is itself a chunk", fn.Parent))
			}
		}
	}

	tableAddrs := make([]uint32, 0, len(c.SwitchTables))
	for addr := range c.SwitchTables {
		tableAddrs = append(tableAddrs, addr)
	}
	sort.Slice(tableAddrs, func(i, j int) bool { return tableAddrs[i] < tableAddrs[j] })
	for _, addr := range tableAddrs {
		jt := c.SwitchTables[addr]
		if addr%4 != 0 {
			diag.ReportError(r, diag.CfgUnalignedAddress, addr, "switch table dispatch address is not word aligned")
		}
		if len(jt.Targets) == 0 {
			diag.ReportError(r, diag.CfgEmptyJumpTable, addr, "switch table has no targets")
		}
		for _, t := range jt.Targets {
			if t%4 != 0 {
				diag.ReportError(r, diag.CfgUnalignedJumpTarget, addr,
					fmt.Sprintf("switch target 0x%08X is not word aligned", t))
			}
		}
	}

	hookAddrs := make([]uint32, 0, len(c.MidAsmHooks))
	for addr := range c.MidAsmHooks {
		hookAddrs = append(hookAddrs, addr)
	}
	sort.Slice(hookAddrs, func(i, j int) bool { return hookAddrs[i] < hookAddrs[j] })
	for _, addr := range hookAddrs {
		h := c.MidAsmHooks[addr]
		if addr%4 != 0 {
			diag.ReportError(r, diag.CfgUnalignedAddress, addr, "mid-asm hook address is not word aligned")
		}
		if h.Ret && (h.JumpAddress != 0 || h.JumpAddressOnTrue != 0 || h.JumpAddressOnFalse != 0) {
			diag.ReportError(r, diag.CfgHookRetAndJump, addr, "hook cannot both return and jump")
		}
		if h.JumpAddress != 0 && (h.JumpAddressOnTrue != 0 || h.JumpAddressOnFalse != 0) {
			diag.ReportError(r, diag.CfgHookJumpConflict, addr,
				"unconditional jump_address conflicts with conditional jump addresses")
		}
		if h.ReturnOnTrue && h.JumpAddressOnTrue != 0 {
			diag.ReportError(r, diag.CfgHookJumpConflict, addr,
				"return_on_true conflicts with jump_address_on_true")
		}
		if h.ReturnOnFalse && h.JumpAddressOnFalse != 0 {
			diag.ReportError(r, diag.CfgHookJumpConflict, addr,
				"return_on_false conflicts with jump_address_on_false")
		}
	}

	bag.Sort()
	return ValidationResult{
		Valid:    !bag.HasErrors(),
		Warnings: bag.Warnings(),
		Errors:   bag.Errors(),
	}
}
