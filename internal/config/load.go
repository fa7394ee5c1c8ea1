package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrMainSectionMissing indicates that [main] is missing in a config file.
	ErrMainSectionMissing = errors.New("missing [main]")
)

// The on-disk TOML shape. Addresses are written as hex strings so configs
// stay diffable against disassembly listings.
type fileConfig struct {
	Main struct {
		ProjectName               string            `toml:"project_name"`
		FilePath                  string            `toml:"file_path"`
		OutDirectoryPath          string            `toml:"out_directory_path"`
		ImageBase                 string            `toml:"image_base"`
		EntryPoint                string            `toml:"entry_point"`
		SkipLR                    bool              `toml:"skip_lr"`
		SkipMSR                   bool              `toml:"skip_msr"`
		CtrAsLocal                bool              `toml:"ctr_as_local"`
		XerAsLocal                bool              `toml:"xer_as_local"`
		ReservedRegisterAsLocal   bool              `toml:"reserved_register_as_local"`
		CRAsLocals                bool              `toml:"cr_as_locals"`
		NonArgumentAsLocals       bool              `toml:"non_argument_as_locals"`
		NonVolatileAsLocals       bool              `toml:"non_volatile_as_locals"`
		GenerateExceptionHandlers bool              `toml:"generate_exception_handlers"`
		MaxJumpExtension          *uint32           `toml:"max_jump_extension"`
		DataRegionThreshold       *uint32           `toml:"data_region_threshold"`
		LargeFunctionThreshold    *uint32           `toml:"large_function_threshold"`
		LongJmpAddress            string            `toml:"longjmp_address"`
		SetJmpAddress             string            `toml:"setjmp_address"`
		InvalidInstructions       map[string]uint32 `toml:"invalid_instructions"`
		KnownIndirectCalls        []string          `toml:"known_indirect_calls"`
		ExceptionHandlers         []string          `toml:"exception_handlers"`
	} `toml:"main"`

	Functions map[string]struct {
		Size   uint32 `toml:"size"`
		End    string `toml:"end"`
		Name   string `toml:"name"`
		Parent string `toml:"parent"`
	} `toml:"functions"`

	SwitchTables map[string]struct {
		BaseRegister  uint32   `toml:"base_register"`
		Targets       []string `toml:"targets"`
		DefaultTarget string   `toml:"default_target"`
	} `toml:"switch_tables"`

	MidAsmHooks map[string]struct {
		Name               string   `toml:"name"`
		Registers          []string `toml:"registers"`
		Ret                bool     `toml:"ret"`
		ReturnOnTrue       bool     `toml:"return_on_true"`
		ReturnOnFalse      bool     `toml:"return_on_false"`
		JumpAddress        string   `toml:"jump_address"`
		JumpAddressOnTrue  string   `toml:"jump_address_on_true"`
		JumpAddressOnFalse string   `toml:"jump_address_on_false"`
		AfterInstruction   bool     `toml:"after_instruction"`
	} `toml:"mid_asm_hooks"`
}

// Load reads and parses a TOML config file. The result is complete and
// immutable; validation is a separate step so the caller decides whether
// errors block.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the CLI
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if fc.Main.ProjectName == "" && fc.Main.FilePath == "" && fc.Main.OutDirectoryPath == "" {
		return nil, fmt.Errorf("%q: %w", path, ErrMainSectionMissing)
	}

	cfg := Default()
	cfg.ProjectName = fc.Main.ProjectName
	cfg.FilePath = fc.Main.FilePath
	cfg.OutDirectoryPath = fc.Main.OutDirectoryPath
	cfg.ConfigDir = filepath.Dir(path)
	cfg.SkipLR = fc.Main.SkipLR
	cfg.SkipMSR = fc.Main.SkipMSR
	cfg.CtrAsLocal = fc.Main.CtrAsLocal
	cfg.XerAsLocal = fc.Main.XerAsLocal
	cfg.ReservedRegisterAsLocal = fc.Main.ReservedRegisterAsLocal
	cfg.CRAsLocals = fc.Main.CRAsLocals
	cfg.NonArgumentAsLocals = fc.Main.NonArgumentAsLocals
	cfg.NonVolatileAsLocals = fc.Main.NonVolatileAsLocals
	cfg.GenerateExceptionHandlers = fc.Main.GenerateExceptionHandlers
	if fc.Main.MaxJumpExtension != nil {
		cfg.MaxJumpExtension = *fc.Main.MaxJumpExtension
	}
	if fc.Main.DataRegionThreshold != nil {
		cfg.DataRegionThreshold = *fc.Main.DataRegionThreshold
	}
	if fc.Main.LargeFunctionThreshold != nil {
		cfg.LargeFunctionThreshold = *fc.Main.LargeFunctionThreshold
	}

	if cfg.ImageBase, err = parseOptAddr(fc.Main.ImageBase); err != nil {
		return nil, fmt.Errorf("main.image_base: %w", err)
	}
	if cfg.EntryPoint, err = parseOptAddr(fc.Main.EntryPoint); err != nil {
		return nil, fmt.Errorf("main.entry_point: %w", err)
	}
	if cfg.LongJmpAddress, err = parseOptAddr(fc.Main.LongJmpAddress); err != nil {
		return nil, fmt.Errorf("main.longjmp_address: %w", err)
	}
	if cfg.SetJmpAddress, err = parseOptAddr(fc.Main.SetJmpAddress); err != nil {
		return nil, fmt.Errorf("main.setjmp_address: %w", err)
	}

	for key, size := range fc.Main.InvalidInstructions {
		addr, err := parseAddr(key)
		if err != nil {
			return nil, fmt.Errorf("main.invalid_instructions: %w", err)
		}
		cfg.InvalidInstructions[addr] = size
	}
	for _, key := range fc.Main.KnownIndirectCalls {
		addr, err := parseAddr(key)
		if err != nil {
			return nil, fmt.Errorf("main.known_indirect_calls: %w", err)
		}
		cfg.KnownIndirectCalls[addr] = true
	}
	for _, key := range fc.Main.ExceptionHandlers {
		addr, err := parseAddr(key)
		if err != nil {
			return nil, fmt.Errorf("main.exception_handlers: %w", err)
		}
		cfg.ExceptionHandlers = append(cfg.ExceptionHandlers, addr)
	}

	for key, fn := range fc.Functions {
		addr, err := parseAddr(key)
		if err != nil {
			return nil, fmt.Errorf("functions: %w", err)
		}
		end, err := parseOptAddr(fn.End)
		if err != nil {
			return nil, fmt.Errorf("functions[%s].end: %w", key, err)
		}
		parent, err := parseOptAddr(fn.Parent)
		if err != nil {
			return nil, fmt.Errorf("functions[%s].parent: %w", key, err)
		}
		cfg.Functions[addr] = FunctionConfig{Size: fn.Size, End: end, Name: fn.Name, Parent: parent}
	}

	for key, jt := range fc.SwitchTables {
		addr, err := parseAddr(key)
		if err != nil {
			return nil, fmt.Errorf("switch_tables: %w", err)
		}
		table := JumpTable{BaseRegister: jt.BaseRegister}
		if table.DefaultTarget, err = parseOptAddr(jt.DefaultTarget); err != nil {
			return nil, fmt.Errorf("switch_tables[%s].default_target: %w", key, err)
		}
		for _, t := range jt.Targets {
			target, err := parseAddr(t)
			if err != nil {
				return nil, fmt.Errorf("switch_tables[%s].targets: %w", key, err)
			}
			table.Targets = append(table.Targets, target)
		}
		cfg.SwitchTables[addr] = table
	}

	for key, h := range fc.MidAsmHooks {
		addr, err := parseAddr(key)
		if err != nil {
			return nil, fmt.Errorf("mid_asm_hooks: %w", err)
		}
		hook := MidAsmHook{
			Name:             h.Name,
			Registers:        h.Registers,
			Ret:              h.Ret,
			ReturnOnTrue:     h.ReturnOnTrue,
			ReturnOnFalse:    h.ReturnOnFalse,
			AfterInstruction: h.AfterInstruction,
		}
		if hook.JumpAddress, err = parseOptAddr(h.JumpAddress); err != nil {
			return nil, fmt.Errorf("mid_asm_hooks[%s].jump_address: %w", key, err)
		}
		if hook.JumpAddressOnTrue, err = parseOptAddr(h.JumpAddressOnTrue); err != nil {
			return nil, fmt.Errorf("mid_asm_hooks[%s].jump_address_on_true: %w", key, err)
		}
		if hook.JumpAddressOnFalse, err = parseOptAddr(h.JumpAddressOnFalse); err != nil {
			return nil, fmt.Errorf("mid_asm_hooks[%s].jump_address_on_false: %w", key, err)
		}
		cfg.MidAsmHooks[addr] = hook
	}

	return cfg, nil
}

func parseAddr(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	base := 10
	if rest, ok := stripHexPrefix(s); ok {
		s, base = rest, 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return uint32(v), nil
}

func parseOptAddr(s string) (uint32, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return parseAddr(s)
}

func stripHexPrefix(s string) (string, bool) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:], true
	}
	return s, false
}
