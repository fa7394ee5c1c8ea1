package config

// Config aggregates everything one recompilation run needs. It is loaded
// once at pipeline start and treated as read-only afterwards; builders
// receive it by reference, never through mutable global state, so the
// per-function emission phase can run concurrently.
type Config struct {
	// Required identity fields.
	ProjectName      string
	FilePath         string
	OutDirectoryPath string
	// Base directory of the config file, used to resolve relative paths.
	ConfigDir string

	// Guest mapping of the raw image named by FilePath.
	ImageBase  uint32
	EntryPoint uint32

	// Code generation toggles.
	SkipLR                    bool
	SkipMSR                   bool
	CtrAsLocal                bool
	XerAsLocal                bool
	ReservedRegisterAsLocal   bool
	CRAsLocals                bool
	NonArgumentAsLocals       bool
	NonVolatileAsLocals       bool
	GenerateExceptionHandlers bool

	// Analysis tuning.
	MaxJumpExtension       uint32 // max bytes to extend a function for jump table targets
	DataRegionThreshold    uint32 // consecutive invalid instructions to mark as data region
	LargeFunctionThreshold uint32 // warn if a function exceeds this size

	// Manual overrides.
	Functions      map[uint32]FunctionConfig
	SwitchTables   map[uint32]JumpTable
	MidAsmHooks    map[uint32]MidAsmHook
	LongJmpAddress uint32
	SetJmpAddress  uint32

	// User hints, merged with analysis results.
	InvalidInstructions map[uint32]uint32 // addr -> size
	KnownIndirectCalls  map[uint32]bool   // bctr sites that are vtable/computed calls
	ExceptionHandlers   []uint32
}

// Default returns a Config with the documented threshold defaults and empty
// override maps.
func Default() *Config {
	return &Config{
		ProjectName:            "ppc",
		MaxJumpExtension:       65536,
		DataRegionThreshold:    16,
		LargeFunctionThreshold: 1 << 20,
		Functions:              map[uint32]FunctionConfig{},
		SwitchTables:           map[uint32]JumpTable{},
		MidAsmHooks:            map[uint32]MidAsmHook{},
		InvalidInstructions:    map[uint32]uint32{},
		KnownIndirectCalls:     map[uint32]bool{},
	}
}
