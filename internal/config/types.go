// Package config holds the declarative recompiler configuration: identity
// fields, code generation toggles, analysis thresholds, and the manual
// override maps the analyzer and code generator consume.
package config

// FunctionConfig describes one function or chunk override. A "chunk" is
// simply an entry with a non-zero Parent: a discontiguous code fragment
// merged into the parent function's generated body, never emitted as a
// standalone function.
type FunctionConfig struct {
	Size   uint32 // explicit size in bytes (mutually exclusive with End)
	End    uint32 // end address, exclusive (mutually exclusive with Size)
	Name   string // custom symbol name (empty = auto-generate sub_XXXXXXXX)
	Parent uint32 // parent function address (0 = standalone)
}

// EffectiveSize prefers the explicit size over the end address. A result of
// zero means "unconfigured"; the validator flags it, the analyzer then
// measures the function itself.
func (f FunctionConfig) EffectiveSize(address uint32) uint32 {
	if f.Size != 0 {
		return f.Size
	}
	if f.End > address {
		return f.End - address
	}
	return 0
}

// IsChunk reports whether this entry belongs to a parent function.
func (f FunctionConfig) IsChunk() bool { return f.Parent != 0 }

// JumpTable resolves one indirect-branch-through-table dispatch site into a
// closed set of targets, so the generator can materialize a switch instead
// of an unresolvable indirect call.
type JumpTable struct {
	BaseRegister  uint32
	Targets       []uint32
	DefaultTarget uint32
}

// MidAsmHook is a user-declared interception point spliced into the
// instruction stream at one address. The hook body itself is authored by the
// user and linked into the generated code; the generator only emits the call
// site and the conditional control transfer around it.
type MidAsmHook struct {
	Name      string
	Registers []string

	Ret           bool
	ReturnOnTrue  bool
	ReturnOnFalse bool

	JumpAddress        uint32
	JumpAddressOnTrue  uint32
	JumpAddressOnFalse uint32

	AfterInstruction bool
}
