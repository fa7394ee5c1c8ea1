package codegen

import (
	"fmt"

	"ppcrecomp/internal/ppc"
)

// builderFn lowers one decoded instruction into C++ statements on the
// context buffer. Builders run single-threaded per function.
type builderFn func(c *Context) error

// builders is the dense dispatch table. A nil slot is a hard failure:
// emitting a silently wrong body is worse than refusing to emit one.
var builders [ppc.NumOpcodes]builderFn

func register(op ppc.Opcode, fn builderFn) {
	if builders[op] != nil {
		panic(fmt.Sprintf("codegen: duplicate builder for %s", op))
	}
	builders[op] = fn
}

func init() {
	registerSystem()
	registerALU()
	registerLoadStore()
	registerBranch()
	registerFPU()
	registerVector()
	registerVector128()
}

// ErrUnimplemented marks an instruction the generator has no lowering
// for. The pipeline treats it as fatal for the whole run.
type ErrUnimplemented struct {
	Addr uint32
	Op   ppc.Opcode
	Raw  uint32
}

func (e ErrUnimplemented) Error() string {
	if e.Op == ppc.OpInvalid {
		return fmt.Sprintf("no lowering for word 0x%08X at 0x%08X", e.Raw, e.Addr)
	}
	return fmt.Sprintf("no lowering for %s at 0x%08X", e.Op, e.Addr)
}

// build dispatches one instruction to its builder.
func (c *Context) build(ins ppc.Instruction) error {
	fn := builders[ins.Op]
	if fn == nil {
		return ErrUnimplemented{Addr: ins.Address, Op: ins.Op, Raw: ins.Raw}
	}
	c.Ins = ins
	return fn(c)
}

// Implemented reports whether op has a registered lowering. The validate
// command uses it to preflight an image without generating anything.
func Implemented(op ppc.Opcode) bool {
	return op != ppc.OpInvalid && builders[op] != nil
}
