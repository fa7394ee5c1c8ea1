package ppc

// Instruction is one decoded 32-bit word. Raw keeps the full encoding;
// field accessors slice it lazily so decode stays a single table lookup.
type Instruction struct {
	Address  uint32
	Raw      uint32
	Op       Opcode
	Operands []uint32
}

// Primary integer fields (IBM bit numbering, MSB first).

func (i Instruction) RD() uint32 { return i.Raw >> 21 & 0x1F }
func (i Instruction) RS() uint32 { return i.Raw >> 21 & 0x1F }
func (i Instruction) RA() uint32 { return i.Raw >> 16 & 0x1F }
func (i Instruction) RB() uint32 { return i.Raw >> 11 & 0x1F }
func (i Instruction) RC() uint32 { return i.Raw >> 6 & 0x1F }
func (i Instruction) TO() uint32 { return i.Raw >> 21 & 0x1F }

// SIMM returns the sign-extended low halfword.
func (i Instruction) SIMM() int32 { return int32(int16(i.Raw & 0xFFFF)) }

// UIMM returns the zero-extended low halfword.
func (i Instruction) UIMM() uint32 { return i.Raw & 0xFFFF }

func (i Instruction) Rc() bool { return i.Raw&1 != 0 }
func (i Instruction) OE() bool { return i.Raw&0x400 != 0 }

// SH64 assembles the split 6-bit shift amount of the 64-bit rotates.
func (i Instruction) SH64() uint32 { return i.Raw>>11&0x1F | i.Raw>>1&0x20 }
func (i Instruction) SH() uint32   { return i.Raw >> 11 & 0x1F }
func (i Instruction) MB() uint32   { return i.Raw >> 6 & 0x1F }
func (i Instruction) ME() uint32   { return i.Raw >> 1 & 0x1F }

// MB64 assembles the split 6-bit mask-begin field of the 64-bit rotates.
func (i Instruction) MB64() uint32 { return i.Raw>>6&0x1F | i.Raw&0x20 }

func (i Instruction) CRFD() uint32 { return i.Raw >> 23 & 0x7 }
func (i Instruction) CRFS() uint32 { return i.Raw >> 18 & 0x7 }
func (i Instruction) CRBD() uint32 { return i.Raw >> 21 & 0x1F }
func (i Instruction) CRBA() uint32 { return i.Raw >> 16 & 0x1F }
func (i Instruction) CRBB() uint32 { return i.Raw >> 11 & 0x1F }
func (i Instruction) FXM() uint32  { return i.Raw >> 12 & 0xFF }

// LI returns the sign-extended 24-bit branch displacement, already
// shifted to a byte offset.
func (i Instruction) LI() int32 { return int32(i.Raw&0x03FFFFFC) << 6 >> 6 }

// BD returns the sign-extended 14-bit conditional displacement.
func (i Instruction) BD() int32 { return int32(int16(i.Raw & 0xFFFC)) }

func (i Instruction) BO() uint32 { return i.Raw >> 21 & 0x1F }
func (i Instruction) BI() uint32 { return i.Raw >> 16 & 0x1F }
func (i Instruction) AA() bool   { return i.Raw&2 != 0 }
func (i Instruction) LK() bool   { return i.Raw&1 != 0 }

// SPR reassembles the swapped halves of the special register number.
func (i Instruction) SPR() uint32 { return i.Raw>>16&0x1F | i.Raw>>6&0x3E0 }

// Floating-point register fields reuse the integer slots.

func (i Instruction) FD() uint32 { return i.Raw >> 21 & 0x1F }
func (i Instruction) FA() uint32 { return i.Raw >> 16 & 0x1F }
func (i Instruction) FB() uint32 { return i.Raw >> 11 & 0x1F }
func (i Instruction) FC() uint32 { return i.Raw >> 6 & 0x1F }

// Base VMX vector register fields.

func (i Instruction) VD() uint32 { return i.Raw >> 21 & 0x1F }
func (i Instruction) VA() uint32 { return i.Raw >> 16 & 0x1F }
func (i Instruction) VB() uint32 { return i.Raw >> 11 & 0x1F }
func (i Instruction) VC() uint32 { return i.Raw >> 6 & 0x1F }

// VMX128 register fields. The Xenon forms scatter the upper register
// bits across otherwise-unused encoding slots to reach 128 registers.

func (i Instruction) VD128() uint32 { return i.Raw>>21&0x1F | i.Raw&0xC<<3 }
func (i Instruction) VA128() uint32 {
	return i.Raw>>16&0x1F | i.Raw&0x20 | i.Raw>>4&0x40
}
func (i Instruction) VB128() uint32 { return i.Raw>>11&0x1F | i.Raw&0x3<<5 }
func (i Instruction) VC128() uint32 { return i.Raw >> 6 & 0x7 }

// Rc128 is the record bit position used by the VMX128 compare forms.
func (i Instruction) Rc128() bool { return i.Raw&0x40 != 0 }

// IsRecordForm reports whether the instruction updates CR0 (or CR6 for
// vector compares). Some opcodes are record-form by definition.
func (i Instruction) IsRecordForm() bool {
	switch i.Op {
	case OpAddicRecord, OpAndiRecord, OpAndisRecord, OpStwcx, OpStdcx:
		return true
	case OpVcmpbfp128, OpVcmpeqfp128, OpVcmpequw128, OpVcmpgefp128, OpVcmpgtfp128:
		return i.Rc128()
	case OpVcmpbfp, OpVcmpeqfp, OpVcmpequb, OpVcmpequh, OpVcmpequw,
		OpVcmpgefp, OpVcmpgtfp, OpVcmpgtsb, OpVcmpgtsh, OpVcmpgtsw,
		OpVcmpgtub, OpVcmpgtuh, OpVcmpgtuw:
		return i.Raw&0x400 != 0
	}
	return i.Rc()
}
