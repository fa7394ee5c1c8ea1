package ppc

import (
	"encoding/binary"
	"strings"

	"golang.org/x/arch/ppc64/ppc64asm"
)

// Decode classifies one big-endian word. Three layers:
//
//  1. a primary-opcode switch for everything the code generator needs a
//     precise identity for (branches, SPR moves, simplified mnemonics),
//  2. a match/mask table for the Xenon VMX128 forms, which no generic
//     disassembler knows,
//  3. ppc64asm as a fallback, inverted through the mnemonic table.
//
// Words that survive none of the layers come back as OpInvalid.
func Decode(addr, raw uint32) Instruction {
	ins := Instruction{Address: addr, Raw: raw}
	switch raw >> 26 {
	case 4, 5, 6:
		ins.Op = decodeVector(raw)
	default:
		ins.Op = decodeFast(raw)
	}
	if ins.Op == OpInvalid {
		ins.Op = decodeFallback(raw)
	}
	if ins.Op != OpInvalid {
		ins.Operands = []uint32{ins.RD(), ins.RA(), ins.RB()}
	}
	return ins
}

// DecodeBytes decodes the first word of b. ok is false when b is short.
func DecodeBytes(addr uint32, b []byte) (Instruction, bool) {
	if len(b) < 4 {
		return Instruction{Address: addr}, false
	}
	return Decode(addr, binary.BigEndian.Uint32(b)), true
}

func decodeFast(raw uint32) Opcode {
	switch raw >> 26 {
	case 2:
		return OpTdi
	case 3:
		return OpTwi
	case 7:
		return OpMulli
	case 8:
		return OpSubfic
	case 10:
		if raw>>21&1 != 0 {
			return OpCmpldi
		}
		return OpCmplwi
	case 11:
		if raw>>21&1 != 0 {
			return OpCmpdi
		}
		return OpCmpwi
	case 12:
		return OpAddic
	case 13:
		return OpAddicRecord
	case 14:
		return OpAddi
	case 15:
		return OpAddis
	case 16:
		switch {
		case raw&3 == 0:
			return OpBc
		case raw&3 == 1:
			return OpBcl
		case raw&3 == 2:
			return OpBca
		default:
			return OpBcla
		}
	case 18:
		switch {
		case raw&3 == 0:
			return OpB
		case raw&3 == 1:
			return OpBl
		case raw&3 == 2:
			return OpBa
		default:
			return OpBla
		}
	case 19:
		switch raw >> 1 & 0x3FF {
		case 0:
			return OpMcrf
		case 16:
			if raw&1 != 0 {
				return OpBclrl
			}
			return OpBclr
		case 33:
			return OpCrnor
		case 129:
			return OpCrandc
		case 150:
			return OpIsync
		case 193:
			return OpCrxor
		case 225:
			return OpCrnand
		case 257:
			return OpCrand
		case 289:
			return OpCreqv
		case 417:
			return OpCrorc
		case 449:
			return OpCror
		case 528:
			if raw&1 != 0 {
				return OpBcctrl
			}
			return OpBcctr
		}
	case 20:
		return OpRlwimi
	case 21:
		return OpRlwinm
	case 23:
		return OpRlwnm
	case 24:
		if raw == 0x60000000 {
			return OpNop
		}
		return OpOri
	case 25:
		return OpOris
	case 26:
		return OpXori
	case 27:
		return OpXoris
	case 28:
		return OpAndiRecord
	case 29:
		return OpAndisRecord
	case 30:
		switch raw >> 2 & 0x7 {
		case 0:
			return OpRldicl
		case 1:
			return OpRldicr
		case 3:
			return OpRldimi
		}
	case 31:
		return decode31(raw)
	case 32:
		return OpLwz
	case 33:
		return OpLwzu
	case 34:
		return OpLbz
	case 35:
		return OpLbzu
	case 36:
		return OpStw
	case 37:
		return OpStwu
	case 38:
		return OpStb
	case 39:
		return OpStbu
	case 40:
		return OpLhz
	case 41:
		return OpLhzu
	case 42:
		return OpLha
	case 44:
		return OpSth
	case 45:
		return OpSthu
	case 46:
		return OpLmw
	case 47:
		return OpStmw
	case 48:
		return OpLfs
	case 50:
		return OpLfd
	case 52:
		return OpStfs
	case 54:
		return OpStfd
	case 58:
		switch raw & 3 {
		case 0:
			return OpLd
		case 1:
			return OpLdu
		case 2:
			return OpLwa
		}
	case 59:
		switch raw >> 1 & 0x1F {
		case 18:
			return OpFdivs
		case 20:
			return OpFsubs
		case 21:
			return OpFadds
		case 22:
			return OpFsqrts
		case 24:
			return OpFres
		case 25:
			return OpFmuls
		case 28:
			return OpFmsubs
		case 29:
			return OpFmadds
		case 30:
			return OpFnmsubs
		case 31:
			return OpFnmadds
		}
	case 62:
		switch raw & 3 {
		case 0:
			return OpStd
		case 1:
			return OpStdu
		}
	case 63:
		return decode63(raw)
	}
	return OpInvalid
}

func decode31(raw uint32) Opcode {
	// sradi is XS-form: its shift amount straddles the low xo bit.
	if raw>>2&0x1FF == 413 {
		return OpSradi
	}
	switch raw >> 1 & 0x3FF {
	case 0:
		if raw>>21&1 != 0 {
			return OpCmpd
		}
		return OpCmpw
	case 4:
		return OpTw
	case 6:
		return OpLvsl
	case 7:
		return OpLvebx
	case 11:
		return OpMulhwu
	case 19:
		if raw&0x100000 != 0 {
			return OpMfocrf
		}
		return OpMfcr
	case 20:
		return OpLwarx
	case 21:
		return OpLdx
	case 23:
		return OpLwzx
	case 24:
		return OpSlw
	case 26:
		return OpCntlzw
	case 27:
		return OpSld
	case 28:
		return OpAnd
	case 32:
		if raw>>21&1 != 0 {
			return OpCmpld
		}
		return OpCmplw
	case 38:
		return OpLvsr
	case 39:
		return OpLvehx
	case 54:
		return OpDcbst
	case 58:
		return OpCntlzd
	case 60:
		return OpAndc
	case 68:
		return OpTd
	case 71:
		return OpLvewx
	case 75:
		return OpMulhw
	case 83:
		return OpMfmsr
	case 84:
		return OpLdarx
	case 86:
		return OpDcbf
	case 87:
		return OpLbzx
	case 103:
		return OpLvx
	case 124:
		if raw>>21&0x1F == raw>>11&0x1F {
			return OpNot
		}
		return OpNor
	case 135:
		return OpStvebx
	case 144:
		return OpMtcr
	case 149:
		return OpStdx
	case 150:
		return OpStwcx
	case 151:
		return OpStwx
	case 167:
		return OpStvehx
	case 178:
		return OpMtmsrd
	case 183:
		return OpStwux
	case 199:
		return OpStvewx
	case 215:
		return OpStbx
	case 231:
		return OpStvx
	case 246:
		return OpDcbtst
	case 256:
		return OpAttn
	case 278:
		return OpDcbt
	case 279:
		return OpLhzx
	case 284:
		return OpEqv
	case 316:
		return OpXor
	case 339:
		switch raw>>16&0x1F | raw>>6&0x3E0 {
		case 1:
			return OpMfxer
		case 8:
			return OpMflr
		case 9:
			return OpMfctr
		}
		return OpInvalid
	case 341:
		return OpLwax
	case 343:
		return OpLhax
	case 371:
		return OpMftb
	case 407:
		return OpSthx
	case 412:
		return OpOrc
	case 444:
		if raw>>21&0x1F == raw>>11&0x1F {
			return OpMr
		}
		return OpOr
	case 467:
		switch raw>>16&0x1F | raw>>6&0x3E0 {
		case 1:
			return OpMtxer
		case 8:
			return OpMtlr
		case 9:
			return OpMtctr
		}
		return OpInvalid
	case 476:
		return OpNand
	case 519:
		return OpLvlx
	case 534:
		return OpLwbrx
	case 535:
		return OpLfsx
	case 536:
		return OpSrw
	case 539:
		return OpSrd
	case 551:
		return OpLvrx
	case 597:
		return OpLswi
	case 598:
		if raw>>21&3 == 1 {
			return OpLwsync
		}
		return OpSync
	case 599:
		return OpLfdx
	case 647:
		return OpStvlx
	case 662:
		return OpStwbrx
	case 663:
		return OpStfsx
	case 679:
		return OpStvrx
	case 725:
		return OpStswi
	case 727:
		return OpStfdx
	case 790:
		return OpLhbrx
	case 792:
		return OpSraw
	case 794:
		return OpSrad
	case 824:
		return OpSrawi
	case 854:
		return OpEieio
	case 918:
		return OpSthbrx
	case 922:
		return OpExtsh
	case 954:
		return OpExtsb
	case 982:
		return OpIcbi
	case 983:
		return OpStfiwx
	case 986:
		return OpExtsw
	case 998:
		return OpDcbzl
	case 1014:
		return OpDcbz
	}
	// XO-form arithmetic keeps its identity with or without OE.
	switch raw >> 1 & 0x1FF {
	case 8:
		return OpSubfc
	case 10:
		return OpAddc
	case 40:
		return OpSubf
	case 104:
		return OpNeg
	case 136:
		return OpSubfe
	case 138:
		return OpAdde
	case 200:
		return OpSubfze
	case 202:
		return OpAddze
	case 214:
		return OpStdcx
	case 232:
		return OpSubfme
	case 233:
		return OpMulld
	case 234:
		return OpAddme
	case 235:
		return OpMullw
	case 266:
		return OpAdd
	case 457:
		return OpDivdu
	case 459:
		return OpDivwu
	case 489:
		return OpDivd
	case 491:
		return OpDivw
	}
	return OpInvalid
}

func decode63(raw uint32) Opcode {
	switch raw >> 1 & 0x1F {
	case 18:
		return OpFdiv
	case 20:
		return OpFsub
	case 21:
		return OpFadd
	case 22:
		return OpFsqrt
	case 23:
		return OpFsel
	case 25:
		return OpFmul
	case 26:
		return OpFrsqrte
	case 28:
		return OpFmsub
	case 29:
		return OpFmadd
	case 30:
		return OpFnmsub
	case 31:
		return OpFnmadd
	}
	switch raw >> 1 & 0x3FF {
	case 0:
		return OpFcmpu
	case 12:
		return OpFrsp
	case 14:
		return OpFctiw
	case 15:
		return OpFctiwz
	case 40:
		return OpFneg
	case 72:
		return OpFmr
	case 136:
		return OpFnabs
	case 264:
		return OpFabs
	case 583:
		return OpMffs
	case 711:
		return OpMtfsf
	case 814:
		return OpFctid
	case 815:
		return OpFctidz
	case 846:
		return OpFcfid
	}
	return OpInvalid
}

// VMX128 forms scatter their extended opcode across the low 11 bits and
// reuse the freed slots for register high bits. Each form has its own
// opcode mask; an instruction matches when the word agrees with the
// form's opcode bits.
const (
	vx128Mask  = 0x3D0
	vx128Mask1 = 0x7F3
	vx128Mask2 = 0x210
	vx128Mask3 = 0x7F0
	vx128Mask4 = 0x730
	vx128Mask5 = 0x10
	vx128MaskP = 0x630
	vx128MaskR = 0x390
)

type vmx128Entry struct {
	match uint32
	mask  uint32
	op    Opcode
}

func vx128(opcd, xo, formMask uint32, op Opcode) vmx128Entry {
	return vmx128Entry{
		match: opcd<<26 | xo&formMask,
		mask:  0xFC000000 | formMask,
		op:    op,
	}
}

// vmx128Table is ordered: within a primary opcode, wider masks go first
// so permissive forms cannot shadow specific ones. vsldoi128 keeps only
// one opcode bit and must stay at the end of the opcd-4 group.
var vmx128Table = []vmx128Entry{
	vx128(4, 3, vx128Mask1, OpLvsl128),
	vx128(4, 67, vx128Mask1, OpLvsr128),
	vx128(4, 195, vx128Mask1, OpLvx128),
	vx128(4, 451, vx128Mask1, OpStvx128),
	vx128(4, 1027, vx128Mask1, OpLvlx128),
	vx128(4, 1091, vx128Mask1, OpLvrx128),
	vx128(4, 1283, vx128Mask1, OpStvlx128),
	vx128(4, 1347, vx128Mask1, OpStvrx128),
	vx128(4, 16, vx128Mask5, OpVsldoi128),

	vx128(5, 16, vx128Mask, OpVaddfp128),
	vx128(5, 80, vx128Mask, OpVsubfp128),
	vx128(5, 144, vx128Mask, OpVmulfp128),
	vx128(5, 208, vx128Mask, OpVmaddfp128),
	vx128(5, 272, vx128Mask, OpVmaddcfp128),
	vx128(5, 336, vx128Mask, OpVnmsubfp128),
	vx128(5, 400, vx128Mask, OpVmsum3fp128),
	vx128(5, 464, vx128Mask, OpVmsum4fp128),
	vx128(5, 512, vx128Mask, OpVpkshss128),
	vx128(5, 528, vx128Mask, OpVand128),
	vx128(5, 576, vx128Mask, OpVpkshus128),
	vx128(5, 592, vx128Mask, OpVandc128),
	vx128(5, 640, vx128Mask, OpVpkswss128),
	vx128(5, 656, vx128Mask, OpVor128),
	vx128(5, 704, vx128Mask, OpVpkswus128),
	vx128(5, 720, vx128Mask, OpVnor128),
	vx128(5, 768, vx128Mask, OpVpkuhum128),
	vx128(5, 784, vx128Mask, OpVxor128),
	vx128(5, 832, vx128Mask, OpVpkuhus128),
	vx128(5, 848, vx128Mask, OpVsel128),
	vx128(5, 896, vx128Mask, OpVpkuwum128),
	vx128(5, 912, vx128Mask, OpVslo128),
	vx128(5, 960, vx128Mask, OpVpkuwus128),
	vx128(5, 976, vx128Mask, OpVsro128),
	vx128(5, 0, vx128Mask2, OpVperm128),

	vx128(6, 560, vx128Mask3, OpVcfpsxws128),
	vx128(6, 624, vx128Mask3, OpVcfpuxws128),
	vx128(6, 688, vx128Mask3, OpVcsxwfp128),
	vx128(6, 752, vx128Mask3, OpVcuxwfp128),
	vx128(6, 816, vx128Mask3, OpVrfim128),
	vx128(6, 880, vx128Mask3, OpVrfin128),
	vx128(6, 944, vx128Mask3, OpVrfip128),
	vx128(6, 1008, vx128Mask3, OpVrfiz128),
	vx128(6, 1584, vx128Mask3, OpVrefp128),
	vx128(6, 1648, vx128Mask3, OpVrsqrtefp128),
	vx128(6, 1712, vx128Mask3, OpVexptefp128),
	vx128(6, 1776, vx128Mask3, OpVlogefp128),
	vx128(6, 1840, vx128Mask3, OpVspltw128),
	vx128(6, 1904, vx128Mask3, OpVspltisw128),
	vx128(6, 2032, vx128Mask3, OpVupkd3d128),
	vx128(6, 1552, vx128Mask4, OpVpkd3d128),
	vx128(6, 1808, vx128Mask4, OpVrlimi128),
	vx128(6, 528, vx128MaskP, OpVpermwi128),
	vx128(6, 80, vx128Mask, OpVrlw128),
	vx128(6, 208, vx128Mask, OpVslw128),
	vx128(6, 336, vx128Mask, OpVsraw128),
	vx128(6, 464, vx128Mask, OpVsrw128),
	vx128(6, 640, vx128Mask, OpVmaxfp128),
	vx128(6, 704, vx128Mask, OpVminfp128),
	vx128(6, 768, vx128Mask, OpVmrghw128),
	vx128(6, 832, vx128Mask, OpVmrglw128),
	vx128(6, 896, vx128Mask, OpVupkhsb128),
	vx128(6, 960, vx128Mask, OpVupklsb128),
	vx128(6, 0, vx128MaskR, OpVcmpeqfp128),
	vx128(6, 128, vx128MaskR, OpVcmpgefp128),
	vx128(6, 256, vx128MaskR, OpVcmpgtfp128),
	vx128(6, 384, vx128MaskR, OpVcmpbfp128),
	vx128(6, 512, vx128MaskR, OpVcmpequw128),
}

func decodeVector(raw uint32) Opcode {
	for _, e := range vmx128Table {
		if raw&e.mask == e.match {
			return e.op
		}
	}
	if raw>>26 != 4 {
		return OpInvalid
	}
	// VA-form first: its low six bits double as the short opcode.
	switch raw & 0x3F {
	case 33:
		return OpVmhraddshs
	case 42:
		return OpVsel
	case 43:
		return OpVperm
	case 44:
		return OpVsldoi
	case 46:
		return OpVmaddfp
	case 47:
		return OpVnmsubfp
	}
	if op, ok := vxOps[raw&0x7FF]; ok {
		return op
	}
	return OpInvalid
}

// vxOps maps the 11-bit VX extended opcode. Compare instructions appear
// twice, with and without the record bit.
var vxOps = func() map[uint32]Opcode {
	m := map[uint32]Opcode{
		0:    OpVaddubm,
		2:    OpVmaxub,
		4:    OpVrlb,
		10:   OpVaddfp,
		12:   OpVmrghb,
		14:   OpVpkuhum,
		64:   OpVadduhm,
		66:   OpVmaxuh,
		68:   OpVrlh,
		74:   OpVsubfp,
		76:   OpVmrghh,
		78:   OpVpkuwum,
		128:  OpVadduwm,
		130:  OpVmaxuw,
		132:  OpVrlw,
		140:  OpVmrghw,
		142:  OpVpkuhus,
		206:  OpVpkuwus,
		258:  OpVmaxsb,
		260:  OpVslb,
		266:  OpVrefp,
		268:  OpVmrglb,
		270:  OpVpkshus,
		322:  OpVmaxsh,
		324:  OpVslh,
		330:  OpVrsqrtefp,
		332:  OpVmrglh,
		334:  OpVpkswus,
		386:  OpVmaxsw,
		388:  OpVslw,
		394:  OpVexptefp,
		396:  OpVmrglw,
		398:  OpVpkshss,
		452:  OpVsl,
		458:  OpVlogefp,
		462:  OpVpkswss,
		512:  OpVaddubs,
		514:  OpVminub,
		516:  OpVsrb,
		522:  OpVrfin,
		524:  OpVspltb,
		526:  OpVupkhsb,
		576:  OpVadduhs,
		578:  OpVminuh,
		580:  OpVsrh,
		586:  OpVrfiz,
		588:  OpVsplth,
		590:  OpVupkhsh,
		640:  OpVadduws,
		642:  OpVminuw,
		644:  OpVsrw,
		650:  OpVrfip,
		652:  OpVspltw,
		654:  OpVupklsb,
		708:  OpVsr,
		714:  OpVrfim,
		718:  OpVupklsh,
		768:  OpVaddsbs,
		770:  OpVminsb,
		772:  OpVsrab,
		778:  OpVcfux,
		780:  OpVspltisb,
		832:  OpVaddshs,
		834:  OpVminsh,
		836:  OpVsrah,
		842:  OpVcfsx,
		844:  OpVspltish,
		896:  OpVaddsws,
		898:  OpVminsw,
		900:  OpVsraw,
		906:  OpVctuxs,
		908:  OpVspltisw,
		970:  OpVctsxs,
		1024: OpVsububm,
		1026: OpVavgub,
		1028: OpVand,
		1036: OpVslo,
		1088: OpVsubuhm,
		1090: OpVavguh,
		1092: OpVandc,
		1100: OpVsro,
		1152: OpVsubuwm,
		1154: OpVavguw,
		1156: OpVor,
		1220: OpVxor,
		1282: OpVavgsb,
		1284: OpVnor,
		1346: OpVavgsh,
		1410: OpVavgsw,
		1536: OpVsububs,
		1540: OpMfvscr,
		1600: OpVsubuhs,
		1604: OpMtvscr,
		1664: OpVsubuws,
		1792: OpVsubsbs,
		1856: OpVsubshs,
		1920: OpVsubsws,
	}
	cmps := map[uint32]Opcode{
		6:   OpVcmpequb,
		70:  OpVcmpequh,
		134: OpVcmpequw,
		198: OpVcmpeqfp,
		454: OpVcmpgefp,
		518: OpVcmpgtub,
		582: OpVcmpgtuh,
		646: OpVcmpgtuw,
		710: OpVcmpgtfp,
		774: OpVcmpgtsb,
		838: OpVcmpgtsh,
		902: OpVcmpgtsw,
		966: OpVcmpbfp,
	}
	for xo, op := range cmps {
		m[xo] = op
		m[xo|0x400] = op
	}
	return m
}()

func decodeFallback(raw uint32) Opcode {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], raw)
	inst, err := ppc64asm.Decode(buf[:], binary.BigEndian)
	if err != nil {
		return OpInvalid
	}
	name, _, _ := strings.Cut(ppc64asm.GNUSyntax(inst, 0), " ")
	if op, ok := byMnemonic[name]; ok {
		return op
	}
	if trimmed := strings.TrimSuffix(name, "."); trimmed != name {
		if op, ok := byMnemonic[trimmed]; ok {
			return op
		}
	}
	return OpInvalid
}
