// Package ppc decodes big-endian PowerPC (Xenon) machine words into a
// closed instruction vocabulary. Anything outside the vocabulary decodes
// to OpInvalid; downstream stages treat such words as data.
package ppc

// Opcode identifies one instruction in the recompiler's vocabulary.
// Simplified mnemonics (mr, nop, mflr, ...) get their own identity so
// that code generation can dispatch without re-inspecting raw fields.
type Opcode uint16

const (
	OpInvalid Opcode = iota

	// System, traps and special-register moves.
	OpAttn
	OpDcbf
	OpDcbst
	OpDcbt
	OpDcbtst
	OpDcbz
	OpDcbzl
	OpEieio
	OpIcbi
	OpIsync
	OpLwsync
	OpMfcr
	OpMfctr
	OpMflr
	OpMfmsr
	OpMfocrf
	OpMftb
	OpMfxer
	OpMtcr
	OpMtctr
	OpMtlr
	OpMtmsrd
	OpMtxer
	OpNop
	OpSync
	OpTd
	OpTdi
	OpTw
	OpTwi

	// Integer arithmetic.
	OpAdd
	OpAddc
	OpAdde
	OpAddi
	OpAddic
	OpAddicRecord
	OpAddis
	OpAddme
	OpAddze
	OpDivd
	OpDivdu
	OpDivw
	OpDivwu
	OpMulhw
	OpMulhwu
	OpMulld
	OpMulli
	OpMullw
	OpNeg
	OpSubf
	OpSubfc
	OpSubfe
	OpSubfic
	OpSubfme
	OpSubfze

	// Integer logic.
	OpAnd
	OpAndc
	OpAndiRecord
	OpAndisRecord
	OpCntlzd
	OpCntlzw
	OpEqv
	OpExtsb
	OpExtsh
	OpExtsw
	OpMr
	OpNand
	OpNor
	OpNot
	OpOr
	OpOrc
	OpOri
	OpOris
	OpXor
	OpXori
	OpXoris

	// Rotates and shifts.
	OpRldicl
	OpRldicr
	OpRldimi
	OpRlwimi
	OpRlwinm
	OpRlwnm
	OpSld
	OpSlw
	OpSrad
	OpSradi
	OpSraw
	OpSrawi
	OpSrd
	OpSrw

	// Compares.
	OpCmpd
	OpCmpdi
	OpCmpld
	OpCmpldi
	OpCmplw
	OpCmplwi
	OpCmpw
	OpCmpwi

	// Loads.
	OpLbz
	OpLbzu
	OpLbzx
	OpLd
	OpLdarx
	OpLdu
	OpLdx
	OpLha
	OpLhax
	OpLhbrx
	OpLhz
	OpLhzu
	OpLhzx
	OpLmw
	OpLswi
	OpLwa
	OpLwarx
	OpLwax
	OpLwbrx
	OpLwz
	OpLwzu
	OpLwzx

	// Stores.
	OpStb
	OpStbu
	OpStbx
	OpStd
	OpStdcx
	OpStdu
	OpStdx
	OpSth
	OpSthbrx
	OpSthu
	OpSthx
	OpStmw
	OpStswi
	OpStw
	OpStwbrx
	OpStwcx
	OpStwu
	OpStwux
	OpStwx

	// Branches and condition-register logic.
	OpB
	OpBa
	OpBc
	OpBca
	OpBcctr
	OpBcctrl
	OpBcl
	OpBcla
	OpBclr
	OpBclrl
	OpBl
	OpBla
	OpCrand
	OpCrandc
	OpCreqv
	OpCrnand
	OpCrnor
	OpCror
	OpCrorc
	OpCrxor
	OpMcrf

	// Scalar floating point.
	OpFabs
	OpFadd
	OpFadds
	OpFcfid
	OpFcmpu
	OpFctid
	OpFctidz
	OpFctiw
	OpFctiwz
	OpFdiv
	OpFdivs
	OpFmadd
	OpFmadds
	OpFmr
	OpFmsub
	OpFmsubs
	OpFmul
	OpFmuls
	OpFnabs
	OpFneg
	OpFnmadd
	OpFnmadds
	OpFnmsub
	OpFnmsubs
	OpFres
	OpFrsp
	OpFrsqrte
	OpFsel
	OpFsqrt
	OpFsqrts
	OpFsub
	OpFsubs
	OpMffs
	OpMtfsf

	// Floating loads and stores.
	OpLfd
	OpLfdx
	OpLfs
	OpLfsx
	OpStfd
	OpStfdx
	OpStfiwx
	OpStfs
	OpStfsx

	// VMX (Altivec) base set.
	OpLvebx
	OpLvehx
	OpLvewx
	OpLvlx
	OpLvrx
	OpLvsl
	OpLvsr
	OpLvx
	OpMfvscr
	OpMtvscr
	OpStvebx
	OpStvehx
	OpStvewx
	OpStvlx
	OpStvrx
	OpStvx
	OpVaddfp
	OpVaddsbs
	OpVaddshs
	OpVaddsws
	OpVaddubm
	OpVaddubs
	OpVadduhm
	OpVadduhs
	OpVadduwm
	OpVadduws
	OpVand
	OpVandc
	OpVavgsb
	OpVavgsh
	OpVavgsw
	OpVavgub
	OpVavguh
	OpVavguw
	OpVcfsx
	OpVcfux
	OpVcmpbfp
	OpVcmpeqfp
	OpVcmpequb
	OpVcmpequh
	OpVcmpequw
	OpVcmpgefp
	OpVcmpgtfp
	OpVcmpgtsb
	OpVcmpgtsh
	OpVcmpgtsw
	OpVcmpgtub
	OpVcmpgtuh
	OpVcmpgtuw
	OpVctsxs
	OpVctuxs
	OpVexptefp
	OpVlogefp
	OpVmaddfp
	OpVmaxfp
	OpVmaxsb
	OpVmaxsh
	OpVmaxsw
	OpVmaxub
	OpVmaxuh
	OpVmaxuw
	OpVmhraddshs
	OpVminfp
	OpVminsb
	OpVminsh
	OpVminsw
	OpVminub
	OpVminuh
	OpVminuw
	OpVmrghb
	OpVmrghh
	OpVmrghw
	OpVmrglb
	OpVmrglh
	OpVmrglw
	OpVnmsubfp
	OpVnor
	OpVor
	OpVperm
	OpVpkshss
	OpVpkshus
	OpVpkswss
	OpVpkswus
	OpVpkuhum
	OpVpkuhus
	OpVpkuwum
	OpVpkuwus
	OpVrefp
	OpVrfim
	OpVrfin
	OpVrfip
	OpVrfiz
	OpVrlb
	OpVrlh
	OpVrlimi128
	OpVrlw
	OpVrsqrtefp
	OpVsel
	OpVsl
	OpVslb
	OpVsldoi
	OpVslh
	OpVslo
	OpVslw
	OpVspltb
	OpVsplth
	OpVspltisb
	OpVspltish
	OpVspltisw
	OpVspltw
	OpVsr
	OpVsrab
	OpVsrah
	OpVsraw
	OpVsrb
	OpVsrh
	OpVsro
	OpVsrw
	OpVsubfp
	OpVsubsbs
	OpVsubshs
	OpVsubsws
	OpVsububm
	OpVsububs
	OpVsubuhm
	OpVsubuhs
	OpVsubuwm
	OpVsubuws
	OpVupkhsb
	OpVupkhsh
	OpVupklsb
	OpVupklsh
	OpVxor

	// VMX128 extension (Xenon-only encodings). Ops that merely re-encode a
	// base VMX operation with extended register fields keep the 128 suffix
	// because their operand scatter differs.
	OpLvlx128
	OpLvrx128
	OpLvsl128
	OpLvsr128
	OpLvx128
	OpStvlx128
	OpStvrx128
	OpStvx128
	OpVaddfp128
	OpVand128
	OpVandc128
	OpVcfpsxws128
	OpVcfpuxws128
	OpVcmpbfp128
	OpVcmpeqfp128
	OpVcmpequw128
	OpVcmpgefp128
	OpVcmpgtfp128
	OpVcsxwfp128
	OpVcuxwfp128
	OpVexptefp128
	OpVlogefp128
	OpVmaddcfp128
	OpVmaddfp128
	OpVmaxfp128
	OpVminfp128
	OpVmrghw128
	OpVmrglw128
	OpVmsum3fp128
	OpVmsum4fp128
	OpVmulfp128
	OpVnmsubfp128
	OpVnor128
	OpVor128
	OpVperm128
	OpVpermwi128
	OpVpkd3d128
	OpVpkshss128
	OpVpkshus128
	OpVpkswss128
	OpVpkswus128
	OpVpkuhum128
	OpVpkuhus128
	OpVpkuwum128
	OpVpkuwus128
	OpVrefp128
	OpVrfim128
	OpVrfin128
	OpVrfip128
	OpVrfiz128
	OpVrlw128
	OpVrsqrtefp128
	OpVsel128
	OpVsldoi128
	OpVslo128
	OpVslw128
	OpVspltisw128
	OpVspltw128
	OpVsraw128
	OpVsro128
	OpVsrw128
	OpVsubfp128
	OpVupkd3d128
	OpVupkhsb128
	OpVupklsb128
	OpVxor128

	opCount
)

// NumOpcodes sizes dense dispatch tables indexed by Opcode.
const NumOpcodes = int(opCount)

// Count reports the number of opcode identities including OpInvalid.
func Count() int { return NumOpcodes }
