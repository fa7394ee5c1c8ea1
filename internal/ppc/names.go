package ppc

// mnemonics uses GNU assembler spellings so that the disassembler
// fallback can be inverted without a translation layer.
var mnemonics = map[Opcode]string{
	OpAttn:   "attn",
	OpDcbf:   "dcbf",
	OpDcbst:  "dcbst",
	OpDcbt:   "dcbt",
	OpDcbtst: "dcbtst",
	OpDcbz:   "dcbz",
	OpDcbzl:  "dcbzl",
	OpEieio:  "eieio",
	OpIcbi:   "icbi",
	OpIsync:  "isync",
	OpLwsync: "lwsync",
	OpMfcr:   "mfcr",
	OpMfctr:  "mfctr",
	OpMflr:   "mflr",
	OpMfmsr:  "mfmsr",
	OpMfocrf: "mfocrf",
	OpMftb:   "mftb",
	OpMfxer:  "mfxer",
	OpMtcr:   "mtcr",
	OpMtctr:  "mtctr",
	OpMtlr:   "mtlr",
	OpMtmsrd: "mtmsrd",
	OpMtxer:  "mtxer",
	OpNop:    "nop",
	OpSync:   "sync",
	OpTd:     "td",
	OpTdi:    "tdi",
	OpTw:     "tw",
	OpTwi:    "twi",

	OpAdd:         "add",
	OpAddc:        "addc",
	OpAdde:        "adde",
	OpAddi:        "addi",
	OpAddic:       "addic",
	OpAddicRecord: "addic.",
	OpAddis:       "addis",
	OpAddme:       "addme",
	OpAddze:       "addze",
	OpDivd:        "divd",
	OpDivdu:       "divdu",
	OpDivw:        "divw",
	OpDivwu:       "divwu",
	OpMulhw:       "mulhw",
	OpMulhwu:      "mulhwu",
	OpMulld:       "mulld",
	OpMulli:       "mulli",
	OpMullw:       "mullw",
	OpNeg:         "neg",
	OpSubf:        "subf",
	OpSubfc:       "subfc",
	OpSubfe:       "subfe",
	OpSubfic:      "subfic",
	OpSubfme:      "subfme",
	OpSubfze:      "subfze",

	OpAnd:         "and",
	OpAndc:        "andc",
	OpAndiRecord:  "andi.",
	OpAndisRecord: "andis.",
	OpCntlzd:      "cntlzd",
	OpCntlzw:      "cntlzw",
	OpEqv:         "eqv",
	OpExtsb:       "extsb",
	OpExtsh:       "extsh",
	OpExtsw:       "extsw",
	OpMr:          "mr",
	OpNand:        "nand",
	OpNor:         "nor",
	OpNot:         "not",
	OpOr:          "or",
	OpOrc:         "orc",
	OpOri:         "ori",
	OpOris:        "oris",
	OpXor:         "xor",
	OpXori:        "xori",
	OpXoris:       "xoris",

	OpRldicl: "rldicl",
	OpRldicr: "rldicr",
	OpRldimi: "rldimi",
	OpRlwimi: "rlwimi",
	OpRlwinm: "rlwinm",
	OpRlwnm:  "rlwnm",
	OpSld:    "sld",
	OpSlw:    "slw",
	OpSrad:   "srad",
	OpSradi:  "sradi",
	OpSraw:   "sraw",
	OpSrawi:  "srawi",
	OpSrd:    "srd",
	OpSrw:    "srw",

	OpCmpd:   "cmpd",
	OpCmpdi:  "cmpdi",
	OpCmpld:  "cmpld",
	OpCmpldi: "cmpldi",
	OpCmplw:  "cmplw",
	OpCmplwi: "cmplwi",
	OpCmpw:   "cmpw",
	OpCmpwi:  "cmpwi",

	OpLbz:   "lbz",
	OpLbzu:  "lbzu",
	OpLbzx:  "lbzx",
	OpLd:    "ld",
	OpLdarx: "ldarx",
	OpLdu:   "ldu",
	OpLdx:   "ldx",
	OpLha:   "lha",
	OpLhax:  "lhax",
	OpLhbrx: "lhbrx",
	OpLhz:   "lhz",
	OpLhzu:  "lhzu",
	OpLhzx:  "lhzx",
	OpLmw:   "lmw",
	OpLswi:  "lswi",
	OpLwa:   "lwa",
	OpLwarx: "lwarx",
	OpLwax:  "lwax",
	OpLwbrx: "lwbrx",
	OpLwz:   "lwz",
	OpLwzu:  "lwzu",
	OpLwzx:  "lwzx",

	OpStb:    "stb",
	OpStbu:   "stbu",
	OpStbx:   "stbx",
	OpStd:    "std",
	OpStdcx:  "stdcx.",
	OpStdu:   "stdu",
	OpStdx:   "stdx",
	OpSth:    "sth",
	OpSthbrx: "sthbrx",
	OpSthu:   "sthu",
	OpSthx:   "sthx",
	OpStmw:   "stmw",
	OpStswi:  "stswi",
	OpStw:    "stw",
	OpStwbrx: "stwbrx",
	OpStwcx:  "stwcx.",
	OpStwu:   "stwu",
	OpStwux:  "stwux",
	OpStwx:   "stwx",

	OpB:      "b",
	OpBa:     "ba",
	OpBc:     "bc",
	OpBca:    "bca",
	OpBcctr:  "bcctr",
	OpBcctrl: "bcctrl",
	OpBcl:    "bcl",
	OpBcla:   "bcla",
	OpBclr:   "bclr",
	OpBclrl:  "bclrl",
	OpBl:     "bl",
	OpBla:    "bla",
	OpCrand:  "crand",
	OpCrandc: "crandc",
	OpCreqv:  "creqv",
	OpCrnand: "crnand",
	OpCrnor:  "crnor",
	OpCror:   "cror",
	OpCrorc:  "crorc",
	OpCrxor:  "crxor",
	OpMcrf:   "mcrf",

	OpFabs:    "fabs",
	OpFadd:    "fadd",
	OpFadds:   "fadds",
	OpFcfid:   "fcfid",
	OpFcmpu:   "fcmpu",
	OpFctid:   "fctid",
	OpFctidz:  "fctidz",
	OpFctiw:   "fctiw",
	OpFctiwz:  "fctiwz",
	OpFdiv:    "fdiv",
	OpFdivs:   "fdivs",
	OpFmadd:   "fmadd",
	OpFmadds:  "fmadds",
	OpFmr:     "fmr",
	OpFmsub:   "fmsub",
	OpFmsubs:  "fmsubs",
	OpFmul:    "fmul",
	OpFmuls:   "fmuls",
	OpFnabs:   "fnabs",
	OpFneg:    "fneg",
	OpFnmadd:  "fnmadd",
	OpFnmadds: "fnmadds",
	OpFnmsub:  "fnmsub",
	OpFnmsubs: "fnmsubs",
	OpFres:    "fres",
	OpFrsp:    "frsp",
	OpFrsqrte: "frsqrte",
	OpFsel:    "fsel",
	OpFsqrt:   "fsqrt",
	OpFsqrts:  "fsqrts",
	OpFsub:    "fsub",
	OpFsubs:   "fsubs",
	OpMffs:    "mffs",
	OpMtfsf:   "mtfsf",

	OpLfd:    "lfd",
	OpLfdx:   "lfdx",
	OpLfs:    "lfs",
	OpLfsx:   "lfsx",
	OpStfd:   "stfd",
	OpStfdx:  "stfdx",
	OpStfiwx: "stfiwx",
	OpStfs:   "stfs",
	OpStfsx:  "stfsx",

	OpLvebx:      "lvebx",
	OpLvehx:      "lvehx",
	OpLvewx:      "lvewx",
	OpLvlx:       "lvlx",
	OpLvrx:       "lvrx",
	OpLvsl:       "lvsl",
	OpLvsr:       "lvsr",
	OpLvx:        "lvx",
	OpMfvscr:     "mfvscr",
	OpMtvscr:     "mtvscr",
	OpStvebx:     "stvebx",
	OpStvehx:     "stvehx",
	OpStvewx:     "stvewx",
	OpStvlx:      "stvlx",
	OpStvrx:      "stvrx",
	OpStvx:       "stvx",
	OpVaddfp:     "vaddfp",
	OpVaddsbs:    "vaddsbs",
	OpVaddshs:    "vaddshs",
	OpVaddsws:    "vaddsws",
	OpVaddubm:    "vaddubm",
	OpVaddubs:    "vaddubs",
	OpVadduhm:    "vadduhm",
	OpVadduhs:    "vadduhs",
	OpVadduwm:    "vadduwm",
	OpVadduws:    "vadduws",
	OpVand:       "vand",
	OpVandc:      "vandc",
	OpVavgsb:     "vavgsb",
	OpVavgsh:     "vavgsh",
	OpVavgsw:     "vavgsw",
	OpVavgub:     "vavgub",
	OpVavguh:     "vavguh",
	OpVavguw:     "vavguw",
	OpVcfsx:      "vcfsx",
	OpVcfux:      "vcfux",
	OpVcmpbfp:    "vcmpbfp",
	OpVcmpeqfp:   "vcmpeqfp",
	OpVcmpequb:   "vcmpequb",
	OpVcmpequh:   "vcmpequh",
	OpVcmpequw:   "vcmpequw",
	OpVcmpgefp:   "vcmpgefp",
	OpVcmpgtfp:   "vcmpgtfp",
	OpVcmpgtsb:   "vcmpgtsb",
	OpVcmpgtsh:   "vcmpgtsh",
	OpVcmpgtsw:   "vcmpgtsw",
	OpVcmpgtub:   "vcmpgtub",
	OpVcmpgtuh:   "vcmpgtuh",
	OpVcmpgtuw:   "vcmpgtuw",
	OpVctsxs:     "vctsxs",
	OpVctuxs:     "vctuxs",
	OpVexptefp:   "vexptefp",
	OpVlogefp:    "vlogefp",
	OpVmaddfp:    "vmaddfp",
	OpVmaxfp:     "vmaxfp",
	OpVmaxsb:     "vmaxsb",
	OpVmaxsh:     "vmaxsh",
	OpVmaxsw:     "vmaxsw",
	OpVmaxub:     "vmaxub",
	OpVmaxuh:     "vmaxuh",
	OpVmaxuw:     "vmaxuw",
	OpVmhraddshs: "vmhraddshs",
	OpVminfp:     "vminfp",
	OpVminsb:     "vminsb",
	OpVminsh:     "vminsh",
	OpVminsw:     "vminsw",
	OpVminub:     "vminub",
	OpVminuh:     "vminuh",
	OpVminuw:     "vminuw",
	OpVmrghb:     "vmrghb",
	OpVmrghh:     "vmrghh",
	OpVmrghw:     "vmrghw",
	OpVmrglb:     "vmrglb",
	OpVmrglh:     "vmrglh",
	OpVmrglw:     "vmrglw",
	OpVnmsubfp:   "vnmsubfp",
	OpVnor:       "vnor",
	OpVor:        "vor",
	OpVperm:      "vperm",
	OpVpkshss:    "vpkshss",
	OpVpkshus:    "vpkshus",
	OpVpkswss:    "vpkswss",
	OpVpkswus:    "vpkswus",
	OpVpkuhum:    "vpkuhum",
	OpVpkuhus:    "vpkuhus",
	OpVpkuwum:    "vpkuwum",
	OpVpkuwus:    "vpkuwus",
	OpVrefp:      "vrefp",
	OpVrfim:      "vrfim",
	OpVrfin:      "vrfin",
	OpVrfip:      "vrfip",
	OpVrfiz:      "vrfiz",
	OpVrlb:       "vrlb",
	OpVrlh:       "vrlh",
	OpVrlimi128:  "vrlimi128",
	OpVrlw:       "vrlw",
	OpVrsqrtefp:  "vrsqrtefp",
	OpVsel:       "vsel",
	OpVsl:        "vsl",
	OpVslb:       "vslb",
	OpVsldoi:     "vsldoi",
	OpVslh:       "vslh",
	OpVslo:       "vslo",
	OpVslw:       "vslw",
	OpVspltb:     "vspltb",
	OpVsplth:     "vsplth",
	OpVspltisb:   "vspltisb",
	OpVspltish:   "vspltish",
	OpVspltisw:   "vspltisw",
	OpVspltw:     "vspltw",
	OpVsr:        "vsr",
	OpVsrab:      "vsrab",
	OpVsrah:      "vsrah",
	OpVsraw:      "vsraw",
	OpVsrb:       "vsrb",
	OpVsrh:       "vsrh",
	OpVsro:       "vsro",
	OpVsrw:       "vsrw",
	OpVsubfp:     "vsubfp",
	OpVsubsbs:    "vsubsbs",
	OpVsubshs:    "vsubshs",
	OpVsubsws:    "vsubsws",
	OpVsububm:    "vsububm",
	OpVsububs:    "vsububs",
	OpVsubuhm:    "vsubuhm",
	OpVsubuhs:    "vsubuhs",
	OpVsubuwm:    "vsubuwm",
	OpVsubuws:    "vsubuws",
	OpVupkhsb:    "vupkhsb",
	OpVupkhsh:    "vupkhsh",
	OpVupklsb:    "vupklsb",
	OpVupklsh:    "vupklsh",
	OpVxor:       "vxor",

	OpLvlx128:      "lvlx128",
	OpLvrx128:      "lvrx128",
	OpLvsl128:      "lvsl128",
	OpLvsr128:      "lvsr128",
	OpLvx128:       "lvx128",
	OpStvlx128:     "stvlx128",
	OpStvrx128:     "stvrx128",
	OpStvx128:      "stvx128",
	OpVaddfp128:    "vaddfp128",
	OpVand128:      "vand128",
	OpVandc128:     "vandc128",
	OpVcfpsxws128:  "vcfpsxws128",
	OpVcfpuxws128:  "vcfpuxws128",
	OpVcmpbfp128:   "vcmpbfp128",
	OpVcmpeqfp128:  "vcmpeqfp128",
	OpVcmpequw128:  "vcmpequw128",
	OpVcmpgefp128:  "vcmpgefp128",
	OpVcmpgtfp128:  "vcmpgtfp128",
	OpVcsxwfp128:   "vcsxwfp128",
	OpVcuxwfp128:   "vcuxwfp128",
	OpVexptefp128:  "vexptefp128",
	OpVlogefp128:   "vlogefp128",
	OpVmaddcfp128:  "vmaddcfp128",
	OpVmaddfp128:   "vmaddfp128",
	OpVmaxfp128:    "vmaxfp128",
	OpVminfp128:    "vminfp128",
	OpVmrghw128:    "vmrghw128",
	OpVmrglw128:    "vmrglw128",
	OpVmsum3fp128:  "vmsum3fp128",
	OpVmsum4fp128:  "vmsum4fp128",
	OpVmulfp128:    "vmulfp128",
	OpVnmsubfp128:  "vnmsubfp128",
	OpVnor128:      "vnor128",
	OpVor128:       "vor128",
	OpVperm128:     "vperm128",
	OpVpermwi128:   "vpermwi128",
	OpVpkd3d128:    "vpkd3d128",
	OpVpkshss128:   "vpkshss128",
	OpVpkshus128:   "vpkshus128",
	OpVpkswss128:   "vpkswss128",
	OpVpkswus128:   "vpkswus128",
	OpVpkuhum128:   "vpkuhum128",
	OpVpkuhus128:   "vpkuhus128",
	OpVpkuwum128:   "vpkuwum128",
	OpVpkuwus128:   "vpkuwus128",
	OpVrefp128:     "vrefp128",
	OpVrfim128:     "vrfim128",
	OpVrfin128:     "vrfin128",
	OpVrfip128:     "vrfip128",
	OpVrfiz128:     "vrfiz128",
	OpVrlw128:      "vrlw128",
	OpVrsqrtefp128: "vrsqrtefp128",
	OpVsel128:      "vsel128",
	OpVsldoi128:    "vsldoi128",
	OpVslo128:      "vslo128",
	OpVslw128:      "vslw128",
	OpVspltisw128:  "vspltisw128",
	OpVspltw128:    "vspltw128",
	OpVsraw128:     "vsraw128",
	OpVsro128:      "vsro128",
	OpVsrw128:      "vsrw128",
	OpVsubfp128:    "vsubfp128",
	OpVupkd3d128:   "vupkd3d128",
	OpVupkhsb128:   "vupkhsb128",
	OpVupklsb128:   "vupklsb128",
	OpVxor128:      "vxor128",
}

// byMnemonic inverts mnemonics for the disassembler fallback path.
var byMnemonic = func() map[string]Opcode {
	m := make(map[string]Opcode, len(mnemonics))
	for op, name := range mnemonics {
		m[name] = op
	}
	return m
}()

func (op Opcode) String() string {
	if s, ok := mnemonics[op]; ok {
		return s
	}
	return "invalid"
}
