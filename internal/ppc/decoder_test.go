package ppc

import "testing"

func TestDecodeCommonInstructions(t *testing.T) {
	cases := []struct {
		name string
		raw  uint32
		want Opcode
	}{
		{"addi", 0x38640001, OpAddi},
		{"lis", 0x3C601234, OpAddis},
		{"add", 0x7C642A14, OpAdd},
		{"mullw", 0x7C6429D6, OpMullw},
		{"lwz", 0x80610008, OpLwz},
		{"stw", 0x90010004, OpStw},
		{"mflr", 0x7D8802A6, OpMflr},
		{"mtlr", 0x7C0803A6, OpMtlr},
		{"blr", 0x4E800020, OpBclr},
		{"bctr", 0x4E800420, OpBcctr},
		{"rlwinm", 0x5483103A, OpRlwinm},
		{"cmpwi", 0x2C030000, OpCmpwi},
		{"bne", 0x40820008, OpBc},
		{"b", 0x48000010, OpB},
		{"nop", 0x60000000, OpNop},
		{"ori", 0x60630001, OpOri},
		{"twi-service", 0x0FE0002A, OpTwi},
		{"stwcx.", 0x7C60212D, OpStwcx},
		{"vaddfp", 0x1001100A, OpVaddfp},
		{"vaddsws", 0x10011380, OpVaddsws},
		{"vspltw", 0x10010A8C, OpVspltw},
		{"mfcr", 0x7C600026, OpMfcr},
		{"fadd", 0xFC43202A, OpFadd},
		{"fctiw", 0xFC20101C, OpFctiw},
		{"fctiwz", 0xFC20101E, OpFctiwz},
		{"lmw", 0xB8610008, OpLmw},
		{"stmw", 0xBFA1FFF4, OpStmw},
		{"lswi", 0x7CA444AA, OpLswi},
		{"stswi", 0x7CA445AA, OpStswi},
		{"invalid", 0x00000000, OpInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ins := Decode(0x82000000, tc.raw)
			if ins.Op != tc.want {
				t.Fatalf("Decode(0x%08X) = %s, want %s", tc.raw, ins.Op, tc.want)
			}
		})
	}
}

func TestDecodeFields(t *testing.T) {
	// addi r3, r4, 1
	ins := Decode(0x82000000, 0x38640001)
	if ins.RD() != 3 || ins.RA() != 4 || ins.SIMM() != 1 {
		t.Fatalf("addi fields: rd=%d ra=%d simm=%d", ins.RD(), ins.RA(), ins.SIMM())
	}

	// lwz r3, -8(r1)
	ins = Decode(0x82000000, 0x8061FFF8)
	if ins.RD() != 3 || ins.RA() != 1 || ins.SIMM() != -8 {
		t.Fatalf("lwz fields: rd=%d ra=%d simm=%d", ins.RD(), ins.RA(), ins.SIMM())
	}

	// bne cr0, +8
	ins = Decode(0x82000000, 0x40820008)
	if ins.BO() != 4 || ins.BI() != 2 || ins.BD() != 8 {
		t.Fatalf("bne fields: bo=%d bi=%d bd=%d", ins.BO(), ins.BI(), ins.BD())
	}

	// b -4
	ins = Decode(0x82000010, 0x4BFFFFFC)
	if ins.LI() != -4 {
		t.Fatalf("b displacement = %d, want -4", ins.LI())
	}

	// rlwinm r3, r4, 2, 0, 29
	ins = Decode(0x82000000, 0x5483103A)
	if ins.RS() != 4 || ins.RA() != 3 || ins.SH() != 2 || ins.MB() != 0 || ins.ME() != 29 {
		t.Fatalf("rlwinm fields: rs=%d ra=%d sh=%d mb=%d me=%d",
			ins.RS(), ins.RA(), ins.SH(), ins.MB(), ins.ME())
	}

	// mflr r12 reads SPR 8
	ins = Decode(0x82000000, 0x7D8802A6)
	if ins.RD() != 12 {
		t.Fatalf("mflr rd = %d, want 12", ins.RD())
	}
}

func TestDecodeRecordForms(t *testing.T) {
	cases := []struct {
		name   string
		raw    uint32
		record bool
	}{
		{"add", 0x7C642A14, false},
		{"add.", 0x7C642A15, true},
		{"andi.", 0x70640001, true},
		{"stwcx.", 0x7C60212D, true},
		{"vaddsws", 0x10011380, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ins := Decode(0x82000000, tc.raw)
			if got := ins.IsRecordForm(); got != tc.record {
				t.Fatalf("IsRecordForm(0x%08X) = %v, want %v", tc.raw, got, tc.record)
			}
		})
	}
}

func TestDecodeVMX128(t *testing.T) {
	// vand128 vd=0, va=1, vb=2: opcd 5, VX128 xo 528.
	raw := uint32(5<<26) | (0 << 21) | (1 << 16) | (2 << 11) | 528
	ins := Decode(0x82000000, raw)
	if ins.Op != OpVand128 {
		t.Fatalf("vand128 decoded as %s", ins.Op)
	}
	if ins.VD128() != 0 || ins.VA128() != 1 || ins.VB128() != 2 {
		t.Fatalf("vand128 registers: vd=%d va=%d vb=%d", ins.VD128(), ins.VA128(), ins.VB128())
	}

	// The wide register fields scatter extension bits into the low word.
	// vd=35 keeps 3 in the primary field and sets the low extension bit.
	raw = uint32(5<<26) | (3 << 21) | (1 << 16) | (2 << 11) | 528 | 0x4
	ins = Decode(0x82000000, raw)
	if ins.VD128() != 35 {
		t.Fatalf("vd128 extension: got %d, want 35", ins.VD128())
	}
}

func TestDecodeBytes(t *testing.T) {
	ins, ok := DecodeBytes(0x82000000, []byte{0x38, 0x64, 0x00, 0x01})
	if !ok || ins.Op != OpAddi {
		t.Fatalf("DecodeBytes: ok=%v op=%s", ok, ins.Op)
	}
	if _, ok := DecodeBytes(0x82000000, []byte{0x38}); ok {
		t.Fatal("DecodeBytes accepted a short buffer")
	}
}
