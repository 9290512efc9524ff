package datrie

import "testing"

func TestByteAlphabetBound(t *testing.T) {
	if AlphabetBound[byte]() != 256 {
		t.Fatalf("byte alphabet bound should be 256, is %d", AlphabetBound[byte]())
	}
}

func TestRuneAlphabetBound(t *testing.T) {
	if AlphabetBound[rune]() != 0x110000 {
		t.Fatalf("rune alphabet bound should be 0x110000, is %#x", AlphabetBound[rune]())
	}
}

func TestByteLabelRoundTrip(t *testing.T) {
	for _, b := range []byte{0, 1, 127, 255} {
		v := labelValue(b)
		back, ok := labelFromValue[byte](v)
		if !ok || back != b {
			t.Fatalf("byte %d should round-trip, got %d ok=%v", b, back, ok)
		}
	}
	if _, ok := labelFromValue[byte](256); ok {
		t.Fatal("256 is outside the byte alphabet")
	}
}

func TestRuneLabelRoundTrip(t *testing.T) {
	for _, r := range []rune{'a', 'z', 'あ', '漢', 0x10FFFF} {
		v := labelValue(r)
		back, ok := labelFromValue[rune](v)
		if !ok || back != r {
			t.Fatalf("rune %q should round-trip, got %q ok=%v", r, back, ok)
		}
	}
}

func TestRuneLabelRejectsNonScalars(t *testing.T) {
	for _, v := range []uint32{0xD800, 0xDBFF, 0xDFFF, 0x110000, 0xFFFFFFFF} {
		if _, ok := labelFromValue[rune](v); ok {
			t.Fatalf("%#x is not a Unicode scalar value", v)
		}
	}
}
