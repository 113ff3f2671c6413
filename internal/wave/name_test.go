package wave

import "testing"

func TestCharToOutputIndexAndBack(t *testing.T) {
	for i := 0; i < len(Alphabet); i++ {
		c := Alphabet[i]
		outIdx, err := CharToOutputIndex(c)
		if err != nil {
			t.Fatalf("CharToOutputIndex(%q): %v", c, err)
		}
		if outIdx != i+1 {
			t.Fatalf("want output index %d for %q, got %d", i+1, c, outIdx)
		}
		back, err := OutputIndexToChar(outIdx)
		if err != nil {
			t.Fatalf("OutputIndexToChar(%d): %v", outIdx, err)
		}
		if back != c {
			t.Fatalf("want char %q, got %q", c, back)
		}
	}
}

func TestCharToOutputIndexUppercase(t *testing.T) {
	idx, err := CharToOutputIndex('A')
	if err != nil {
		t.Fatalf("CharToOutputIndex('A'): %v", err)
	}
	lower, err := CharToOutputIndex('a')
	if err != nil {
		t.Fatalf("CharToOutputIndex('a'): %v", err)
	}
	if idx != lower {
		t.Fatalf("want case-insensitive match, got %d vs %d", idx, lower)
	}
}

func TestValidateNameRejectsLeadingHyphen(t *testing.T) {
	if err := ValidateName("-abc"); err == nil {
		t.Fatalf("want error for leading hyphen")
	}
}

func TestValidateNameRejectsTrailingHyphen(t *testing.T) {
	if err := ValidateName("abc-"); err == nil {
		t.Fatalf("want error for trailing hyphen")
	}
}

func TestValidateNameRejectsConsecutiveHyphens(t *testing.T) {
	if err := ValidateName("ab--cd"); err == nil {
		t.Fatalf("want error for consecutive hyphens")
	}
}

func TestValidateNameAllowsPunycodePrefix(t *testing.T) {
	if err := ValidateName("xn--80ak6aa92e"); err != nil {
		t.Fatalf("want punycode name accepted, got %v", err)
	}
}

func TestValidateNameRejectsTooLong(t *testing.T) {
	long := ""
	for i := 0; i < MaxNameLength+1; i++ {
		long += "a"
	}
	if err := ValidateName(long); err == nil {
		t.Fatalf("want error for over-length name")
	}
}

func TestValidateNameRejectsInvalidChar(t *testing.T) {
	if err := ValidateName("abc_def"); err == nil {
		t.Fatalf("want error for underscore")
	}
}

func TestNameToHashNormalizesCase(t *testing.T) {
	a := NameToHash("MyName")
	b := NameToHash("myname")
	if string(a) != string(b) {
		t.Fatalf("want case-insensitive hash match")
	}
}

func TestNameToHashIs16Bytes(t *testing.T) {
	h := NameToHash("example")
	if len(h) != 16 {
		t.Fatalf("want 16-byte hash, got %d", len(h))
	}
}
