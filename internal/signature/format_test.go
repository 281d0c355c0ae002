package signature

import "testing"

func TestProtectionName(t *testing.T) {
	cases := []struct {
		flag     uint32
		expected string
	}{
		{PageNoAccess, "PAGE_NOACCESS"},
		{PageReadOnly, "PAGE_READONLY"},
		{PageReadWrite, "PAGE_READWRITE"},
		{PageWriteCopy, "PAGE_WRITECOPY"},
		{PageExecute, "PAGE_EXECUTE"},
		{PageExecuteRead, "PAGE_EXECUTE_READ"},
		{PageExecuteReadWrite, "PAGE_EXECUTE_READWRITE"},
		{PageExecuteWriteCopy, "PAGE_EXECUTE_WRITECOPY"},
		{PageGuard, "PAGE_GUARD"},
		{PageNoCache, "PAGE_NOCACHE"},
		{PageWriteCombine, "PAGE_WRITECOMBINE"},
		{PageTargetsNoUpdate, "PAGE_TARGETS_INVALID"},
		{0, "PAGE_UNK0"},
		{0x44, "PAGE_UNK68"},
		{0xFFFFFF, "PAGE_UNK16777215"},
	}

	for _, tc := range cases {
		if got := ProtectionName(tc.flag); got != tc.expected {
			t.Errorf("ProtectionName(0x%X): expected %q, got %q", tc.flag, tc.expected, got)
		}
	}

	if KnownProtection(0x44) || !KnownProtection(PageGuard) {
		t.Errorf("unexpected KnownProtection result")
	}
}

func TestFormatText(t *testing.T) {
	d := Descriptor{Size: 3, GameVersion: 2699, ProtectFlag: PageExecuteRead, RegionSizeEstimate: 1024}
	m := Match{Offset: 7, Window: []byte("a\tb"), Kind: Text}
	r := Format("file.bin", d, m)

	if r.Text != "a\tb" || r.Bytes != "" {
		t.Errorf("unexpected text rendering %+v", r)
	}
	if r.Offset != 7 || r.Size != 3 || r.RegionKB != 1.024 {
		t.Errorf("unexpected metadata %+v", r)
	}
	expected := "(file.bin) \"a\tb\" (3) (v2699) (PAGE_EXECUTE_READ) (~1.024 kb region)"
	if got := r.Line(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestFormatRaw(t *testing.T) {
	d := Descriptor{Size: 4, GameVersion: 12, ProtectFlag: 0x1234, RegionSizeEstimate: 0}
	m := Match{Window: []byte{0x48, 0x8B, 0x05, 0xFF}, Kind: Raw}
	r := Format("mem.dmp", d, m)

	if r.Bytes != "48 8b 05 ff" || r.Text != "" {
		t.Errorf("unexpected raw rendering %+v", r)
	}
	expected := "(mem.dmp) { 48 8b 05 ff } (4) (v12) (PAGE_UNK4660) (~0.000 kb region)"
	if got := r.Line(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestHexBytes(t *testing.T) {
	cases := map[string][]byte{
		"":         nil,
		"00":       {0x00},
		"0a ff 10": {0x0A, 0xFF, 0x10},
	}
	for expected, input := range cases {
		if got := HexBytes(input); got != expected {
			t.Errorf("expected %q, got %q", expected, got)
		}
	}
}

func TestKindString(t *testing.T) {
	if Text.String() != "text" || Raw.String() != "raw" || Kind(9).String() != "unknown" {
		t.Errorf("unexpected kind names")
	}
}
