package signature

import (
	"errors"
	"testing"
)

// encode packs fields the way the feed authors do, for building fixtures.
func encode(keys Keys, hash uint32, startByte uint8, startPage, endPage uint16, protect uint32, size uint8, regionField uint32, version uint16) Encoded {
	xk := keys.XorKey ^ hash
	return Encoded{
		xk ^ uint32(version),
		xk ^ (uint32(endPage)<<16 | uint32(startPage)),
		xk ^ (uint32(startByte)<<24 | uint32(size&0x3F)<<18 | regionField&0x3FFFF),
		hash,
		xk ^ (protect << 8),
	}
}

func TestDecodeZeroKey(t *testing.T) {
	// With a zero key and zero hash every field is read straight from its word.
	codec := NewCodec(Keys{})
	got := codec.Decode(Encoded{0xAAAA0A8B, 0x00400010, 0x48140123, 0, 0x00004012})
	want := Descriptor{
		TargetHash:         0,
		XorKey:             0,
		StartByte:          0x48,
		StartPage:          0x0010,
		EndPage:            0x0040,
		ProtectFlag:        0x40,
		Size:               5,
		RegionSizeEstimate: 0x123 << 10,
		GameVersion:        0x0A8B,
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestDecodeDefaultKeyVector(t *testing.T) {
	codec := NewCodec(DefaultKeys)
	got := codec.Decode(Encoded{0x11111111, 0x22222222, 0x33333333, 0x44444444, 0x55555555})
	want := Descriptor{
		TargetHash:         0x44444444,
		XorKey:             0xF3E80F58,
		StartByte:          0xC0,
		StartPage:          0x2D7A,
		EndPage:            0xD1CA,
		ProtectFlag:        0xA6BD5A,
		Size:               54,
		RegionSizeEstimate: 0x0CF1AC00,
		GameVersion:        0x1E49,
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestDecodeKeyIsConfigurable(t *testing.T) {
	e := Encoded{1, 2, 3, 4, 5}
	a := NewCodec(DefaultKeys).Decode(e)
	b := NewCodec(Keys{XorKey: 0x01020304, Seed: DefaultKeys.Seed}).Decode(e)
	if a.TargetHash != b.TargetHash {
		t.Errorf("target hash must not depend on the key")
	}
	if a.XorKey == b.XorKey || a.GameVersion == b.GameVersion {
		t.Errorf("expected key to change derived fields: %+v vs %+v", a, b)
	}
	if b.XorKey != 0x01020304^4 {
		t.Errorf("expected xor key 0x%08X, got 0x%08X", 0x01020304^4, b.XorKey)
	}
}

func TestDecodeRoundTripsFixtureFields(t *testing.T) {
	keys := DefaultKeys
	e := encode(keys, 0xBC1E84F1, 'H', 0x10, 0x40, PageExecuteReadWrite, 5, 0x123, 2699)
	if e != (Encoded{0x0BB2C566, 0x0BF2CFFD, 0x43A6CECE, 0xBC1E84F1, 0x0BB28FED}) {
		t.Fatalf("fixture encoder drifted: %#x", e)
	}

	d := NewCodec(keys).Decode(e)
	if d.StartByte != 'H' || d.Size != 5 || d.StartPage != 0x10 || d.EndPage != 0x40 {
		t.Errorf("unexpected descriptor %+v", d)
	}
	if d.ProtectFlag != PageExecuteReadWrite {
		t.Errorf("expected protect 0x40, got 0x%X", d.ProtectFlag)
	}
	if d.RegionSizeEstimate != 297984 {
		t.Errorf("expected region 297984, got %d", d.RegionSizeEstimate)
	}
	if d.GameVersion != 2699 {
		t.Errorf("expected version 2699, got %d", d.GameVersion)
	}
}

func TestDecodeReversedRange(t *testing.T) {
	e := encode(Keys{}, 0, 0, 0x50, 0x10, 0, 1, 0, 0)
	d := NewCodec(Keys{}).Decode(e)
	if d.StartPage != 0x50 || d.EndPage != 0x10 {
		t.Errorf("expected reversed range to decode as-is, got %+v", d)
	}
	start, end := d.Region()
	if start != 0x50*PageSize || end != 0x10*PageSize {
		t.Errorf("unexpected region %d..%d", start, end)
	}
}

func TestDecodeSizeIsSixBits(t *testing.T) {
	codec := NewCodec(DefaultKeys)
	for _, w2 := range []uint32{0, 0xFFFFFFFF, 0x12345678, 0x80000000, 0x00FC0000} {
		for _, w3 := range []uint32{0, 0xFFFFFFFF, 0xB7AC4B1C} {
			d := codec.Decode(Encoded{0, 0, w2, w3, 0})
			if d.Size > 0x3F {
				t.Errorf("size out of range: %d", d.Size)
			}
			if d.RegionSizeEstimate&0x3FF != 0 || d.RegionSizeEstimate > 0x3FFFF<<10 {
				t.Errorf("region estimate out of range: 0x%X", d.RegionSizeEstimate)
			}
		}
	}
}

func TestDecodeDeterministic(t *testing.T) {
	codec := NewCodec(DefaultKeys)
	e := Encoded{0xDEADBEEF, 0xCAFEBABE, 0x8BADF00D, 0xFEEDFACE, 0x0D15EA5E}
	first := codec.Decode(e)
	for range 5 {
		if got := codec.Decode(e); got != first {
			t.Fatalf("expected %+v, got %+v", first, got)
		}
	}
}

func TestDecodeAll(t *testing.T) {
	codec := NewCodec(DefaultKeys)
	sigs := []Encoded{{1, 2, 3, 4, 5}, {6, 7, 8, 9, 10}}
	ds := codec.DecodeAll(sigs)
	if len(ds) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(ds))
	}
	for i := range sigs {
		if ds[i] != codec.Decode(sigs[i]) {
			t.Errorf("descriptor %d differs from Decode", i)
		}
	}
}

func TestParseWords(t *testing.T) {
	cases := []struct {
		name     string
		input    []int64
		expected Encoded
		err      bool
	}{
		{name: "unsigned", input: []int64{1, 2, 3, 4, 0xFFFFFFFF}, expected: Encoded{1, 2, 3, 4, 0xFFFFFFFF}},
		{name: "signed", input: []int64{-1, -2, 0, 0x7FFFFFFF, -0x80000000}, expected: Encoded{0xFFFFFFFF, 0xFFFFFFFE, 0, 0x7FFFFFFF, 0x80000000}},
		{name: "too few", input: []int64{1, 2, 3, 4}, err: true},
		{name: "too many", input: []int64{1, 2, 3, 4, 5, 6}, err: true},
		{name: "empty", input: nil, err: true},
		{name: "too large", input: []int64{1, 2, 3, 4, 0x100000000}, err: true},
		{name: "too small", input: []int64{-0x80000001, 2, 3, 4, 5}, err: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseWords(tc.input)
			if tc.err {
				if !errors.Is(err, ErrInvalidDescriptor) {
					t.Errorf("expected ErrInvalidDescriptor, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %#x, got %#x", tc.expected, got)
			}
		})
	}
}
