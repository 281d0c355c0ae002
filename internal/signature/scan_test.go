package signature

import (
	"bytes"
	"crypto/rand"
	"strings"
	"sync"
	"testing"

	"sigscan/internal/joaat"
)

func descriptorFor(window []byte) Descriptor {
	return Descriptor{
		TargetHash: joaat.Sum(window),
		StartByte:  window[0],
		Size:       uint8(len(window)),
	}
}

func TestScanEndToEnd(t *testing.T) {
	keys := DefaultKeys
	e := encode(keys, joaat.Sum([]byte("HELLO")), 'H', 0x10, 0x40, PageReadOnly, 5, 0x123, 2699)
	codec := NewCodec(keys)
	d := codec.Decode(e)

	buf := []byte("HELLO_WORLD_TEST_STRING")
	m, ok := codec.Scanner().Match(d, buf)
	if !ok {
		t.Fatalf("expected a match")
	}
	if m.Offset != 0 {
		t.Errorf("expected offset 0, got %d", m.Offset)
	}
	if m.Kind != Text {
		t.Errorf("expected Text, got %v", m.Kind)
	}

	line := Format("dump.bin", d, m).Line()
	if !strings.Contains(line, "HELLO") {
		t.Errorf("expected report to contain HELLO, got %q", line)
	}
	expected := `(dump.bin) "HELLO" (5) (v2699) (PAGE_READONLY) (~297.984 kb region)`
	if line != expected {
		t.Errorf("expected %q, got %q", expected, line)
	}
}

func TestScanLeftmost(t *testing.T) {
	window := []byte("SIG!")
	buf := []byte("..S..SIG!..SIG!....")
	off, ok := DefaultScanner.Scan(descriptorFor(window), buf)
	if !ok || off != 5 {
		t.Errorf("expected leftmost offset 5, got %d (%v)", off, ok)
	}
}

func TestScanEmbeddedInRandom(t *testing.T) {
	buf := make([]byte, 1<<16)
	rand.Read(buf)
	window := []byte{0xAB, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B}
	k := 40000
	copy(buf[k:], window)

	d := descriptorFor(window)
	off, ok := DefaultScanner.Scan(d, buf)
	if !ok {
		t.Fatalf("expected match")
	}
	// An earlier collision on both the first byte and the 32-bit hash is
	// possible in principle, so accept any offset that satisfies both.
	if off > k {
		t.Fatalf("expected offset <= %d, got %d", k, off)
	}
	if buf[off] != d.StartByte || joaat.Sum(buf[off:off+len(window)]) != d.TargetHash {
		t.Errorf("offset %d does not satisfy the descriptor", off)
	}
}

func TestScanWindowLongerThanBuffer(t *testing.T) {
	d := descriptorFor([]byte("ABCDEFGH"))
	for _, buf := range [][]byte{nil, {}, []byte("ABC"), []byte("ABCDEFG"), []byte("ABCDEFGH")} {
		if off, ok := DefaultScanner.Scan(d, buf); ok {
			t.Errorf("expected no match in %q, got offset %d", buf, off)
		}
	}
}

func TestScanZeroSize(t *testing.T) {
	d := Descriptor{TargetHash: joaat.Sum(nil), StartByte: 'A', Size: 0}
	if _, ok := DefaultScanner.Scan(d, []byte("AAAA")); ok {
		t.Errorf("expected zero sized window to never match")
	}
}

func TestScanExcludesLastOffset(t *testing.T) {
	// The candidate range stops one short of len(buf)-size.
	d := descriptorFor([]byte("END"))
	if _, ok := DefaultScanner.Scan(d, []byte("xxEND")); ok {
		t.Errorf("expected window ending at the buffer end to be skipped")
	}
	if off, ok := DefaultScanner.Scan(d, []byte("xxEND.")); !ok || off != 2 {
		t.Errorf("expected offset 2, got %d (%v)", off, ok)
	}
}

func TestScanStartByteFilter(t *testing.T) {
	d := descriptorFor([]byte("HELLO"))
	d.StartByte = 'X'
	if _, ok := DefaultScanner.Scan(d, []byte("HELLO HELLO")); ok {
		t.Errorf("expected start byte mismatch to reject")
	}
}

func TestScanSeed(t *testing.T) {
	window := []byte("HELLO")
	d := descriptorFor(window)
	buf := []byte("..HELLO..")
	if _, ok := (Scanner{Seed: 0}).Scan(d, buf); ok {
		t.Errorf("expected a different seed to miss")
	}
	d.TargetHash = joaat.SumSeed(0, window)
	if off, ok := (Scanner{Seed: 0}).Scan(d, buf); !ok || off != 2 {
		t.Errorf("expected offset 2, got %d (%v)", off, ok)
	}
}

func TestScanConcurrent(t *testing.T) {
	buf := bytes.Repeat([]byte("abcdefgh"), 4096)
	copy(buf[20000:], "NEEDLE")
	d := descriptorFor([]byte("NEEDLE"))

	var wg sync.WaitGroup
	errs := make(chan int, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if off, ok := DefaultScanner.Scan(d, buf); !ok || off != 20000 {
				errs <- off
			}
		}()
	}
	wg.Wait()
	close(errs)
	for off := range errs {
		t.Errorf("unexpected result %d", off)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		input    []byte
		expected Kind
	}{
		{name: "ascii", input: []byte("HELLO"), expected: Text},
		{name: "control characters", input: []byte{0x00, 0x01, '\n', 0x7F}, expected: Text},
		{name: "boundary 127", input: []byte{127}, expected: Text},
		{name: "boundary 128", input: []byte{128}, expected: Raw},
		{name: "high byte at end", input: []byte{'a', 'b', 0xFF}, expected: Raw},
		{name: "empty", input: nil, expected: Text},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.input); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestMatchRaw(t *testing.T) {
	window := []byte{0x48, 0x8B, 0x05, 0xFF}
	buf := append([]byte{0x00, 0x01}, append(window, 0x90, 0x90)...)
	m, ok := DefaultScanner.Match(descriptorFor(window), buf)
	if !ok {
		t.Fatalf("expected match")
	}
	if m.Offset != 2 || m.Kind != Raw || !bytes.Equal(m.Window, window) {
		t.Errorf("unexpected match %+v", m)
	}
}

func TestRegionMatches(t *testing.T) {
	d := Descriptor{RegionSizeEstimate: 100000}
	cases := map[uint64]bool{
		89999:  false,
		90001:  true,
		100000: true,
		109999: true,
		110001: false,
		0:      false,
	}
	for observed, expected := range cases {
		if got := d.RegionMatches(observed); got != expected {
			t.Errorf("RegionMatches(%d): expected %v, got %v", observed, expected, got)
		}
	}
}

func BenchmarkScan(b *testing.B) {
	buf := make([]byte, 4<<20)
	rand.Read(buf)
	d := Descriptor{TargetHash: 0, StartByte: 0x48, Size: 24}
	b.SetBytes(int64(len(buf)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DefaultScanner.Scan(d, buf)
	}
}
