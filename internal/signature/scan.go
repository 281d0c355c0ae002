package signature

import (
	"bytes"

	"sigscan/internal/joaat"
)

// Kind tells how a matched window is rendered.
type Kind int

const (
	Text Kind = iota // every byte is 7-bit ASCII
	Raw
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Raw:
		return "raw"
	default:
		return "unknown"
	}
}

// Match is a window of a scanned buffer that satisfied a Descriptor. Window
// aliases the scanned buffer.
type Match struct {
	Offset int
	Window []byte
	Kind   Kind
}

// Scanner searches buffers for descriptors. It carries no mutable state and
// may be used from any number of goroutines.
type Scanner struct {
	Seed uint32
}

// DefaultScanner hashes windows with the default seed.
var DefaultScanner = Scanner{Seed: joaat.Seed}

// Scan returns the leftmost offset whose window starts with d.StartByte and
// hashes to d.TargetHash. Candidate offsets are 0 up to, but excluding,
// len(buf)-d.Size. An empty window, or one at least as long as buf, never
// matches.
func (s Scanner) Scan(d Descriptor, buf []byte) (int, bool) {
	size := int(d.Size)
	if size == 0 || size >= len(buf) {
		return 0, false
	}
	end := len(buf) - size
	for off := 0; off < end; {
		i := bytes.IndexByte(buf[off:end], d.StartByte)
		if i < 0 {
			return 0, false
		}
		off += i
		if joaat.SumSeed(s.Seed, buf[off:off+size]) == d.TargetHash {
			return off, true
		}
		off++
	}
	return 0, false
}

// Match scans buf and classifies the window found, if any.
func (s Scanner) Match(d Descriptor, buf []byte) (Match, bool) {
	off, ok := s.Scan(d, buf)
	if !ok {
		return Match{}, false
	}
	window := buf[off : off+int(d.Size)]
	return Match{Offset: off, Window: window, Kind: Classify(window)}, true
}

// Classify reports Text when no byte has the high bit set. Control characters
// still count as Text.
func Classify(window []byte) Kind {
	for _, c := range window {
		if c > 127 {
			return Raw
		}
	}
	return Text
}

// Region returns the page range d is expected to be found in, relative to a
// base address.
func (d Descriptor) Region() (start, end uint64) {
	return uint64(d.StartPage) * PageSize, uint64(d.EndPage) * PageSize
}

// RegionMatches reports whether an observed region size is within 10% of the
// estimate carried by d.
func (d Descriptor) RegionMatches(observed uint64) bool {
	est := float64(d.RegionSizeEstimate)
	return float64(observed) > est*0.9 && float64(observed) < est*1.1
}
