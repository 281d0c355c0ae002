package joaat

import "hash"

// Seed is the initial accumulator of the signature hash. It is the CRC-32
// generator polynomial, used only as a non-zero starting value.
const Seed uint32 = 0x04C11DB7

// Size of a digest in bytes.
const Size = 4

// Sum returns the signature hash of b using the default Seed.
func Sum(b []byte) uint32 {
	return SumSeed(Seed, b)
}

// SumSeed returns the one-at-a-time hash of b starting from seed.
func SumSeed(seed uint32, b []byte) uint32 {
	h := seed
	for _, c := range b {
		h += uint32(c)
		h += h << 10
		h ^= h >> 6
	}
	return finalize(h)
}

func finalize(h uint32) uint32 {
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return h
}

// Digest is a streaming form of SumSeed. The zero value is not usable; use New.
type Digest struct {
	seed uint32
	acc  uint32
}

// Assert that Digest implements hash.Hash32
var _ hash.Hash32 = (*Digest)(nil)

// New returns a Digest that starts from seed.
func New(seed uint32) *Digest {
	return &Digest{seed: seed, acc: seed}
}

func (d *Digest) Write(p []byte) (int, error) {
	h := d.acc
	for _, c := range p {
		h += uint32(c)
		h += h << 10
		h ^= h >> 6
	}
	d.acc = h
	return len(p), nil
}

// Sum32 finalizes a copy of the accumulator, so further writes continue the same stream.
func (d *Digest) Sum32() uint32 {
	return finalize(d.acc)
}

// Sum appends the big-endian digest to b.
func (d *Digest) Sum(b []byte) []byte {
	s := d.Sum32()
	return append(b, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

func (d *Digest) Reset() {
	d.acc = d.seed
}

func (d *Digest) Size() int { return Size }

func (d *Digest) BlockSize() int { return 1 }
