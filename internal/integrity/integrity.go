package integrity

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"

	"sigscan/internal/signature"
)

var (
	ErrDigestMismatch = errors.New("signature set digest mismatch")
	ErrDigestSize     = errors.New("hash does not produce a 20 byte digest")
)

// Size of a Digest in bytes.
const Size = sha1.Size

// Digest identifies the signatures of one game version as authored.
type Digest [Size]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest decodes a hex digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("invalid digest hex: %w", err)
	}
	if len(b) != Size {
		return d, fmt.Errorf("invalid digest length %d", len(b))
	}
	copy(d[:], b)
	return d, nil
}

// Aggregator folds a signature set into a Digest. The fold runs over the
// encoded words, not the decoded descriptors.
type Aggregator struct {
	codec   *signature.Codec
	newHash func() hash.Hash
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithHash replaces SHA-1. The hash must produce Size bytes.
func WithHash(newHash func() hash.Hash) Option {
	return func(a *Aggregator) {
		a.newHash = newHash
	}
}

func NewAggregator(keys signature.Keys, opts ...Option) *Aggregator {
	a := &Aggregator{
		codec:   signature.NewCodec(keys),
		newHash: sha1.New,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Digest folds every signature authored for version, in input order, after
// the codec's game version and before the number of signatures folded. Words
// are fed as 32-bit little-endian values. Signatures for other versions are
// skipped entirely.
func (a *Aggregator) Digest(sigs []signature.Encoded, version uint16) (Digest, error) {
	var d Digest
	keys := a.codec.Keys()
	h := a.newHash()
	if h.Size() != Size {
		return d, fmt.Errorf("%w: got %d", ErrDigestSize, h.Size())
	}

	var buf [4]byte
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:], v)
		h.Write(buf[:])
	}

	put(uint32(keys.GameVersion))
	var count uint32
	for _, e := range sigs {
		if a.codec.Decode(e).GameVersion != version {
			continue
		}
		put(e[0])
		put(e[1])
		put(e[2])
		put(e[3])
		put((e[4] ^ keys.XorKey ^ e[3]) & 0xFFFFFF)
		count++
	}
	put(count)

	copy(d[:], h.Sum(nil))
	return d, nil
}

// Current digests the signatures authored for the codec's own game version.
func (a *Aggregator) Current(sigs []signature.Encoded) (Digest, error) {
	return a.Digest(sigs, a.codec.Keys().GameVersion)
}

// Verify recomputes the digest for version and compares it with expected.
func (a *Aggregator) Verify(sigs []signature.Encoded, version uint16, expected Digest) error {
	got, err := a.Digest(sigs, version)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(got[:], expected[:]) != 1 {
		return fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, expected, got)
	}
	return nil
}
