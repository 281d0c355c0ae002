package feed

import (
	"context"
	"errors"

	"sigscan/internal/signature"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected feed status")
	ErrMalformedFeed    = errors.New("malformed feed document")
)

// DefaultURL serves the encrypted tunables document that carries the signatures.
const DefaultURL = "http://prod.cloud.rockstargames.com/titles/gta5/pcros/0x1a098062.json"

// Feed supplies the encoded signatures to scan for, in authored order.
type Feed interface {
	Fetch(ctx context.Context) ([]signature.Encoded, error)
}

// InMemoryFeed is a Feed over a fixed signature set.
type InMemoryFeed struct {
	sigs []signature.Encoded
}

// Assert that InMemoryFeed implements the Feed interface
var _ Feed = (*InMemoryFeed)(nil)

func NewInMemoryFeed(sigs []signature.Encoded) *InMemoryFeed {
	return &InMemoryFeed{sigs: sigs}
}

func (f *InMemoryFeed) Fetch(ctx context.Context) ([]signature.Encoded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]signature.Encoded, len(f.sigs))
	copy(out, f.sigs)
	return out, nil
}
