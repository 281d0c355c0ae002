package signature

import (
	"errors"
	"fmt"
	"math"

	"sigscan/internal/joaat"
)

var (
	ErrInvalidDescriptor = errors.New("invalid signature descriptor")
)

// Words is the number of 32-bit words in an encoded signature.
const Words = 5

// PageSize is the unit of StartPage and EndPage.
const PageSize = 4096

// Keys holds the constants the feed was authored against.
type Keys struct {
	XorKey      uint32 // de-obfuscation key shared by every signature
	GameVersion uint16 // version folded into the integrity digest
	Seed        uint32 // initial accumulator of the window hash
}

// DefaultKeys are the constants of the current game build.
var DefaultKeys = Keys{
	XorKey:      0xB7AC4B1C,
	GameVersion: 2699,
	Seed:        joaat.Seed,
}

// Encoded is a signature as delivered by the feed.
type Encoded [Words]uint32

// Descriptor is a decoded signature.
type Descriptor struct {
	TargetHash         uint32
	XorKey             uint32
	StartByte          uint8
	StartPage          uint16
	EndPage            uint16
	ProtectFlag        uint32
	Size               uint8
	RegionSizeEstimate uint32
	GameVersion        uint16
}

// ParseWords validates a feed entry and converts it to an Encoded signature.
// Entries may carry signed or unsigned integers; negative values keep their
// 32-bit two's complement pattern.
func ParseWords(values []int64) (Encoded, error) {
	var e Encoded
	if len(values) != Words {
		return e, fmt.Errorf("%w: expected %d words, got %d", ErrInvalidDescriptor, Words, len(values))
	}
	for i, v := range values {
		if v < math.MinInt32 || v > math.MaxUint32 {
			return e, fmt.Errorf("%w: word %d out of 32-bit range: %d", ErrInvalidDescriptor, i, v)
		}
		e[i] = uint32(v)
	}
	return e, nil
}
