package signature

// Codec decodes signatures with a fixed set of Keys. It holds no mutable state
// and may be shared between goroutines.
type Codec struct {
	keys Keys
}

func NewCodec(keys Keys) *Codec {
	return &Codec{keys: keys}
}

func (c *Codec) Keys() Keys {
	return c.keys
}

// Scanner returns a Scanner that hashes windows with the codec's seed.
func (c *Codec) Scanner() Scanner {
	return Scanner{Seed: c.keys.Seed}
}

// Decode unpacks an encoded signature. Every input decodes to some
// Descriptor; whether its fields make sense is up to the caller.
// The target hash is stored in the clear and keys every other word.
func (c *Codec) Decode(e Encoded) Descriptor {
	hash := e[3]
	xk := c.keys.XorKey ^ hash

	pages := xk ^ e[1]
	packed := xk ^ e[2]

	return Descriptor{
		TargetHash:         hash,
		XorKey:             xk,
		StartByte:          uint8(packed >> 24 & 0xFF),
		StartPage:          uint16(pages & 0xFFFF),
		EndPage:            uint16(pages >> 16 & 0xFFFF),
		ProtectFlag:        (xk ^ e[4]) >> 8,
		Size:               uint8(packed >> 18 & 0x3F),
		RegionSizeEstimate: (packed & 0x3FFFF) << 10,
		GameVersion:        uint16((xk ^ e[0]) & 0xFFFF),
	}
}

// DecodeAll decodes sigs in order.
func (c *Codec) DecodeAll(sigs []Encoded) []Descriptor {
	out := make([]Descriptor, len(sigs))
	for i, e := range sigs {
		out[i] = c.Decode(e)
	}
	return out
}
