package feed

import (
	"crypto/aes"
	"encoding/hex"
	"fmt"
)

// DefaultKey is the AES-256 key of the tunables document, hex encoded.
const DefaultKey = "f06f12f49b843dade4a7be053505b19c9e415c95d93753450a269144d59a0115"

// ParseKey decodes a hex AES-256 key.
func ParseKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid key hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key length %d, expected 32", len(key))
	}
	return key, nil
}

// Decrypt deciphers the document in ECB mode. Only the largest multiple of the
// block size is enciphered; any trailing bytes are carried over as they are.
func Decrypt(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	bs := block.BlockSize()
	aligned := len(data) - len(data)%bs
	out := make([]byte, len(data))
	for i := 0; i < aligned; i += bs {
		block.Decrypt(out[i:i+bs], data[i:i+bs])
	}
	copy(out[aligned:], data[aligned:])
	return out, nil
}

// Encrypt is the inverse of Decrypt.
func Encrypt(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	bs := block.BlockSize()
	aligned := len(data) - len(data)%bs
	out := make([]byte, len(data))
	for i := 0; i < aligned; i += bs {
		block.Encrypt(out[i:i+bs], data[i:i+bs])
	}
	copy(out[aligned:], data[aligned:])
	return out, nil
}
