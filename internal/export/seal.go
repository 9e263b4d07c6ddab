package export

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Sealed files start with this magic followed by a version byte.
var sealMagic = []byte("HDGENSEAL")

const (
	sealVersion = 1
	saltSize    = 32
	// magic | version(1) | salt(32) | memory(4) | iterations(4) | parallelism(1) | nonce(24)
	sealHeaderSize = 9 + 1 + saltSize + 4 + 4 + 1 + chacha20poly1305.NonceSizeX
)

// ErrNotSealed is returned by Open for input without the sealed header.
var ErrNotSealed = errors.New("data is not a sealed hdgen export")

// KDFParams holds Argon2id parameters.
type KDFParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultKDFParams returns the Argon2id cost used for exports.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
	}
}

func (p KDFParams) key(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, p.Iterations, p.Memory, p.Parallelism, chacha20poly1305.KeySize)
}

// maxKDFMemory bounds the Argon2 memory a sealed header may request (2 GiB).
const maxKDFMemory = 2 * 1024 * 1024

func (p KDFParams) validate() error {
	if p.Iterations == 0 || p.Parallelism == 0 || p.Memory < 8*uint32(p.Parallelism) || p.Memory > maxKDFMemory {
		return fmt.Errorf("invalid key derivation parameters: memory=%d iterations=%d parallelism=%d",
			p.Memory, p.Iterations, p.Parallelism)
	}
	return nil
}

// IsSealed reports whether data carries the sealed header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, sealMagic)
}

// Seal encrypts an export with Argon2id and XChaCha20-Poly1305. The header
// is authenticated as additional data.
func Seal(plaintext, passphrase []byte, params KDFParams) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("empty passphrase")
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	header := make([]byte, 0, sealHeaderSize)
	header = append(header, sealMagic...)
	header = append(header, sealVersion)

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	header = append(header, salt...)
	header = binary.LittleEndian.AppendUint32(header, params.Memory)
	header = binary.LittleEndian.AppendUint32(header, params.Iterations)
	header = append(header, params.Parallelism)

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	header = append(header, nonce...)

	key := params.key(passphrase, salt)
	defer clear(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	return aead.Seal(header, nonce, plaintext, header), nil
}

// Open decrypts data produced by Seal.
func Open(sealed, passphrase []byte) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, ErrNotSealed
	}
	if len(sealed) < sealHeaderSize+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("sealed data too short: %d bytes", len(sealed))
	}
	off := len(sealMagic)
	if v := sealed[off]; v != sealVersion {
		return nil, fmt.Errorf("unsupported sealed version %d", v)
	}
	off++
	salt := sealed[off : off+saltSize]
	off += saltSize
	params := KDFParams{
		Memory:      binary.LittleEndian.Uint32(sealed[off:]),
		Iterations:  binary.LittleEndian.Uint32(sealed[off+4:]),
		Parallelism: sealed[off+8],
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	off += 9
	nonce := sealed[off : off+chacha20poly1305.NonceSizeX]
	header := sealed[:sealHeaderSize]

	key := params.key(passphrase, salt)
	defer clear(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	plaintext, err := aead.Open(nil, nonce, sealed[sealHeaderSize:], header)
	if err != nil {
		return nil, fmt.Errorf("decrypt: wrong passphrase or corrupted data")
	}
	return plaintext, nil
}
