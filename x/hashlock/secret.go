package hashlock

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/iov-one/htlc/errors"
)

const (
	// SecretSize is the width of the canonical secret encoding.
	SecretSize = 32
	// MaxSecretWords is the number of uint64 words a secret can be built of.
	MaxSecretWords = SecretSize / 8
)

// Secret is the preimage of a hashlock.
type Secret [SecretSize]byte

// SecretFromUint64 builds a secret out of up to four words. Each word is
// written big-endian and missing words are zero.
func SecretFromUint64(words ...uint64) (Secret, error) {
	var s Secret
	if len(words) == 0 || len(words) > MaxSecretWords {
		return s, errors.Wrapf(errors.ErrInput, "secret needs 1 to %d words, got %d", MaxSecretWords, len(words))
	}
	for i, w := range words {
		binary.BigEndian.PutUint64(s[i*8:], w)
	}
	return s, nil
}

// SecretFromBytes returns a secret using given bytes. The input must be
// exactly SecretSize long.
func SecretFromBytes(raw []byte) (Secret, error) {
	var s Secret
	if len(raw) != SecretSize {
		return s, errors.Wrapf(errors.ErrInput, "secret must be %d bytes, got %d", SecretSize, len(raw))
	}
	copy(s[:], raw)
	return s, nil
}

// ParseSecret decodes a hex representation of a secret.
func ParseSecret(s string) (Secret, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Secret{}, errors.Wrap(errors.ErrInput, "secret is not hex")
	}
	return SecretFromBytes(raw)
}

// RandomSecret reads a fresh secret from given source of randomness.
func RandomSecret(r io.Reader) (Secret, error) {
	var s Secret
	if _, err := io.ReadFull(r, s[:]); err != nil {
		return s, errors.Wrapf(errors.ErrInternal, "read random secret: %s", err)
	}
	return s, nil
}

// Words returns the four big-endian words of the secret.
func (s Secret) Words() [MaxSecretWords]uint64 {
	var w [MaxSecretWords]uint64
	for i := range w {
		w[i] = binary.BigEndian.Uint64(s[i*8:])
	}
	return w
}

// IsZero returns true for the zero secret.
func (s Secret) IsZero() bool {
	return s == Secret{}
}

// Bytes returns a copy of the secret content.
func (s Secret) Bytes() []byte {
	b := make([]byte, SecretSize)
	copy(b, s[:])
	return b
}

func (s Secret) String() string {
	return hex.EncodeToString(s[:])
}

// MarshalJSON encodes the secret as hex.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a hex encoded secret.
func (s *Secret) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot decode json")
	}
	v, err := ParseSecret(enc)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Hashlock is the commitment of a secret.
type Hashlock [32]byte

// HashlockFromBytes returns a hashlock using given bytes.
func HashlockFromBytes(raw []byte) (Hashlock, error) {
	var h Hashlock
	if len(raw) != len(h) {
		return h, errors.Wrapf(errors.ErrInput, "hashlock must be %d bytes, got %d", len(h), len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

// ParseHashlock decodes a hex representation of a hashlock.
func ParseHashlock(s string) (Hashlock, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Hashlock{}, errors.Wrap(errors.ErrInput, "hashlock is not hex")
	}
	return HashlockFromBytes(raw)
}

// IsZero returns true if the hashlock was never set.
func (h Hashlock) IsZero() bool {
	return h == Hashlock{}
}

// Bytes returns a copy of the hashlock content.
func (h Hashlock) Bytes() []byte {
	b := make([]byte, len(h))
	copy(b, h[:])
	return b
}

func (h Hashlock) String() string {
	return hex.EncodeToString(h[:])
}

// MarshalJSON encodes the hashlock as hex.
func (h Hashlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex encoded hashlock.
func (h *Hashlock) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot decode json")
	}
	v, err := ParseHashlock(enc)
	if err != nil {
		return err
	}
	*h = v
	return nil
}
