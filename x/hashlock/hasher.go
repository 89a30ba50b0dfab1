package hashlock

import (
	"crypto/sha256"
	"crypto/subtle"
	"sort"

	"github.com/iov-one/htlc/errors"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// Hasher computes the commitment of a secret. Implementations must be
// deterministic and produce a collision resistant 32 byte digest.
type Hasher interface {
	Name() string
	Sum(Secret) Hashlock
}

type hasherFunc struct {
	name string
	sum  func([]byte) [32]byte
}

func (h hasherFunc) Name() string { return h.name }

func (h hasherFunc) Sum(s Secret) Hashlock {
	return Hashlock(h.sum(s[:]))
}

var (
	// SHA256 is the default hasher, compatible with bitcoin style HTLCs.
	SHA256 Hasher = hasherFunc{name: "sha256", sum: sha256.Sum256}

	// Keccak256 is compatible with ethereum style HTLCs.
	Keccak256 Hasher = hasherFunc{name: "keccak256", sum: func(b []byte) [32]byte {
		var out [32]byte
		h := sha3.NewLegacyKeccak256()
		h.Write(b)
		copy(out[:], h.Sum(nil))
		return out
	}}

	// Blake3 is a fast hasher for ledgers using it natively.
	Blake3 Hasher = hasherFunc{name: "blake3", sum: blake3.Sum256}
)

var hashers = map[string]Hasher{
	SHA256.Name():    SHA256,
	Keccak256.Name(): Keccak256,
	Blake3.Name():    Blake3,
}

// HasherByName returns a registered hasher.
func HasherByName(name string) (Hasher, error) {
	h, ok := hashers[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown hasher %q", name)
	}
	return h, nil
}

// HasherNames returns the names of all registered hashers, sorted.
func HasherNames() []string {
	names := make([]string, 0, len(hashers))
	for n := range hashers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Commit returns the hashlock of given secret.
func Commit(h Hasher, s Secret) Hashlock {
	return h.Sum(s)
}

// Verify returns true if the secret is the preimage of the hashlock. The
// comparison runs in constant time.
func Verify(h Hasher, s Secret, lock Hashlock) bool {
	got := h.Sum(s)
	return subtle.ConstantTimeCompare(got[:], lock[:]) == 1
}
