package htlctest

import (
	"crypto/rand"
	"sync/atomic"
	"testing"

	"github.com/iov-one/htlc"
)

var counter uint64

// NewCondition returns a unique condition on every call. Useful to build
// test participants.
func NewCondition() htlc.Condition {
	n := atomic.AddUint64(&counter, 1)
	return htlc.NewCondition("test", "seq", sequenceBytes(n))
}

// RandomAddr returns an address of a random condition.
func RandomAddr(t testing.TB) htlc.Address {
	t.Helper()
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot read random data: %s", err)
	}
	return htlc.NewCondition("test", "rand", raw).Address()
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) htlc.Address {
	t.Helper()

	addr, err := htlc.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

func sequenceBytes(n uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}
