package sigs

import "github.com/iov-one/htlc/errors"

// ErrInvalidSequence is returned when a signature does not carry the
// current sequence of its key.
var ErrInvalidSequence = errors.Register(1200, "invalid sequence number")
