package escrow

import "github.com/iov-one/htlc/errors"

// Escrow state machine errors.
var (
	ErrAlreadyLocked    = errors.Register(1000, "escrow already locked")
	ErrExpiryTooSoon    = errors.Register(1001, "expiry too soon")
	ErrZeroAmount       = errors.Register(1002, "zero amount")
	ErrNotLocked        = errors.Register(1003, "escrow not locked")
	ErrSecretMismatch   = errors.Register(1004, "secret does not match hashlock")
	ErrNotYetExpired    = errors.Register(1005, "escrow not yet expired")
	ErrTransferRejected = errors.Register(1006, "transfer rejected")
)
