package token

import "github.com/iov-one/htlc/errors"

// Token ledger errors.
var (
	ErrUnknownToken    = errors.Register(1100, "unknown token")
	ErrNoAccount       = errors.Register(1101, "no token account")
	ErrSupplyInvariant = errors.Register(1102, "supply invariant violated")
)
