package escrow

import (
	"fmt"
	"strconv"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
	"github.com/iov-one/htlc/x/hashlock"
)

// Escrow is the persisted state of a single escrow instance.
type Escrow struct {
	ID      []byte `json:"id"`
	State   State  `json:"state"`
	Backend string `json:"backend"`
	Hasher  string `json:"hasher"`
	// Address is the account holding the locked funds.
	Address htlc.Address `json:"address"`

	RefundTo  htlc.Address      `json:"refund_to,omitempty"`
	Recipient htlc.Address      `json:"recipient,omitempty"`
	Hashlock  hashlock.Hashlock `json:"hashlock"`
	Expiry    htlc.UnixTime     `json:"expiry,omitempty"`
	Amount    coin.Coin         `json:"amount"`
	LockedAt  htlc.UnixTime     `json:"locked_at,omitempty"`

	// Secret is set only by a successful unlock.
	Secret   []byte        `json:"secret,omitempty"`
	ClosedAt htlc.UnixTime `json:"closed_at,omitempty"`
	// Payout is the value moved out of the escrow by the closing
	// transition.
	Payout coin.Coin `json:"payout"`
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures that the fields required by the current state are set.
func (e *Escrow) Validate() error {
	if len(e.ID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "id")
	}
	if err := e.State.Validate(); err != nil {
		return err
	}
	if e.Backend == "" {
		return errors.Wrap(errors.ErrEmpty, "backend")
	}
	if _, err := hashlock.HasherByName(e.Hasher); err != nil {
		return errors.Wrap(err, "hasher")
	}
	if err := e.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if e.State == StateNew {
		return nil
	}

	if err := e.RefundTo.Validate(); err != nil {
		return errors.Wrap(err, "refund to")
	}
	if err := e.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if e.Hashlock.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "hashlock")
	}
	if err := e.Expiry.Validate(); err != nil {
		return errors.Wrap(err, "expiry")
	}
	if err := e.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !e.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "locked amount must be positive")
	}

	switch e.State {
	case StateLocked:
		if len(e.Secret) != 0 {
			return errors.Wrap(errors.ErrState, "secret revealed before release")
		}
	case StateReleased:
		if len(e.Secret) != hashlock.SecretSize {
			return errors.Wrap(errors.ErrState, "released without a secret")
		}
	case StateRefunded:
		if len(e.Secret) != 0 {
			return errors.Wrap(errors.ErrState, "refunded with a secret")
		}
	}
	return nil
}

// RevealedSecret returns the secret disclosed by the recipient. It is only
// available after the escrow was released.
func (e *Escrow) RevealedSecret() (hashlock.Secret, bool) {
	if e.State != StateReleased {
		return hashlock.Secret{}, false
	}
	s, err := hashlock.SecretFromBytes(e.Secret)
	if err != nil {
		return hashlock.Secret{}, false
	}
	return s, true
}

// Address returns the account address owned by the escrow with given id.
func Address(id []byte) htlc.Address {
	return htlc.NewCondition("escrow", "seq", id).Address()
}

// FormatID renders an escrow id as its sequence number.
func FormatID(id []byte) string {
	n, err := orm.DecodeSequence(id)
	if err != nil {
		return fmt.Sprintf("%X", id)
	}
	return strconv.FormatUint(n, 10)
}

// ParseID is the inverse of FormatID.
func ParseID(s string) ([]byte, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return nil, errors.Wrapf(errors.ErrInput, "invalid escrow id %q", s)
	}
	return orm.EncodeSequence(n), nil
}

// Bucket is a type-safe wrapper around orm.ModelBucket.
type Bucket struct {
	*orm.ModelBucket
}

var escrowSeq = orm.NewSequence("escrow", "id")

// NewBucket returns a bucket storing escrows by ID, indexed by hashlock.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket("escrow",
			func() orm.Model { return &Escrow{} },
			orm.WithIndex("hashlock", hashlockIndexer, false)),
	}
}

// hashlockIndexer does not index escrows that are not locked yet.
func hashlockIndexer(m orm.Model) ([]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, m)
	}
	if e.Hashlock.IsZero() {
		return nil, nil
	}
	return e.Hashlock.Bytes(), nil
}
