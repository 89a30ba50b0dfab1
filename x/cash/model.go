package cash

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the coins of a single address.
type Wallet struct {
	Coins coin.Coins `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate requires that all coins are in alphabetical order and positive.
func (w *Wallet) Validate() error {
	if err := w.Coins.Validate(); err != nil {
		return err
	}
	if !w.Coins.IsNonNegative() {
		return errors.Wrap(errors.ErrInsufficientFunds, "negative balance")
	}
	return nil
}

// Bucket is a type-safe wrapper around orm.ModelBucket
type Bucket struct {
	*orm.ModelBucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, func() orm.Model { return &Wallet{} }),
	}
}

// GetOrEmpty returns the wallet of given address. A missing wallet is
// returned as an empty one.
func (b Bucket) GetOrEmpty(db htlc.ReadOnlyKVStore, addr htlc.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	case err != nil:
		return nil, err
	}
	return &w, nil
}

// Save stores the wallet. Empty wallets are removed from the store.
func (b Bucket) Save(db htlc.KVStore, addr htlc.Address, w *Wallet) error {
	if w.Coins.IsEmpty() {
		if err := b.Has(db, addr); err != nil {
			if errors.ErrNotFound.Is(err) {
				return nil
			}
			return err
		}
		return b.Delete(db, addr)
	}
	_, err := b.Put(db, addr, w)
	return err
}
