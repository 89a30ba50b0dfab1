package cash

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
)

// Controller is the functionality needed by cash.Handler and the escrow
// native backend. Extract it into an interface, so we can swap in another
// implementation with the same semantics.
type Controller interface {
	Balance(htlc.ReadOnlyKVStore, htlc.Address) (coin.Coins, error)
	MoveCoins(db htlc.KVStore, src, dest htlc.Address, amount coin.Coin) error
	IssueCoins(db htlc.KVStore, dest htlc.Address, amount coin.Coin) error
}

// BaseController is a simple implementation of Controller
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default wallet bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the coins held by given address.
func (c BaseController) Balance(db htlc.ReadOnlyKVStore, addr htlc.Address) (coin.Coins, error) {
	w, err := c.bucket.GetOrEmpty(db, addr)
	if err != nil {
		return nil, err
	}
	return w.Coins, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db htlc.KVStore, src, dest htlc.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer %s", amount)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}

	sender, err := c.bucket.GetOrEmpty(db, src)
	if err != nil {
		return err
	}
	if sender.Coins.IsEmpty() {
		return errors.Wrapf(errors.ErrInsufficientFunds, "empty account %s", src)
	}
	if !sender.Coins.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%s holds %s, needs %s",
			src, sender.Coins.Balance(amount.Ticker), amount)
	}
	if sender.Coins, err = sender.Coins.Subtract(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}

	// Load the recipient after the sender was saved, so that a transfer to
	// self is a noop.
	recipient, err := c.bucket.GetOrEmpty(db, dest)
	if err != nil {
		return err
	}
	if recipient.Coins, err = recipient.Coins.Add(amount); err != nil {
		return err
	}
	return errors.Wrap(c.bucket.Save(db, dest, recipient), "save recipient")
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c BaseController) IssueCoins(db htlc.KVStore, dest htlc.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	w, err := c.bucket.GetOrEmpty(db, dest)
	if err != nil {
		return err
	}
	if w.Coins, err = w.Coins.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, w)
}
