package token

import (
	"regexp"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
)

var isTokenName = regexp.MustCompile(`^[A-Za-z0-9 \-_:]{3,32}$`).MatchString

// Info describes an issued token. It is stored under its ticker.
type Info struct {
	Name   string       `json:"name"`
	Issuer htlc.Address `json:"issuer"`
	Supply coin.Coin    `json:"supply"`
}

var _ orm.Model = (*Info)(nil)

func (t *Info) Validate() error {
	if !isTokenName(t.Name) {
		return errors.Wrapf(errors.ErrModel, "invalid token name %q", t.Name)
	}
	if err := t.Issuer.Validate(); err != nil {
		return errors.Wrap(err, "issuer")
	}
	if err := t.Supply.Validate(); err != nil {
		return errors.Wrap(err, "supply")
	}
	if !t.Supply.IsNonNegative() {
		return errors.Wrap(ErrSupplyInvariant, "negative supply")
	}
	return nil
}

// Account holds the balance of a single token owned by an address.
type Account struct {
	Owner   htlc.Address `json:"owner"`
	Balance coin.Coin    `json:"balance"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := a.Balance.Validate(); err != nil {
		return errors.Wrap(err, "balance")
	}
	if !a.Balance.IsNonNegative() {
		return errors.Wrap(errors.ErrInsufficientFunds, "negative balance")
	}
	return nil
}

// InfoBucket stores Info instances, using the ticker as the key.
type InfoBucket struct {
	*orm.ModelBucket
}

func NewInfoBucket() InfoBucket {
	return InfoBucket{
		ModelBucket: orm.NewModelBucket("token", func() orm.Model { return &Info{} }),
	}
}

// AccountBucket stores token accounts under <ticker>/<owner> keys. Accounts
// are indexed by ticker so that all holders of a token can be listed.
type AccountBucket struct {
	*orm.ModelBucket
}

func NewAccountBucket() AccountBucket {
	return AccountBucket{
		ModelBucket: orm.NewModelBucket("token_account",
			func() orm.Model { return &Account{} },
			orm.WithIndex("ticker", accountTicker, false)),
	}
}

func accountTicker(m orm.Model) ([]byte, error) {
	a, ok := m.(*Account)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, m)
	}
	return []byte(a.Balance.Ticker), nil
}

func accountKey(ticker string, owner htlc.Address) []byte {
	key := make([]byte, 0, len(ticker)+1+len(owner))
	key = append(key, ticker...)
	key = append(key, '/')
	return append(key, owner...)
}
