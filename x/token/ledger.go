package token

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
)

// Receipt confirms an applied transfer.
type Receipt struct {
	From        htlc.Address
	To          htlc.Address
	Amount      coin.Coin
	FromBalance coin.Coin
	ToBalance   coin.Coin
}

// Ledger keeps token definitions and balances. It does not authorize
// callers; handlers must do that before calling it.
type Ledger struct {
	infos    InfoBucket
	accounts AccountBucket
}

// NewLedger returns a ledger using the default buckets.
func NewLedger() *Ledger {
	return &Ledger{
		infos:    NewInfoBucket(),
		accounts: NewAccountBucket(),
	}
}

// Issue creates a new token and credits the whole initial supply to the
// issuer account, which is opened as part of the issuance.
func (l *Ledger) Issue(db htlc.KVStore, name string, issuer htlc.Address, supply coin.Coin) error {
	if err := supply.Validate(); err != nil {
		return errors.Wrap(err, "supply")
	}
	if !supply.IsNonNegative() {
		return errors.Wrapf(errors.ErrAmount, "negative supply %s", supply)
	}
	switch err := l.infos.Has(db, []byte(supply.Ticker)); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "token %s", supply.Ticker)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	info := Info{Name: name, Issuer: issuer, Supply: supply}
	if _, err := l.infos.Put(db, []byte(supply.Ticker), &info); err != nil {
		return err
	}
	acc := Account{Owner: issuer, Balance: supply}
	_, err := l.accounts.Put(db, accountKey(supply.Ticker, issuer), &acc)
	return err
}

// Info returns the definition of a token.
func (l *Ledger) Info(db htlc.ReadOnlyKVStore, ticker string) (*Info, error) {
	var info Info
	switch err := l.infos.One(db, []byte(ticker), &info); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(ErrUnknownToken, ticker)
	case errors.ErrEmpty.Is(err):
		return nil, errors.Wrap(ErrUnknownToken, "empty ticker")
	case err != nil:
		return nil, err
	}
	return &info, nil
}

// OpenAccount creates an empty account for owner. Opening an account twice
// fails with ErrDuplicate.
func (l *Ledger) OpenAccount(db htlc.KVStore, ticker string, owner htlc.Address) error {
	if _, err := l.Info(db, ticker); err != nil {
		return err
	}
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	key := accountKey(ticker, owner)
	switch err := l.accounts.Has(db, key); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "%s account of %s", ticker, owner)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	acc := Account{Owner: owner, Balance: coin.Coin{Ticker: ticker}}
	_, err := l.accounts.Put(db, key, &acc)
	return err
}

// HasAccount returns true if owner has an open account of given token.
func (l *Ledger) HasAccount(db htlc.ReadOnlyKVStore, ticker string, owner htlc.Address) (bool, error) {
	switch err := l.accounts.Has(db, accountKey(ticker, owner)); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

func (l *Ledger) account(db htlc.ReadOnlyKVStore, ticker string, owner htlc.Address) (*Account, error) {
	var acc Account
	switch err := l.accounts.One(db, accountKey(ticker, owner), &acc); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrNoAccount, "%s account of %s", ticker, owner)
	case err != nil:
		return nil, err
	}
	return &acc, nil
}

// Balance returns the token balance of owner.
func (l *Ledger) Balance(db htlc.ReadOnlyKVStore, ticker string, owner htlc.Address) (coin.Coin, error) {
	if _, err := l.Info(db, ticker); err != nil {
		return coin.Coin{}, err
	}
	acc, err := l.account(db, ticker, owner)
	if err != nil {
		return coin.Coin{}, err
	}
	return acc.Balance, nil
}

// Supply returns the total amount of given token in circulation.
func (l *Ledger) Supply(db htlc.ReadOnlyKVStore, ticker string) (coin.Coin, error) {
	info, err := l.Info(db, ticker)
	if err != nil {
		return coin.Coin{}, err
	}
	return info.Supply, nil
}

// Transfer moves amount of the token from one account to another. Both
// accounts must be open.
func (l *Ledger) Transfer(db htlc.KVStore, ticker string, from, to htlc.Address, amount coin.Coin) (*Receipt, error) {
	if err := l.checkAmount(db, ticker, amount); err != nil {
		return nil, err
	}
	src, err := l.account(db, ticker, from)
	if err != nil {
		return nil, err
	}
	dst, err := l.account(db, ticker, to)
	if err != nil {
		return nil, err
	}
	if !src.Balance.IsGTE(amount) {
		return nil, errors.Wrapf(errors.ErrInsufficientFunds, "%s holds %s, needs %s", from, src.Balance, amount)
	}

	if src.Balance, err = src.Balance.Subtract(amount); err != nil {
		return nil, err
	}
	if _, err := l.accounts.Put(db, accountKey(ticker, from), src); err != nil {
		return nil, errors.Wrap(err, "save sender")
	}
	// Reload so that a transfer to self observes the debit.
	if dst, err = l.account(db, ticker, to); err != nil {
		return nil, err
	}
	if dst.Balance, err = dst.Balance.Add(amount); err != nil {
		return nil, err
	}
	if _, err := l.accounts.Put(db, accountKey(ticker, to), dst); err != nil {
		return nil, errors.Wrap(err, "save recipient")
	}

	fromBalance, err := l.Balance(db, ticker, from)
	if err != nil {
		return nil, err
	}
	return &Receipt{
		From:        from,
		To:          to,
		Amount:      amount,
		FromBalance: fromBalance,
		ToBalance:   dst.Balance,
	}, nil
}

// Mint creates new tokens on the account of to and increases the supply.
func (l *Ledger) Mint(db htlc.KVStore, ticker string, to htlc.Address, amount coin.Coin) error {
	if err := l.checkAmount(db, ticker, amount); err != nil {
		return err
	}
	return l.adjust(db, ticker, to, amount)
}

// Burn destroys tokens held by from and decreases the supply.
func (l *Ledger) Burn(db htlc.KVStore, ticker string, from htlc.Address, amount coin.Coin) error {
	if err := l.checkAmount(db, ticker, amount); err != nil {
		return err
	}
	return l.adjust(db, ticker, from, amount.Negative())
}

// adjust changes both the account balance and the supply by delta, keeping
// the supply invariant.
func (l *Ledger) adjust(db htlc.KVStore, ticker string, owner htlc.Address, delta coin.Coin) error {
	info, err := l.Info(db, ticker)
	if err != nil {
		return err
	}
	acc, err := l.account(db, ticker, owner)
	if err != nil {
		return err
	}
	if acc.Balance, err = acc.Balance.Add(delta); err != nil {
		return err
	}
	if !acc.Balance.IsNonNegative() {
		return errors.Wrapf(errors.ErrInsufficientFunds, "cannot burn %s", delta.Negative())
	}
	if info.Supply, err = info.Supply.Add(delta); err != nil {
		return errors.Wrap(err, "supply")
	}
	if _, err := l.accounts.Put(db, accountKey(ticker, owner), acc); err != nil {
		return err
	}
	_, err = l.infos.Put(db, []byte(ticker), info)
	return err
}

func (l *Ledger) checkAmount(db htlc.ReadOnlyKVStore, ticker string, amount coin.Coin) error {
	if _, err := l.Info(db, ticker); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if amount.Ticker != ticker {
		return errors.Wrapf(errors.ErrCurrency, "want %s, got %s", ticker, amount.Ticker)
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", amount)
	}
	return nil
}

// CheckSupply sums all account balances of a token and compares the result
// with the recorded supply.
func (l *Ledger) CheckSupply(db htlc.ReadOnlyKVStore, ticker string) error {
	info, err := l.Info(db, ticker)
	if err != nil {
		return err
	}
	keys, err := l.accounts.ByIndex(db, "ticker", []byte(ticker))
	if err != nil {
		return err
	}
	total := coin.Coin{Ticker: ticker}
	for _, key := range keys {
		var acc Account
		if err := l.accounts.One(db, key, &acc); err != nil {
			return errors.Wrapf(err, "account %X", key)
		}
		if total, err = total.Add(acc.Balance); err != nil {
			return err
		}
	}
	if !total.Equals(info.Supply) {
		return errors.Wrapf(ErrSupplyInvariant, "accounts hold %s, supply is %s", total, info.Supply)
	}
	return nil
}
