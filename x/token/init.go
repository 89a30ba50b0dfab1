package token

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
)

// GenesisToken is a token issued at genesis. Holders receive a part of the
// issuer supply.
type GenesisToken struct {
	Name    string          `json:"name"`
	Issuer  htlc.Address    `json:"issuer"`
	Supply  coin.Coin       `json:"supply"`
	Holders []GenesisHolder `json:"holders"`
}

// GenesisHolder is an account opened at genesis, funded from the issuer.
type GenesisHolder struct {
	Address htlc.Address `json:"address"`
	Amount  coin.Coin    `json:"amount"`
}

// Initializer fulfils the htlc.Initializer interface to load tokens from
// the genesis file.
type Initializer struct{}

var _ htlc.Initializer = Initializer{}

// FromGenesis issues all declared tokens.
func (Initializer) FromGenesis(opts htlc.Options, db htlc.KVStore) error {
	var tokens []GenesisToken
	if err := opts.ReadOptions("token", &tokens); err != nil {
		return err
	}
	l := NewLedger()
	for _, t := range tokens {
		if err := l.Issue(db, t.Name, t.Issuer, t.Supply); err != nil {
			return errors.Wrapf(err, "token %s", t.Supply.Ticker)
		}
		for _, h := range t.Holders {
			if err := l.OpenAccount(db, t.Supply.Ticker, h.Address); err != nil {
				return errors.Wrapf(err, "token %s holder %s", t.Supply.Ticker, h.Address)
			}
			if !h.Amount.IsZero() {
				if _, err := l.Transfer(db, t.Supply.Ticker, t.Issuer, h.Address, h.Amount); err != nil {
					return errors.Wrapf(err, "token %s holder %s", t.Supply.Ticker, h.Address)
				}
			}
		}
	}
	return nil
}
