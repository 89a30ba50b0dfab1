package token

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
)

func init() {
	htlc.RegisterMsg(&IssueMsg{}, "token/issue")
	htlc.RegisterMsg(&OpenAccountMsg{}, "token/open_account")
	htlc.RegisterMsg(&TransferMsg{}, "token/transfer")
	htlc.RegisterMsg(&MintMsg{}, "token/mint")
	htlc.RegisterMsg(&BurnMsg{}, "token/burn")
}

// IssueMsg creates a new token with the whole supply credited to the
// issuer.
type IssueMsg struct {
	Issuer htlc.Address `json:"issuer"`
	Name   string       `json:"name"`
	Supply coin.Coin    `json:"supply"`
}

func (IssueMsg) Path() string { return "token/issue" }

func (m *IssueMsg) Validate() error {
	if err := m.Issuer.Validate(); err != nil {
		return errors.Wrap(err, "issuer")
	}
	if !isTokenName(m.Name) {
		return errors.Wrapf(errors.ErrInput, "invalid token name %q", m.Name)
	}
	if err := m.Supply.Validate(); err != nil {
		return errors.Wrap(err, "supply")
	}
	if !m.Supply.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative supply")
	}
	return nil
}

// OpenAccountMsg opens an empty account of a token.
type OpenAccountMsg struct {
	Owner  htlc.Address `json:"owner"`
	Ticker string       `json:"ticker"`
}

func (OpenAccountMsg) Path() string { return "token/open_account" }

func (m *OpenAccountMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if !coin.IsCC(m.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", m.Ticker)
	}
	return nil
}

// TransferMsg moves tokens between two open accounts.
type TransferMsg struct {
	From   htlc.Address `json:"from"`
	To     htlc.Address `json:"to"`
	Amount coin.Coin    `json:"amount"`
}

func (TransferMsg) Path() string { return "token/transfer" }

func (m *TransferMsg) Validate() error {
	if err := m.From.Validate(); err != nil {
		return errors.Wrap(err, "from")
	}
	if err := m.To.Validate(); err != nil {
		return errors.Wrap(err, "to")
	}
	return validPositive(m.Amount)
}

// MintMsg issues new tokens. Only the token issuer can mint.
type MintMsg struct {
	To     htlc.Address `json:"to"`
	Amount coin.Coin    `json:"amount"`
}

func (MintMsg) Path() string { return "token/mint" }

func (m *MintMsg) Validate() error {
	if err := m.To.Validate(); err != nil {
		return errors.Wrap(err, "to")
	}
	return validPositive(m.Amount)
}

// BurnMsg destroys tokens held by the owner.
type BurnMsg struct {
	Owner  htlc.Address `json:"owner"`
	Amount coin.Coin    `json:"amount"`
}

func (BurnMsg) Path() string { return "token/burn" }

func (m *BurnMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return validPositive(m.Amount)
}

func validPositive(c coin.Coin) error {
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !c.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", c)
	}
	return nil
}
