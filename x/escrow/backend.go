package escrow

import (
	"sort"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x/cash"
	"github.com/iov-one/htlc/x/token"
)

// Backend moves value in and out of an escrow account. The escrow state
// machine never touches balances directly.
type Backend interface {
	// Name is the identifier an escrow is bound to at deployment.
	Name() string
	// Ticker is the currency this backend moves.
	Ticker() string
	// DepositInto moves amount from source to the escrow account.
	DepositInto(db htlc.KVStore, escrow, source htlc.Address, amount coin.Coin) error
	// WithdrawFrom moves the whole escrow balance to destination and
	// returns the moved value.
	WithdrawFrom(db htlc.KVStore, escrow, destination htlc.Address) (coin.Coin, error)
	// Balance returns the value held by the escrow account.
	Balance(db htlc.ReadOnlyKVStore, escrow htlc.Address) (coin.Coin, error)
}

// NativeBalance keeps escrowed funds in a cash wallet owned by the escrow.
type NativeBalance struct {
	ticker string
	cash   cash.Controller
}

var _ Backend = (*NativeBalance)(nil)

// NativeBackendName is the name of the native balance backend.
const NativeBackendName = "native"

// NewNativeBalance returns a backend moving coins of given ticker using the
// cash controller.
func NewNativeBalance(ctrl cash.Controller, ticker string) *NativeBalance {
	return &NativeBalance{ticker: ticker, cash: ctrl}
}

func (n *NativeBalance) Name() string   { return NativeBackendName }
func (n *NativeBalance) Ticker() string { return n.ticker }

func (n *NativeBalance) DepositInto(db htlc.KVStore, escrow, source htlc.Address, amount coin.Coin) error {
	if err := n.cash.MoveCoins(db, source, escrow, amount); err != nil {
		return errors.Wrap(err, "deposit")
	}
	return nil
}

func (n *NativeBalance) WithdrawFrom(db htlc.KVStore, escrow, destination htlc.Address) (coin.Coin, error) {
	available, err := n.Balance(db, escrow)
	if err != nil {
		return coin.Coin{}, err
	}
	if !available.IsPositive() {
		return coin.Coin{}, errors.Wrap(errors.ErrInsufficientFunds, "escrow wallet is empty")
	}
	if err := n.cash.MoveCoins(db, escrow, destination, available); err != nil {
		return coin.Coin{}, errors.Wrap(err, "withdraw")
	}
	return available, nil
}

func (n *NativeBalance) Balance(db htlc.ReadOnlyKVStore, escrow htlc.Address) (coin.Coin, error) {
	coins, err := n.cash.Balance(db, escrow)
	if err != nil {
		return coin.Coin{}, err
	}
	return coins.Balance(n.ticker), nil
}

// LedgerToken keeps escrowed funds in a token ledger account owned by the
// escrow. Every ledger failure is reported as ErrTransferRejected.
type LedgerToken struct {
	ticker string
	ledger *token.Ledger
}

var _ Backend = (*LedgerToken)(nil)

// TokenBackendPrefix prefixes the name of every token ledger backend.
const TokenBackendPrefix = "token:"

// NewLedgerToken returns a backend moving given token.
func NewLedgerToken(l *token.Ledger, ticker string) *LedgerToken {
	return &LedgerToken{ticker: ticker, ledger: l}
}

func (t *LedgerToken) Name() string   { return TokenBackendPrefix + t.ticker }
func (t *LedgerToken) Ticker() string { return t.ticker }

// DepositInto opens the escrow token account on first use.
func (t *LedgerToken) DepositInto(db htlc.KVStore, escrow, source htlc.Address, amount coin.Coin) error {
	ok, err := t.ledger.HasAccount(db, t.ticker, escrow)
	if err != nil {
		return rejected(err)
	}
	if !ok {
		if err := t.ledger.OpenAccount(db, t.ticker, escrow); err != nil {
			return rejected(err)
		}
	}
	if _, err := t.ledger.Transfer(db, t.ticker, source, escrow, amount); err != nil {
		return rejected(err)
	}
	return rejected(t.ledger.CheckSupply(db, t.ticker))
}

func (t *LedgerToken) WithdrawFrom(db htlc.KVStore, escrow, destination htlc.Address) (coin.Coin, error) {
	available, err := t.Balance(db, escrow)
	if err != nil {
		return coin.Coin{}, err
	}
	if !available.IsPositive() {
		return coin.Coin{}, errors.Wrap(ErrTransferRejected, "escrow token account is empty")
	}
	if _, err := t.ledger.Transfer(db, t.ticker, escrow, destination, available); err != nil {
		return coin.Coin{}, rejected(err)
	}
	if err := t.ledger.CheckSupply(db, t.ticker); err != nil {
		return coin.Coin{}, rejected(err)
	}
	return available, nil
}

func (t *LedgerToken) Balance(db htlc.ReadOnlyKVStore, escrow htlc.Address) (coin.Coin, error) {
	ok, err := t.ledger.HasAccount(db, t.ticker, escrow)
	if err != nil {
		return coin.Coin{}, rejected(err)
	}
	if !ok {
		return coin.Coin{Ticker: t.ticker}, nil
	}
	c, err := t.ledger.Balance(db, t.ticker, escrow)
	if err != nil {
		return coin.Coin{}, rejected(err)
	}
	return c, nil
}

// rejected translates a ledger failure. The original reason is kept in the
// message.
func rejected(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(ErrTransferRejected, err.Error())
}

// Backends is a registry of backends escrows can be bound to.
type Backends struct {
	byName map[string]Backend
}

// NewBackends returns a registry containing given backends.
func NewBackends(bs ...Backend) *Backends {
	r := &Backends{byName: make(map[string]Backend)}
	for _, b := range bs {
		r.Register(b)
	}
	return r
}

// Register adds a backend. Registering two backends with the same name
// panics.
func (r *Backends) Register(b Backend) {
	if _, ok := r.byName[b.Name()]; ok {
		panic("backend already registered: " + b.Name())
	}
	r.byName[b.Name()] = b
}

// Get returns the backend registered under name.
func (r *Backends) Get(name string) (Backend, error) {
	b, ok := r.byName[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown backend %q", name)
	}
	return b, nil
}

// Names returns the names of all registered backends, sorted.
func (r *Backends) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
