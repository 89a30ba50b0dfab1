package app

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x/cash"
	"github.com/iov-one/htlc/x/escrow"
	"github.com/iov-one/htlc/x/sigs"
	"github.com/iov-one/htlc/x/token"
)

// Config selects the asset backends escrows can be deployed against. The
// native backend moves cash of NativeTicker, one token backend is
// registered for every ticker in TokenTickers.
type Config struct {
	NativeTicker string   `json:"native_ticker"`
	TokenTickers []string `json:"token_tickers"`
}

// DefaultConfig serves the native currency only.
func DefaultConfig() Config {
	return Config{NativeTicker: "MINA"}
}

func (c Config) Validate() error {
	if !coin.IsCC(c.NativeTicker) {
		return errors.Wrapf(errors.ErrCurrency, "native ticker %q", c.NativeTicker)
	}
	seen := map[string]bool{c.NativeTicker: true}
	for _, t := range c.TokenTickers {
		if !coin.IsCC(t) {
			return errors.Wrapf(errors.ErrCurrency, "token ticker %q", t)
		}
		if seen[t] {
			return errors.Wrapf(errors.ErrDuplicate, "ticker %q", t)
		}
		seen[t] = true
	}
	return nil
}

// Modules groups the extensions served by a chain.
type Modules struct {
	// NativeTicker is the currency held in cash wallets.
	NativeTicker string

	Cash   cash.BaseController
	Ledger *token.Ledger
	Escrow *escrow.Machine
}

// NewModules wires the cash and token ledgers into the escrow backends
// declared by the configuration.
func NewModules(conf Config) Modules {
	ctrl := cash.NewController()
	ledger := token.NewLedger()
	backends := escrow.NewBackends(escrow.NewNativeBalance(ctrl, conf.NativeTicker))
	for _, t := range conf.TokenTickers {
		backends.Register(escrow.NewLedgerToken(ledger, t))
	}
	return Modules{
		NativeTicker: conf.NativeTicker,

		Cash:   ctrl,
		Ledger: ledger,
		Escrow: escrow.NewMachine(backends),
	}
}

// Router returns a router with all message handlers registered.
func (m Modules) Router(auth htlc.Authenticator) *Router {
	r := NewRouter()
	cash.RegisterRoutes(r, auth, m.Cash)
	token.RegisterRoutes(r, auth, m.Ledger)
	escrow.RegisterRoutes(r, auth, m.Escrow)
	return r
}

// Stack returns the complete transaction handler. Signatures are verified
// before routing, and every message runs in its own savepoint.
func (m Modules) Stack() htlc.Handler {
	return ChainDecorators(
		NewLogging(),
		NewRecovery(),
		sigs.NewDecorator(),
		NewSavepoint().OnCheck().OnDeliver(),
	).WithHandler(m.Router(sigs.Authenticate{}))
}

// Initializer loads the genesis state of all extensions.
func (m Modules) Initializer() htlc.Initializer {
	return htlc.ChainInitializers(
		cash.Initializer{},
		token.Initializer{},
		&escrow.Initializer{Machine: m.Escrow},
	)
}
