package token

import (
	"context"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type router map[string]htlc.Handler

func (r router) Handle(path string, h htlc.Handler) { r[path] = h }

func TestHandlers(t *testing.T) {
	issuerCond := htlctest.NewCondition()
	holderCond := htlctest.NewCondition()
	issuer := issuerCond.Address()
	holder := holderCond.Address()

	auth := &htlctest.CtxAuth{Key: "auth"}
	r := make(router)
	RegisterRoutes(r, auth, NewLedger())

	db := store.MemStore()
	deliver := func(signer htlc.Condition, msg htlc.Msg) error {
		ctx := auth.SetConditions(context.Background(), signer)
		h, ok := r[msg.Path()]
		require.True(t, ok, "no handler for %s", msg.Path())
		if _, err := h.Check(ctx, db, &htlctest.Tx{Msg: msg}); err != nil {
			return err
		}
		_, err := h.Deliver(ctx, db, &htlctest.Tx{Msg: msg})
		return err
	}

	require.NoError(t, deliver(issuerCond, &IssueMsg{Issuer: issuer, Name: "Test Token", Supply: coin.NewCoin(10, 0, "TKN")}))

	err := deliver(holderCond, &OpenAccountMsg{Owner: issuer, Ticker: "TKN"})
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %v", err)
	require.NoError(t, deliver(holderCond, &OpenAccountMsg{Owner: holder, Ticker: "TKN"}))

	err = deliver(holderCond, &TransferMsg{From: issuer, To: holder, Amount: coin.NewCoin(1, 0, "TKN")})
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %v", err)
	require.NoError(t, deliver(issuerCond, &TransferMsg{From: issuer, To: holder, Amount: coin.NewCoin(3, 0, "TKN")}))

	err = deliver(holderCond, &MintMsg{To: holder, Amount: coin.NewCoin(1, 0, "TKN")})
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %v", err)
	require.NoError(t, deliver(issuerCond, &MintMsg{To: holder, Amount: coin.NewCoin(1, 0, "TKN")}))

	require.NoError(t, deliver(holderCond, &BurnMsg{Owner: holder, Amount: coin.NewCoin(2, 0, "TKN")}))

	l := NewLedger()
	balance, err := l.Balance(db, "TKN", holder)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(2, 0, "TKN"), balance)
	supply, err := l.Supply(db, "TKN")
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(9, 0, "TKN"), supply)
	assert.NoError(t, l.CheckSupply(db, "TKN"))
}
