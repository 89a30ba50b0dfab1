package cash

import (
	"context"
	"strings"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
)

func TestSendHandler(t *testing.T) {
	perm := htlctest.NewCondition()
	owner := perm.Address()
	other := htlctest.RandomAddr(t)

	cases := map[string]struct {
		signer  htlc.Condition
		msg     htlc.Msg
		wantErr *errors.Error
	}{
		"valid send": {
			signer: perm,
			msg: &SendMsg{
				Source:      owner,
				Destination: other,
				Amount:      coin.NewCoin(4, 0, "MINA"),
				Memo:        "rent",
			},
		},
		"not signed by the owner": {
			signer: htlctest.NewCondition(),
			msg: &SendMsg{
				Source:      owner,
				Destination: other,
				Amount:      coin.NewCoin(4, 0, "MINA"),
			},
			wantErr: errors.ErrUnauthorized,
		},
		"too much": {
			signer: perm,
			msg: &SendMsg{
				Source:      owner,
				Destination: other,
				Amount:      coin.NewCoin(40, 0, "MINA"),
			},
			wantErr: errors.ErrInsufficientFunds,
		},
		"invalid message": {
			signer: perm,
			msg: &SendMsg{
				Source:      owner,
				Destination: other,
				Amount:      coin.NewCoin(1, 0, "MINA"),
				Memo:        strings.Repeat("x", maxMemoSize+1),
			},
			wantErr: errors.ErrInput,
		},
		"wrong message type": {
			signer:  perm,
			msg:     &htlctest.Msg{RoutePath: "cash/send"},
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			assert.Nil(t, ctrl.IssueCoins(db, owner, coin.NewCoin(10, 0, "MINA")))

			auth := &htlctest.Auth{Signer: tc.signer}
			h := NewSendHandler(auth, ctrl)
			tx := &htlctest.Tx{Msg: tc.msg}
			ctx := context.Background()

			_, err := h.Deliver(ctx, db, tx)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			got, err := ctrl.Balance(db, other)
			assert.Nil(t, err)
			assert.Equal(t, coin.Coins{coin.NewCoin(4, 0, "MINA")}, got)
		})
	}
}

func TestSendMsgValidate(t *testing.T) {
	addr := htlctest.RandomAddr(t)
	cases := map[string]struct {
		msg     SendMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: SendMsg{Source: addr, Destination: addr, Amount: coin.NewCoin(1, 0, "MINA")},
		},
		"missing source": {
			msg:     SendMsg{Destination: addr, Amount: coin.NewCoin(1, 0, "MINA")},
			wantErr: errors.ErrInput,
		},
		"zero amount": {
			msg:     SendMsg{Source: addr, Destination: addr, Amount: coin.NewCoin(0, 0, "MINA")},
			wantErr: errors.ErrAmount,
		},
		"bad ticker": {
			msg:     SendMsg{Source: addr, Destination: addr, Amount: coin.NewCoin(1, 0, "mina")},
			wantErr: errors.ErrCurrency,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
		})
	}
}
