package cash

import (
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
)

func TestIssueAndMove(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	alice := htlctest.RandomAddr(t)
	bob := htlctest.RandomAddr(t)

	assert.Nil(t, ctrl.IssueCoins(db, alice, coin.NewCoin(10, 0, "MINA")))
	assert.Nil(t, ctrl.IssueCoins(db, alice, coin.NewCoin(0, 500, "ETH")))

	cases := map[string]struct {
		src, dest htlc.Address
		amount    coin.Coin
		wantErr   *errors.Error
	}{
		"move part of the balance": {
			src: alice, dest: bob, amount: coin.NewCoin(3, 0, "MINA"),
		},
		"zero amount": {
			src: alice, dest: bob, amount: coin.NewCoin(0, 0, "MINA"),
			wantErr: errors.ErrAmount,
		},
		"negative amount": {
			src: alice, dest: bob, amount: coin.NewCoin(-1, 0, "MINA"),
			wantErr: errors.ErrAmount,
		},
		"not enough coins": {
			src: alice, dest: bob, amount: coin.NewCoin(1, 0, "ETH"),
			wantErr: errors.ErrInsufficientFunds,
		},
		"unknown currency": {
			src: alice, dest: bob, amount: coin.NewCoin(1, 0, "BTC"),
			wantErr: errors.ErrInsufficientFunds,
		},
		"empty wallet": {
			src: htlctest.RandomAddr(t), dest: bob, amount: coin.NewCoin(1, 0, "MINA"),
			wantErr: errors.ErrInsufficientFunds,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			cache := db.CacheWrap()
			defer cache.Discard()
			err := ctrl.MoveCoins(cache, tc.src, tc.dest, tc.amount)
			assert.IsErr(t, tc.wantErr, err)
		})
	}

	assert.Nil(t, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(3, 0, "MINA")))

	got, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	want, err := coin.CombineCoins(coin.NewCoin(7, 0, "MINA"), coin.NewCoin(0, 500, "ETH"))
	assert.Nil(t, err)
	assert.Equal(t, want, got)

	got, err = ctrl.Balance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoin(3, 0, "MINA")}, got)
}

func TestMoveAllRemovesWallet(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	bucket := NewBucket()

	alice := htlctest.RandomAddr(t)
	bob := htlctest.RandomAddr(t)
	amount := coin.NewCoin(2, 1, "MINA")

	assert.Nil(t, ctrl.IssueCoins(db, alice, amount))
	assert.Nil(t, ctrl.MoveCoins(db, alice, bob, amount))

	if err := bucket.Has(db, alice); !errors.ErrNotFound.Is(err) {
		t.Fatalf("drained wallet must be removed, got %v", err)
	}
	balance, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	if !balance.IsEmpty() {
		t.Fatalf("want empty balance, got %v", balance)
	}
}

func TestMoveToSelf(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	alice := htlctest.RandomAddr(t)
	amount := coin.NewCoin(5, 0, "MINA")
	assert.Nil(t, ctrl.IssueCoins(db, alice, amount))
	assert.Nil(t, ctrl.MoveCoins(db, alice, alice, coin.NewCoin(5, 0, "MINA")))

	got, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{amount}, got)
}

func TestIssueNegativeBelowZero(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	alice := htlctest.RandomAddr(t)
	assert.Nil(t, ctrl.IssueCoins(db, alice, coin.NewCoin(1, 0, "MINA")))
	err := ctrl.IssueCoins(db, alice, coin.NewCoin(-2, 0, "MINA"))
	assert.IsErr(t, errors.ErrInsufficientFunds, err)
}
