package coin

import (
	"testing"

	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
)

func TestCoinsAdd(t *testing.T) {
	cs, err := CombineCoins(NewCoin(1, 0, "IOV"), NewCoin(3, 0, "ETH"), NewCoin(2, 0, "IOV"))
	assert.Nil(t, err)
	assert.Equal(t, Coins{NewCoin(3, 0, "ETH"), NewCoin(3, 0, "IOV")}, cs)

	// the original set is left untouched
	more, err := cs.Add(NewCoin(0, 1, "BTC"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(cs))
	assert.Equal(t, 3, len(more))
	assert.Equal(t, "BTC", more[0].Ticker)

	// removing a full balance drops the currency
	less, err := more.Subtract(NewCoin(3, 0, "ETH"))
	assert.Nil(t, err)
	assert.Equal(t, Coins{NewCoin(0, 1, "BTC"), NewCoin(3, 0, "IOV")}, less)
	assert.Nil(t, less.Validate())
}

func TestCoinsBalance(t *testing.T) {
	cs, err := CombineCoins(NewCoin(0, 300000000, "MINA"))
	assert.Nil(t, err)

	assert.Equal(t, NewCoin(0, 300000000, "MINA"), cs.Balance("MINA"))
	assert.Equal(t, Coin{Ticker: "ETH"}, cs.Balance("ETH"))
	assert.Equal(t, true, cs.Contains(NewCoin(0, 300000000, "MINA")))
	assert.Equal(t, false, cs.Contains(NewCoin(0, 300000001, "MINA")))
	assert.Equal(t, false, cs.Contains(NewCoin(0, 1, "ETH")))
}

func TestCoinsValidate(t *testing.T) {
	unsorted := Coins{NewCoin(1, 0, "IOV"), NewCoin(1, 0, "ETH")}
	assert.IsErr(t, errors.ErrCurrency, unsorted.Validate())

	zero := Coins{NewCoin(0, 0, "IOV")}
	assert.IsErr(t, errors.ErrAmount, zero.Validate())

	negative, err := Coins{}.Subtract(NewCoin(1, 0, "IOV"))
	assert.Nil(t, err)
	assert.Equal(t, false, negative.IsNonNegative())
}
