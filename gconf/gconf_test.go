package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
)

type myConfig struct {
	Owner  htlc.Address `json:"owner"`
	Margin int64        `json:"margin"`
	Name   string       `json:"name"`
	Fee    coin.Coin    `json:"fee"`
}

func (c *myConfig) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if c.Margin < 0 {
		return errors.Wrap(errors.ErrInput, "negative margin")
	}
	return c.Fee.Validate()
}

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *myConfig
		WantSaveErr *errors.Error
	}{
		"valid": {
			Conf: &myConfig{
				Owner:  htlctest.RandomAddr(t),
				Margin: 259200,
				Name:   "escrow",
				Fee:    coin.NewCoin(0, 5, "IOV"),
			},
		},
		"invalid address cannot be saved": {
			Conf:        &myConfig{Owner: htlc.Address("too short"), Fee: coin.NewCoin(1, 0, "IOV")},
			WantSaveErr: errors.ErrInput,
		},
		"invalid coin cannot be saved": {
			Conf:        &myConfig{Owner: htlctest.RandomAddr(t)},
			WantSaveErr: errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "test", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}

			var got myConfig
			assert.Nil(t, Load(db, "test", &got))
			assert.Equal(t, *tc.Conf, got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	var got myConfig
	err := Load(store.MemStore(), "nothing", &got)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestInitConfig(t *testing.T) {
	const genesis = `
		{
			"conf": {
				"mypkg": {
					"owner": "d2a1f84143a9754057e42db6d6c9f986fe0ff673",
					"margin": 60,
					"name": "hello",
					"fee": "4 IOV"
				}
			}
		}
	`
	var opts htlc.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	assert.Nil(t, InitConfig(db, opts, "mypkg", &myConfig{}))

	var got myConfig
	assert.Nil(t, Load(db, "mypkg", &got))
	assert.Equal(t, int64(60), got.Margin)
	assert.Equal(t, "hello", got.Name)
	assert.Equal(t, coin.NewCoin(4, 0, "IOV"), got.Fee)
	assert.Equal(t, htlctest.ParseAddress(t, "d2a1f84143a9754057e42db6d6c9f986fe0ff673"), got.Owner)

	err := InitConfig(db, opts, "otherpkg", &myConfig{})
	assert.IsErr(t, errors.ErrNotFound, err)
}
