package cash

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/store"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenesis(t *testing.T) {
	Convey("Test genesis initialization", t, func() {
		db := store.MemStore()
		ctrl := NewController()
		var init Initializer

		Convey("works with no input", func() {
			err := init.FromGenesis(htlc.Options{}, db)
			So(err, ShouldBeNil)
		})

		Convey("rejects a malformed account list", func() {
			opts := htlc.Options{"cash": json.RawMessage(`{"address": 5}`)}
			err := init.FromGenesis(opts, db)
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})

		Convey("issues coins to every account", func() {
			raw := `[
				{"address": "C30A2424104F542576EF01FECA2FF558F5EAA61A", "coins": ["50 MINA", "1.5 ETH"]},
				{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "coins": [{"whole": 7, "ticker": "MINA"}]}
			]`
			opts := htlc.Options{"cash": json.RawMessage(raw)}
			So(init.FromGenesis(opts, db), ShouldBeNil)

			addr, err := htlc.ParseAddress("C30A2424104F542576EF01FECA2FF558F5EAA61A")
			So(err, ShouldBeNil)
			balance, err := ctrl.Balance(db, addr)
			So(err, ShouldBeNil)
			So(balance, ShouldResemble, coin.Coins{
				coin.NewCoin(1, 500000000, "ETH"),
				coin.NewCoin(50, 0, "MINA"),
			})

			addr, err = htlc.ParseAddress("E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0")
			So(err, ShouldBeNil)
			balance, err = ctrl.Balance(db, addr)
			So(err, ShouldBeNil)
			So(balance, ShouldResemble, coin.Coins{coin.NewCoin(7, 0, "MINA")})
		})

		Convey("rejects a zero allocation", func() {
			raw := `[{"address": "C30A2424104F542576EF01FECA2FF558F5EAA61A", "coins": ["0 MINA"]}]`
			err := init.FromGenesis(htlc.Options{"cash": json.RawMessage(raw)}, db)
			So(errors.ErrAmount.Is(err), ShouldBeTrue)
		})
	})
}
