package app

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/iov-one/htlc/errors"
)

func TestLoadGenesis(t *testing.T) {
	Convey("Given a genesis directory", t, func() {
		dir, err := ioutil.TempDir("", "htlc-genesis")
		So(err, ShouldBeNil)
		Reset(func() { os.RemoveAll(dir) })

		write := func(content string) string {
			path := filepath.Join(dir, "genesis.json")
			So(ioutil.WriteFile(path, []byte(content), 0600), ShouldBeNil)
			return path
		}

		Convey("A complete file is loaded", func() {
			gen, err := LoadGenesis(write(`{"chain_id": "test-chain-1", "app_state": {"cash": []}}`))
			So(err, ShouldBeNil)
			So(gen.ChainID, ShouldEqual, "test-chain-1")
			So(gen.Validate(), ShouldBeNil)
		})

		Convey("A missing app state fails validation", func() {
			gen, err := LoadGenesis(write(`{"chain_id": "test-chain-1"}`))
			So(err, ShouldBeNil)
			So(errors.ErrEmpty.Is(gen.Validate()), ShouldBeTrue)
		})

		Convey("An invalid chain id fails validation", func() {
			gen, err := LoadGenesis(write(`{"chain_id": "x", "app_state": {"cash": []}}`))
			So(err, ShouldBeNil)
			So(errors.ErrInput.Is(gen.Validate()), ShouldBeTrue)
		})

		Convey("Malformed content is rejected", func() {
			_, err := LoadGenesis(write(`{"chain_id": `))
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})

		Convey("A missing file is rejected", func() {
			_, err := LoadGenesis(filepath.Join(dir, "nope.json"))
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})
	})
}
