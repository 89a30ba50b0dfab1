package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/app"
	"github.com/iov-one/htlc/coin"
)

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the balance of an address. Without a ticker the whole cash wallet is
printed. The native currency is read from cash wallets, any other ticker
from the token ledger.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", flHomeDefault(), "Directory holding the chain state.")
		addressFl = flAddress(fl, "address", "", "Address to check. The -key address is used when empty.")
		keyPathFl = fl.String("key", flKeyDefault(), "Path to the private key file.")
		tickerFl  = fl.String("ticker", "", "Optional ticker of the asset.")
	)
	fl.Parse(args)

	addr := *addressFl
	if len(addr) == 0 {
		key, err := readKey(*keyPathFl)
		if err != nil {
			return err
		}
		addr = key.PublicKey().Address()
	}

	return withChain(*homeFl, func(ch *app.Chain) error {
		mods := ch.Modules()
		var (
			wallet coin.Coins
			c      coin.Coin
		)
		err := ch.View(func(db htlc.ReadOnlyKVStore) error {
			var err error
			switch ticker := *tickerFl; ticker {
			case "":
				wallet, err = mods.Cash.Balance(db, addr)
			case mods.NativeTicker:
				wallet, err = mods.Cash.Balance(db, addr)
				c = wallet.Balance(ticker)
			default:
				c, err = mods.Ledger.Balance(db, ticker, addr)
			}
			return err
		})
		if err != nil {
			return err
		}
		if *tickerFl == "" {
			return writeJSON(output, wallet)
		}
		_, err = fmt.Fprintln(output, c.String())
		return err
	})
}
