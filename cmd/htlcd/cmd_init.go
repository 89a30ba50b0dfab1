package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/htlc/app"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize a new chain in the home directory.

The genesis file declares the chain id and the application state: cash
wallets, issued tokens, escrow deployments and the escrow configuration.
Token tickers that escrows can hold must be listed with the -tokens flag.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", flHomeDefault(),
			"Directory holding the chain state. You can use HTLCD_HOME environment variable to set it.")
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
		nativeFl  = fl.String("native", app.DefaultConfig().NativeTicker, "Ticker of the native currency.")
		tokensFl  = flList(fl, "tokens", "", "Comma separated tickers of tokens that escrows can hold.")
	)
	fl.Parse(args)

	confPath := filepath.Join(*homeFl, configFile)
	if _, err := os.Stat(confPath); !os.IsNotExist(err) {
		return fmt.Errorf("configuration %q already exists", confPath)
	}

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	conf := app.Config{NativeTicker: *nativeFl, TokenTickers: *tokensFl}
	if err := conf.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(*homeFl, dataDir), 0700); err != nil {
		return fmt.Errorf("cannot create home directory: %s", err)
	}
	raw, err := json.MarshalIndent(conf, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize configuration: %s", err)
	}
	if err := ioutil.WriteFile(confPath, raw, 0600); err != nil {
		return fmt.Errorf("cannot write configuration: %s", err)
	}

	return withChain(*homeFl, func(ch *app.Chain) error {
		id, err := ch.InitChain(gen)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(output, "%s initialized at height %d, hash %X\n", gen.ChainID, id.Version, id.Hash)
		return err
	})
}
