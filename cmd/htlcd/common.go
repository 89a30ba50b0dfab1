package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/app"
	"github.com/iov-one/htlc/crypto"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/store/iavl"
	"github.com/iov-one/htlc/x/sigs"
)

const (
	configFile = "config.json"
	dataDir    = "data"
	storeName  = "state"
)

// env returns the value of an environment variable if provided (even if
// empty) or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func flHomeDefault() string {
	return env("HTLCD_HOME", filepath.Join(os.Getenv("HOME"), ".htlcd"))
}

func flKeyDefault() string {
	return env("HTLCD_PRIV_KEY", filepath.Join(os.Getenv("HOME"), ".htlcd.priv.key"))
}

// newLogger writes to stderr. The level is selected by the HTLCD_LOG
// environment variable and defaults to errors only.
func newLogger() (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	lvl, err := log.AllowLevel(env("HTLCD_LOG", "error"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, lvl).With("module", "htlcd"), nil
}

// withChain opens the chain stored in the home directory and calls fn. The
// store is closed when fn returns.
func withChain(home string, fn func(*app.Chain) error) error {
	raw, err := ioutil.ReadFile(filepath.Join(home, configFile))
	if err != nil {
		return fmt.Errorf("cannot read configuration, was the home initialized? %s", err)
	}
	var conf app.Config
	if err := json.Unmarshal(raw, &conf); err != nil {
		return fmt.Errorf("cannot parse configuration: %s", err)
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	db, err := iavl.NewCommitStore(filepath.Join(home, dataDir), storeName)
	if err != nil {
		return err
	}
	defer db.Close()

	ch, err := app.NewChain(db, conf, app.WithLogger(logger))
	if err != nil {
		return err
	}
	return fn(ch)
}

// readKey loads a raw ed25519 private key file.
func readKey(path string) (crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}
	return crypto.PrivateKey(raw), nil
}

// submit signs the message with the key, delivers it and commits a new
// block.
func submit(ch *app.Chain, key crypto.PrivateKey, msg htlc.Msg) (*htlc.DeliverResult, error) {
	var seq int64
	err := ch.View(func(db htlc.ReadOnlyKVStore) error {
		var err error
		seq, err = sigs.NextSequence(db, key.PublicKey())
		return err
	})
	if err != nil {
		return nil, err
	}

	tx := app.NewTx(msg)
	if err := tx.Sign(key, ch.ChainID(), seq); err != nil {
		return nil, err
	}
	res, err := ch.Deliver(tx)
	if err != nil {
		return nil, err
	}
	if _, err := ch.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
