package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/app"
	"github.com/iov-one/htlc/x/escrow"
	"github.com/iov-one/htlc/x/hashlock"
)

// escrowView renders the escrow id in its decimal form and the secret as
// hex.
type escrowView struct {
	*escrow.Escrow
	ID     string `json:"id"`
	Secret string `json:"secret,omitempty"`
}

func viewOf(e *escrow.Escrow) escrowView {
	return escrowView{
		Escrow: e,
		ID:     escrow.FormatID(e.ID),
		Secret: hex.EncodeToString(e.Secret),
	}
}

// submitEscrowMsg delivers the message and prints the escrow it modified.
func submitEscrowMsg(output io.Writer, home, keyPath string, msg htlc.Msg) error {
	key, err := readKey(keyPath)
	if err != nil {
		return err
	}
	return withChain(home, func(ch *app.Chain) error {
		res, err := submit(ch, key, msg)
		if err != nil {
			return err
		}
		return printEscrow(output, ch, res.Data)
	})
}

func printEscrow(output io.Writer, ch *app.Chain, id []byte) error {
	var e *escrow.Escrow
	err := ch.View(func(db htlc.ReadOnlyKVStore) error {
		var err error
		e, err = ch.Modules().Escrow.Get(db, id)
		return err
	})
	if err != nil {
		return err
	}
	return writeJSON(output, viewOf(e))
}

func cmdDeploy(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Deploy a new escrow bound to an asset backend.

The backend is either "native" or "token:<ticker>". When no hasher is given
the configured default is used.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", flHomeDefault(), "Directory holding the chain state.")
		keyPathFl = fl.String("key", flKeyDefault(), "Path to the private key file that transaction should be signed with.")
		backendFl = fl.String("backend", escrow.NativeBackendName, "Asset backend of the escrow.")
		hasherFl  = fl.String("hasher", "", "Optional commitment hasher name.")
	)
	fl.Parse(args)

	msg := &escrow.DeployMsg{Backend: *backendFl, Hasher: *hasherFl}
	if err := msg.Validate(); err != nil {
		return err
	}
	return submitEscrowMsg(output, *homeFl, *keyPathFl, msg)
}

func cmdLock(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Lock funds of the signer in a deployed escrow.

Funds can be claimed by the recipient with the secret of the hashlock, or
returned to the signer once the escrow expired.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl      = fl.String("home", flHomeDefault(), "Directory holding the chain state.")
		keyPathFl   = fl.String("key", flKeyDefault(), "Path to the private key file that transaction should be signed with.")
		escrowFl    = fl.String("escrow", "", "ID of the escrow.")
		recipientFl = flAddress(fl, "recipient", "", "Address that can claim the funds.")
		amountFl    = flCoin(fl, "amount", "", "Amount to lock, for example \"0.3 MINA\".")
		hashlockFl  = fl.String("hashlock", "", "Hex encoded commitment of the secret.")
		expireInFl  = fl.Duration("expire-in", 4*htlc.Day, "Time after which the funds can be refunded.")
	)
	fl.Parse(args)

	id, err := escrow.ParseID(*escrowFl)
	if err != nil {
		return err
	}
	lock, err := hashlock.ParseHashlock(*hashlockFl)
	if err != nil {
		return err
	}
	key, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}
	msg := &escrow.LockMsg{
		EscrowID:  id,
		RefundTo:  key.PublicKey().Address(),
		Recipient: *recipientFl,
		Amount:    *amountFl,
		Hashlock:  lock,
		Expiry:    htlc.AsUnixTime(time.Now().Add(*expireInFl)),
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return submitEscrowMsg(output, *homeFl, *keyPathFl, msg)
}

func cmdUnlock(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Claim the funds of a locked escrow by revealing the secret. The transaction
must be signed by the recipient.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", flHomeDefault(), "Directory holding the chain state.")
		keyPathFl = fl.String("key", flKeyDefault(), "Path to the private key file that transaction should be signed with.")
		escrowFl  = fl.String("escrow", "", "ID of the escrow.")
		secretFl  = fl.String("secret", "", "Hex encoded secret.")
	)
	fl.Parse(args)

	id, err := escrow.ParseID(*escrowFl)
	if err != nil {
		return err
	}
	secret, err := hashlock.ParseSecret(*secretFl)
	if err != nil {
		return err
	}
	msg := &escrow.UnlockMsg{EscrowID: id, Secret: secret}
	if err := msg.Validate(); err != nil {
		return err
	}
	return submitEscrowMsg(output, *homeFl, *keyPathFl, msg)
}

func cmdRefund(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Return the funds of an expired escrow to the depositor. Any key can sign it.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", flHomeDefault(), "Directory holding the chain state.")
		keyPathFl = fl.String("key", flKeyDefault(), "Path to the private key file that transaction should be signed with.")
		escrowFl  = fl.String("escrow", "", "ID of the escrow.")
	)
	fl.Parse(args)

	id, err := escrow.ParseID(*escrowFl)
	if err != nil {
		return err
	}
	return submitEscrowMsg(output, *homeFl, *keyPathFl, &escrow.RefundMsg{EscrowID: id})
}

func cmdSecret(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print a secret and its hashlock. A random secret is generated unless one is
given.
`)
		fl.PrintDefaults()
	}
	var (
		hasherFl = fl.String("hasher", hashlock.SHA256.Name(), "Commitment hasher name.")
		secretFl = fl.String("secret", "", "Optional hex encoded secret.")
	)
	fl.Parse(args)

	hasher, err := hashlock.HasherByName(*hasherFl)
	if err != nil {
		return err
	}
	var secret hashlock.Secret
	if *secretFl != "" {
		secret, err = hashlock.ParseSecret(*secretFl)
	} else {
		secret, err = hashlock.RandomSecret(rand.Reader)
	}
	if err != nil {
		return err
	}
	return writeJSON(output, struct {
		Hasher   string            `json:"hasher"`
		Secret   hashlock.Secret   `json:"secret"`
		Hashlock hashlock.Hashlock `json:"hashlock"`
	}{
		Hasher:   hasher.Name(),
		Secret:   secret,
		Hashlock: hashlock.Commit(hasher, secret),
	})
}

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the state of an escrow.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = fl.String("home", flHomeDefault(), "Directory holding the chain state.")
		escrowFl = fl.String("escrow", "", "ID of the escrow.")
	)
	fl.Parse(args)

	id, err := escrow.ParseID(*escrowFl)
	if err != nil {
		return err
	}
	return withChain(*homeFl, func(ch *app.Chain) error {
		return printEscrow(output, ch, id)
	})
}

func cmdList(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
List escrows, optionally filtered by state or by hashlock. Escrows sharing a
hashlock belong to the same swap.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl     = fl.String("home", flHomeDefault(), "Directory holding the chain state.")
		stateFl    = fl.String("state", "", "Optional state: new, locked, released or refunded.")
		hashlockFl = fl.String("hashlock", "", "Optional hex encoded hashlock.")
	)
	fl.Parse(args)

	var state escrow.State
	if *stateFl != "" {
		s, err := escrow.ParseState(*stateFl)
		if err != nil {
			return err
		}
		state = s
	}

	return withChain(*homeFl, func(ch *app.Chain) error {
		var found []*escrow.Escrow
		err := ch.View(func(db htlc.ReadOnlyKVStore) error {
			var err error
			if *hashlockFl == "" {
				found, err = ch.Modules().Escrow.List(db, state)
				return err
			}
			lock, err := hashlock.ParseHashlock(*hashlockFl)
			if err != nil {
				return err
			}
			found, err = ch.Modules().Escrow.ByHashlock(db, lock)
			return err
		})
		if err != nil {
			return err
		}
		views := make([]escrowView, 0, len(found))
		for _, e := range found {
			if state != 0 && e.State != state {
				continue
			}
			views = append(views, viewOf(e))
		}
		return writeJSON(output, views)
	})
}
