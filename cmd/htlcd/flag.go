package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *htlc.Address {
	var a htlc.Address
	if defaultVal != "" {
		var err error
		a, err = htlc.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q htlc.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var((*addressValue)(&a), name, usage)
	return &a
}

type addressValue htlc.Address

func (a addressValue) String() string {
	if len(a) == 0 {
		return ""
	}
	return htlc.Address(a).String()
}

func (a *addressValue) Set(raw string) error {
	addr, err := htlc.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = addressValue(addr)
	return nil
}

// flCoin returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flCoin(fl *flag.FlagSet, name, defaultVal, usage string) *coin.Coin {
	var c coin.Coin
	if defaultVal != "" {
		var err error
		c, err = coin.ParseHumanFormat(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q coin.Coin flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&c, name, usage)
	return &c
}

// flList returns a comma separated list of values.
func flList(fl *flag.FlagSet, name, defaultVal, usage string) *[]string {
	var l []string
	if defaultVal != "" {
		l = strings.Split(defaultVal, ",")
	}
	fl.Var((*listValue)(&l), name, usage)
	return &l
}

type listValue []string

func (l listValue) String() string {
	return strings.Join(l, ",")
}

func (l *listValue) Set(raw string) error {
	*l = nil
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*l = append(*l, v)
		}
	}
	return nil
}
