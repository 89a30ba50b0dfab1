package escrow

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/gconf"
)

// GenesisDeployment is an escrow instance created at genesis.
type GenesisDeployment struct {
	Backend string `json:"backend"`
	Hasher  string `json:"hasher,omitempty"`
}

// Initializer stores the escrow configuration and deploys escrows declared
// in the genesis file.
type Initializer struct {
	Machine *Machine
}

var _ htlc.Initializer = (*Initializer)(nil)

// FromGenesis reads the "escrow" configuration from the "conf" section.
// A missing configuration leaves the defaults in place.
func (i *Initializer) FromGenesis(opts htlc.Options, db htlc.KVStore) error {
	conf := DefaultConfiguration()
	switch err := gconf.InitConfig(db, opts, confPkg, &conf); {
	case errors.ErrNotFound.Is(err):
		// Defaults are used.
	case err != nil:
		return errors.Wrap(err, "init escrow configuration")
	}

	var deployments []GenesisDeployment
	if err := opts.ReadOptions("escrow", &deployments); err != nil {
		return err
	}
	for n, d := range deployments {
		if _, err := i.Machine.Deploy(db, d.Backend, d.Hasher); err != nil {
			return errors.Wrapf(err, "deployment %d", n)
		}
	}
	return nil
}
