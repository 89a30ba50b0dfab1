package escrow

import (
	"time"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/gconf"
	"github.com/iov-one/htlc/x/hashlock"
)

const confPkg = "escrow"

// Configuration of the escrow extension.
type Configuration struct {
	// MinExpiryMargin in seconds. A lock expiry must be strictly later than
	// the current time plus this margin.
	MinExpiryMargin int64 `json:"min_expiry_margin"`
	// DefaultHasher is used by deployments that do not name a hasher.
	DefaultHasher string `json:"default_hasher"`
}

// DefaultConfiguration is used when no configuration was stored.
func DefaultConfiguration() Configuration {
	return Configuration{
		MinExpiryMargin: int64(3 * htlc.Day / time.Second),
		DefaultHasher:   hashlock.SHA256.Name(),
	}
}

func (c Configuration) Validate() error {
	if c.MinExpiryMargin < 0 {
		return errors.Wrap(errors.ErrInput, "negative expiry margin")
	}
	if _, err := hashlock.HasherByName(c.DefaultHasher); err != nil {
		return errors.Wrap(err, "default hasher")
	}
	return nil
}

// Margin returns the minimum expiry margin as a duration.
func (c Configuration) Margin() time.Duration {
	return time.Duration(c.MinExpiryMargin) * time.Second
}

// LoadConfiguration returns the stored configuration or the default one.
func LoadConfiguration(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confPkg, &conf); {
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	case err != nil:
		return conf, errors.Wrap(err, "load escrow configuration")
	}
	return conf, nil
}

// SaveConfiguration validates and stores the configuration.
func SaveConfiguration(db gconf.Store, c Configuration) error {
	return gconf.Save(db, confPkg, &c)
}
