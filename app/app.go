package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// Chain executes transactions one at a time against a committed store.
// Every transaction is processed under a single lock and sees the block
// time read from the clock at the moment it is processed. Changes are
// durable once Commit returns.
type Chain struct {
	mu sync.Mutex

	clock   clock.Clock
	logger  log.Logger
	store   *CommitStore
	modules Modules
	handler htlc.Handler
	init    htlc.Initializer

	// chainID is loaded from the store, saved once by InitChain
	chainID string
	// height of the last committed block
	height int64
}

// Option configures a Chain.
type Option func(*Chain)

// WithClock sets the source of block time. The wall clock is used by
// default.
func WithClock(c clock.Clock) Option {
	return func(ch *Chain) { ch.clock = c }
}

// WithLogger sets the logger passed down to all handlers.
func WithLogger(l log.Logger) Option {
	return func(ch *Chain) { ch.logger = l }
}

// NewChain loads the latest committed state of db.
func NewChain(db htlc.CommitKVStore, conf Config, opts ...Option) (*Chain, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	cs, err := NewCommitStore(db)
	if err != nil {
		return nil, err
	}
	mods := NewModules(conf)
	c := &Chain{
		clock:   clock.NewDefaultClock(),
		logger:  log.NewNopLogger(),
		store:   cs,
		modules: mods,
		handler: mods.Stack(),
		init:    mods.Initializer(),
	}
	for _, o := range opts {
		o(c)
	}

	if c.chainID, err = loadChainID(cs.DeliverStore()); err != nil {
		return nil, err
	}
	info, err := cs.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	c.height = info.Version
	return c, nil
}

// ChainID returns the chain id set at genesis, or an empty string.
func (c *Chain) ChainID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chainID
}

// Height returns the height of the last committed block.
func (c *Chain) Height() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// Modules gives access to the extensions, for queries.
func (c *Chain) Modules() Modules {
	return c.modules
}

// InitChain loads the genesis state and commits it as the first block.
// It can be called only once in the lifetime of a store.
func (c *Chain) InitChain(gen Genesis) (htlc.CommitID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chainID != "" {
		return htlc.CommitID{}, errors.Wrapf(errors.ErrImmutable, "state previously loaded for chain %s", c.chainID)
	}
	if err := gen.Validate(); err != nil {
		return htlc.CommitID{}, err
	}

	cache := c.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return htlc.CommitID{}, err
	}
	if err := c.init.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return htlc.CommitID{}, errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return htlc.CommitID{}, errors.Wrap(err, "write genesis")
	}
	c.chainID = gen.ChainID
	c.logger.Info("Genesis loaded", "chain_id", c.chainID)
	return c.commit()
}

// Check runs the transaction against the check state. The deliver state is
// not modified.
func (c *Chain) Check(tx htlc.Tx) (*htlc.CheckResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, err := c.context("check_tx", tx)
	if err != nil {
		return nil, err
	}
	return c.handler.Check(ctx, c.store.CheckStore(), tx)
}

// Deliver applies the transaction to the deliver state. A failed message
// leaves no trace in the state.
func (c *Chain) Deliver(tx htlc.Tx) (*htlc.DeliverResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, err := c.context("deliver_tx", tx)
	if err != nil {
		return nil, err
	}
	return c.handler.Deliver(ctx, c.store.DeliverStore(), tx)
}

// DeliverTx decodes and delivers a binary transaction.
func (c *Chain) DeliverTx(raw []byte) (*htlc.DeliverResult, error) {
	tx, err := DecodeTx(raw)
	if err != nil {
		return nil, err
	}
	return c.Deliver(tx)
}

// Commit persists all delivered transactions as a new block.
func (c *Chain) Commit() (htlc.CommitID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit()
}

func (c *Chain) commit() (htlc.CommitID, error) {
	id, err := c.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	c.height = id.Version
	c.logger.Info("Commit synced",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash))
	return id, nil
}

// View calls fn with the delivered, possibly not yet committed, state.
// fn must not retain the store.
func (c *Chain) View(fn func(db htlc.ReadOnlyKVStore) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.store.DeliverStore())
}

// context builds the request context of a single transaction.
func (c *Chain) context(call string, tx htlc.Tx) (htlc.Context, error) {
	if c.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	ctx := htlc.WithChainID(context.Background(), c.chainID)
	ctx = htlc.WithLogger(ctx, c.logger)
	ctx = htlc.WithHeight(ctx, c.height+1)
	ctx = htlc.WithBlockTime(ctx, c.clock.Now())
	ctx = htlc.WithLogInfo(ctx,
		"call", call,
		"path", htlc.GetPath(tx))
	return ctx, nil
}
