package escrow

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/store"
	"github.com/iov-one/htlc/x/hashlock"
)

// LockParams are the values fixed by a lock.
type LockParams struct {
	RefundTo  htlc.Address
	Recipient htlc.Address
	Amount    coin.Coin
	Hashlock  hashlock.Hashlock
	Expiry    htlc.UnixTime
}

// Machine executes escrow transitions. It holds no state of its own and
// expects the caller to serialize calls.
//
// Every transition first checks all preconditions against the stored
// escrow, then applies its effects on a cache of the given store. The cache
// is written only if all effects succeed, so a failed transition never
// changes the store.
type Machine struct {
	bucket   Bucket
	backends *Backends
}

// NewMachine returns a machine able to drive escrows bound to any of the
// given backends.
func NewMachine(backends *Backends) *Machine {
	return &Machine{
		bucket:   NewBucket(),
		backends: backends,
	}
}

// Backends returns the backend registry of this machine.
func (m *Machine) Backends() *Backends {
	return m.backends
}

// Deploy creates a new escrow instance bound to a backend and a hasher. An
// empty hasher name selects the configured default.
func (m *Machine) Deploy(db htlc.KVStore, backend, hasher string) (*Escrow, error) {
	if _, err := m.backends.Get(backend); err != nil {
		return nil, err
	}
	if hasher == "" {
		conf, err := LoadConfiguration(db)
		if err != nil {
			return nil, err
		}
		hasher = conf.DefaultHasher
	}
	if _, err := hashlock.HasherByName(hasher); err != nil {
		return nil, err
	}

	var e *Escrow
	err := atomically(db, func(db htlc.KVStore) error {
		id, err := escrowSeq.NextVal(db)
		if err != nil {
			return errors.Wrap(err, "next id")
		}
		e = &Escrow{
			ID:      id,
			State:   StateNew,
			Backend: backend,
			Hasher:  hasher,
			Address: Address(id),
		}
		_, err = m.bucket.Put(db, id, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Lock records the lock parameters and deposits the amount from the refund
// address into the escrow.
func (m *Machine) Lock(db htlc.KVStore, now htlc.UnixTime, caller htlc.Caller, id []byte, p LockParams) (*Escrow, error) {
	e, err := m.Get(db, id)
	if err != nil {
		return nil, err
	}
	if e.State != StateNew {
		return nil, errors.Wrapf(ErrAlreadyLocked, "escrow is %s", e.State)
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if min := now.Add(conf.Margin()); p.Expiry <= min {
		return nil, errors.Wrapf(ErrExpiryTooSoon, "expiry %d must be after %d", p.Expiry, min)
	}
	if err := p.Amount.Validate(); err != nil {
		return nil, errors.Wrap(err, "amount")
	}
	if !p.Amount.IsPositive() {
		return nil, errors.Wrapf(ErrZeroAmount, "cannot lock %s", p.Amount)
	}
	backend, err := m.backends.Get(e.Backend)
	if err != nil {
		return nil, err
	}
	if p.Amount.Ticker != backend.Ticker() {
		return nil, errors.Wrapf(errors.ErrCurrency, "backend %s moves %s, got %s",
			backend.Name(), backend.Ticker(), p.Amount.Ticker)
	}
	if err := p.RefundTo.Validate(); err != nil {
		return nil, errors.Wrap(err, "refund to")
	}
	if err := p.Recipient.Validate(); err != nil {
		return nil, errors.Wrap(err, "recipient")
	}
	if p.Hashlock.IsZero() {
		return nil, errors.Wrap(errors.ErrInput, "empty hashlock")
	}
	if !caller.HasAddress(p.RefundTo) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "depositor signature required")
	}

	e.State = StateLocked
	e.RefundTo = p.RefundTo
	e.Recipient = p.Recipient
	e.Hashlock = p.Hashlock
	e.Expiry = p.Expiry
	e.Amount = p.Amount
	e.LockedAt = now

	err = atomically(db, func(db htlc.KVStore) error {
		if _, err := m.bucket.Put(db, e.ID, e); err != nil {
			return errors.Wrap(err, "save escrow")
		}
		return backend.DepositInto(db, e.Address, e.RefundTo, e.Amount)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Unlock releases the escrow to the recipient if the secret matches the
// hashlock. Unlock is possible after the expiry as long as the escrow was
// not refunded.
func (m *Machine) Unlock(db htlc.KVStore, now htlc.UnixTime, caller htlc.Caller, id []byte, secret hashlock.Secret) (*Escrow, error) {
	e, err := m.Get(db, id)
	if err != nil {
		return nil, err
	}
	if e.State != StateLocked {
		return nil, errors.Wrapf(ErrNotLocked, "escrow is %s", e.State)
	}
	hasher, err := hashlock.HasherByName(e.Hasher)
	if err != nil {
		return nil, err
	}
	if !hashlock.Verify(hasher, secret, e.Hashlock) {
		return nil, errors.Wrap(ErrSecretMismatch, hasher.Name())
	}
	if !caller.HasAddress(e.Recipient) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "recipient signature required")
	}
	return m.close(db, now, e, StateReleased, e.Recipient, secret.Bytes())
}

// Refund returns the locked funds to the depositor once the escrow expired.
// Anyone can trigger a refund.
func (m *Machine) Refund(db htlc.KVStore, now htlc.UnixTime, _ htlc.Caller, id []byte) (*Escrow, error) {
	e, err := m.Get(db, id)
	if err != nil {
		return nil, err
	}
	if e.State != StateLocked {
		return nil, errors.Wrapf(ErrNotLocked, "escrow is %s", e.State)
	}
	if now < e.Expiry {
		return nil, errors.Wrapf(ErrNotYetExpired, "expires at %d, now is %d", e.Expiry, now)
	}
	return m.close(db, now, e, StateRefunded, e.RefundTo, nil)
}

// close drains the escrow to destination and moves it into a terminal state.
func (m *Machine) close(db htlc.KVStore, now htlc.UnixTime, e *Escrow, to State, destination htlc.Address, secret []byte) (*Escrow, error) {
	backend, err := m.backends.Get(e.Backend)
	if err != nil {
		return nil, err
	}
	err = atomically(db, func(db htlc.KVStore) error {
		payout, err := backend.WithdrawFrom(db, e.Address, destination)
		if err != nil {
			return err
		}
		// Anyone can send funds to the escrow address. Those are paid out
		// together with the locked amount.
		if !payout.IsGTE(e.Amount) {
			return errors.Wrapf(errors.ErrState, "escrow held %s, locked %s", payout, e.Amount)
		}
		e.State = to
		e.Secret = secret
		e.ClosedAt = now
		e.Payout = payout
		_, err = m.bucket.Put(db, e.ID, e)
		return errors.Wrap(err, "save escrow")
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Get returns the escrow with given id.
func (m *Machine) Get(db htlc.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	var e Escrow
	if err := m.bucket.One(db, id, &e); err != nil {
		return nil, errors.Wrap(err, "load escrow")
	}
	return &e, nil
}

// ByHashlock returns all escrows locked with given hashlock. A counterpart
// of an atomic swap uses it to learn a revealed secret.
func (m *Machine) ByHashlock(db htlc.ReadOnlyKVStore, lock hashlock.Hashlock) ([]*Escrow, error) {
	keys, err := m.bucket.ByIndex(db, "hashlock", lock.Bytes())
	if err != nil {
		return nil, err
	}
	res := make([]*Escrow, 0, len(keys))
	for _, k := range keys {
		e, err := m.Get(db, k)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}

// List returns all escrows in given state, ordered by id. A zero state
// matches all escrows.
func (m *Machine) List(db htlc.ReadOnlyKVStore, state State) ([]*Escrow, error) {
	var (
		res []*Escrow
		e   Escrow
	)
	err := m.bucket.ForEach(db, &e, func([]byte) error {
		if state == 0 || e.State == state {
			cp := e
			res = append(res, &cp)
		}
		e = Escrow{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// atomically runs fn on a cache of db. Changes reach db only if fn
// succeeds.
func atomically(db htlc.KVStore, fn func(htlc.KVStore) error) error {
	cache := store.NewBTreeCacheWrap(db, nil)
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
