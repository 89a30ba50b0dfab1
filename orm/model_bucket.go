package orm

import (
	"bytes"
	"regexp"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	Validate() error
}

var isBucketName = regexp.MustCompile(`^[a-z][a-z_]{2,19}$`).MatchString

// ModelBucket stores models of a single type under a common key prefix.
// Each model is accessible by its primary key and optionally by secondary
// indexes.
type ModelBucket struct {
	name     string
	prefix   []byte
	newModel func() Model
	seq      *Sequence
	indexes  []*Index
}

// ModelBucketOption configures a ModelBucket.
type ModelBucketOption func(*ModelBucket)

// WithIDSequence makes Put assign a primary key from given sequence when
// called with a nil key.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(b *ModelBucket) {
		b.seq = &s
	}
}

// WithIndex adds a secondary index. A unique index refuses to reference two
// models with the same index value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(b *ModelBucket) {
		b.indexes = append(b.indexes, newIndex(b.name, name, indexer, unique))
	}
}

// NewModelBucket returns a bucket for models created by newModel. The
// factory is used to load previous versions of a model when indexes must be
// updated.
func NewModelBucket(name string, newModel func() Model, opts ...ModelBucketOption) *ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	b := &ModelBucket{
		name:     name,
		prefix:   []byte(name + ":"),
		newModel: newModel,
	}
	for _, fn := range opts {
		fn(b)
	}
	return b
}

// Name returns the bucket name.
func (b *ModelBucket) Name() string {
	return b.name
}

func (b *ModelBucket) dbKey(key []byte) []byte {
	out := make([]byte, len(b.prefix)+len(key))
	copy(out, b.prefix)
	copy(out[len(b.prefix):], key)
	return out
}

// One query the database for a single model instance. Lookup is done by the
// primary key. Result is loaded into given destination model.
// This method returns ErrNotFound if the entity does not exist in the
// database.
func (b *ModelBucket) One(db htlc.ReadOnlyKVStore, key []byte, dest Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	raw, err := db.Get(b.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := htlc.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(err, "decode %s %X", b.name, key)
	}
	return nil
}

// Has returns nil if an entity with given key exists and ErrNotFound
// otherwise.
func (b *ModelBucket) Has(db htlc.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(b.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	return nil
}

// Put saves given model in the database. When key is nil and the bucket
// has an ID sequence, a new key is allocated. The key used is returned.
func (b *ModelBucket) Put(db htlc.KVStore, key []byte, m Model) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}
	if key == nil {
		if b.seq == nil {
			return nil, errors.Wrap(errors.ErrHuman, "no key and no sequence")
		}
		next, err := b.seq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "next id")
		}
		key = next
	}

	if len(b.indexes) > 0 {
		prev, err := b.load(db, key)
		if err != nil {
			return nil, err
		}
		for _, idx := range b.indexes {
			if err := idx.update(db, key, prev, m); err != nil {
				return nil, errors.Wrapf(err, "index %s", idx.name)
			}
		}
	}

	raw, err := htlc.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", b.name)
	}
	if err := db.Set(b.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return key, nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b *ModelBucket) Delete(db htlc.KVStore, key []byte) error {
	prev, err := b.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	for _, idx := range b.indexes {
		if err := idx.update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "index %s", idx.name)
		}
	}
	if err := db.Delete(b.dbKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// load returns the stored model or nil if it does not exist.
func (b *ModelBucket) load(db htlc.ReadOnlyKVStore, key []byte) (Model, error) {
	m := b.newModel()
	switch err := b.One(db, key, m); {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return m, nil
}

// ByIndex returns the primary keys of all models referenced by given index
// value.
func (b *ModelBucket) ByIndex(db htlc.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error) {
	for _, idx := range b.indexes {
		if idx.name == indexName {
			return idx.refs(db, value)
		}
	}
	return nil, errors.Wrapf(errors.ErrHuman, "no index %q in %s", indexName, b.name)
}

// ForEach loads every model of the bucket into dest, in primary key order,
// and calls fn with its key. Iteration stops at the first error.
func (b *ModelBucket) ForEach(db htlc.ReadOnlyKVStore, dest Model, fn func(key []byte) error) error {
	end := prefixEnd(b.prefix)
	it, err := db.Iterator(b.prefix, end)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		key := bytes.TrimPrefix(it.Key(), b.prefix)
		if err := htlc.Unmarshal(it.Value(), dest); err != nil {
			return errors.Wrapf(err, "decode %s %X", b.name, key)
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	return nil
}

// prefixEnd returns the smallest key greater than all keys starting with
// prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
