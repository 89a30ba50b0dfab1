package orm

import (
	"testing"

	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
)

type counter struct {
	Owner string
	Count int64
}

func (c *counter) Validate() error {
	if c.Owner == "" {
		return errors.Wrap(errors.ErrEmpty, "owner")
	}
	return nil
}

func byOwner(m Model) ([]byte, error) {
	c, ok := m.(*counter)
	if !ok {
		return nil, errors.WithType(errors.ErrType, m)
	}
	return []byte(c.Owner), nil
}

func newCounterBucket(unique bool) *ModelBucket {
	return NewModelBucket("counter",
		func() Model { return &counter{} },
		WithIDSequence(NewSequence("counter", "id")),
		WithIndex("owner", byOwner, unique),
	)
}

func TestModelBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket(false)

	key, err := b.Put(db, nil, &counter{Owner: "alice", Count: 1})
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(1), key)

	key2, err := b.Put(db, nil, &counter{Owner: "alice", Count: 2})
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(2), key2)

	var got counter
	assert.Nil(t, b.One(db, key, &got))
	assert.Equal(t, counter{Owner: "alice", Count: 1}, got)
	assert.Nil(t, b.Has(db, key2))

	err = b.One(db, EncodeSequence(3), &got)
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = b.Put(db, nil, &counter{})
	assert.IsErr(t, errors.ErrEmpty, err)
}

func TestModelBucketIndex(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket(false)

	k1, err := b.Put(db, nil, &counter{Owner: "alice"})
	assert.Nil(t, err)
	k2, err := b.Put(db, nil, &counter{Owner: "bob"})
	assert.Nil(t, err)
	k3, err := b.Put(db, nil, &counter{Owner: "alice"})
	assert.Nil(t, err)

	refs, err := b.ByIndex(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{k1, k3}, refs)

	// moving a model updates the index
	_, err = b.Put(db, k1, &counter{Owner: "bob"})
	assert.Nil(t, err)
	refs, err = b.ByIndex(db, "owner", []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{k1, k2}, refs)

	assert.Nil(t, b.Delete(db, k3))
	refs, err = b.ByIndex(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(refs))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, k3))

	_, err = b.ByIndex(db, "missing", nil)
	assert.IsErr(t, errors.ErrHuman, err)
}

func TestModelBucketUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket(true)

	k1, err := b.Put(db, nil, &counter{Owner: "alice"})
	assert.Nil(t, err)
	_, err = b.Put(db, nil, &counter{Owner: "alice"})
	assert.IsErr(t, errors.ErrDuplicate, err)

	// updating the same entity keeps its own reference
	_, err = b.Put(db, k1, &counter{Owner: "alice", Count: 9})
	assert.Nil(t, err)
}

func TestModelBucketForEach(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket(false)
	other := NewModelBucket("counter_other", func() Model { return &counter{} })

	for i := int64(1); i <= 3; i++ {
		_, err := b.Put(db, nil, &counter{Owner: "x", Count: i})
		assert.Nil(t, err)
	}
	_, err := other.Put(db, []byte("k"), &counter{Owner: "y", Count: 100})
	assert.Nil(t, err)

	var c counter
	var total int64
	err = b.ForEach(db, &c, func(key []byte) error {
		total += c.Count
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, int64(6), total)
}

func TestSequence(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("test", "seq")

	latest, err := s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), latest)

	n, err := s.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), n)
	raw, err := s.NextVal(db)
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(2), raw)

	_, err = DecodeSequence([]byte{1, 2})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestInvalidBucketName(t *testing.T) {
	assert.Panics(t, func() {
		NewModelBucket("_hidden", func() Model { return &counter{} })
	})
}
