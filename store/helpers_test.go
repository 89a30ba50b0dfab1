package store

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/htlc/htlctest/assert"
)

// TestSliceIterator makes sure the basic slice iterator works.
func TestSliceIterator(t *testing.T) {
	const size = 10

	ks := randKeys(size, 8)
	vs := randKeys(size, 40)

	models := make([]Model, size)
	for i := 0; i < size; i++ {
		models[i].Key = ks[i]
		models[i].Value = vs[i]
	}

	i := 0
	for iter := NewSliceIterator(models); iter.Valid(); iter.Next() {
		if i >= size {
			t.Fatalf("iterator step greater than the size: %d >= %d", i, size)
		}
		assert.Equal(t, ks[i], iter.Key())
		assert.Equal(t, vs[i], iter.Value())
		i++
	}
	assert.Equal(t, size, i)

	it := NewSliceIterator(models)
	if !it.Valid() {
		t.Fatal("iterator expected to be valid")
	}
	it.Close()
	if it.Valid() {
		t.Fatal("closed iterator must be invalid")
	}
	if err := it.Next(); err == nil {
		t.Fatal("calling Next on invalid iterator must return error")
	}
}

func TestNonAtomicBatch(t *testing.T) {
	base := MemStore()
	b := NewNonAtomicBatch(base)

	assert.Nil(t, b.Set([]byte("a"), []byte("1")))
	assert.Nil(t, b.Set([]byte("b"), []byte("2")))
	assert.Nil(t, b.Delete([]byte("a")))
	assert.Equal(t, 3, len(b.ShowOps()))

	// nothing happens before write
	has, err := base.Has([]byte("b"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	assert.Nil(t, b.Write())
	assert.Equal(t, 0, len(b.ShowOps()))

	val, err := base.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Nil(t, val)
	val, err = base.Get([]byte("b"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("2"), val)
}

func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := 0; i < count; i++ {
		res[i] = make([]byte, size)
		if _, err := rand.Read(res[i]); err != nil {
			panic(err)
		}
	}
	return res
}
