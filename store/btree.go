package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/htlc/errors"
)

// DefaultFreeListSize is the size we hold for free node in btree
const DefaultFreeListSize = btree.DefaultFreeListSize

// MemStore returns a simple implementation useful for tests.
// There is no persistence here.
func MemStore() CacheableKVStore {
	return NewBTreeCacheWrap(EmptyKVStore{}, nil)
}

// BTreeCacheWrap keeps all pending writes in an ordered btree on top of a
// read only parent. Reads see the pending writes first. Write applies the
// pending writes to the parent in key order. Discard drops them.
type BTreeCacheWrap struct {
	bt     *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	out    SetDeleter
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap initializes a btree cache around given parent. When
// the parent can also be written to, it receives the pending writes on
// Write. Otherwise Write only clears the cache.
//
// free may be nil, but set to an existing list to reuse it
// for memory savings
func NewBTreeCacheWrap(parent ReadOnlyKVStore, free *btree.FreeList) *BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	out, _ := parent.(SetDeleter)
	return &BTreeCacheWrap{
		bt:     btree.NewWithFreeList(2, free),
		free:   free,
		parent: parent,
		out:    out,
	}
}

// CacheWrap layers another btree on top of this one.
func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.free)
}

// NewBatch returns a non-atomic batch that eventually may write to
// our cachewrap
func (b *BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all pending operations to the parent and clears the cache.
func (b *BTreeCacheWrap) Write() error {
	var err error
	if b.out != nil {
		b.bt.Ascend(func(i btree.Item) bool {
			err = i.(item).op.Apply(b.out)
			return err == nil
		})
	}
	b.Discard()
	return err
}

// Discard drops all pending operations.
func (b *BTreeCacheWrap) Discard() {
	b.bt.Clear(true)
}

// Set records the value in the cache.
func (b *BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	b.bt.ReplaceOrInsert(item{SetOp(key, value)})
	return nil
}

// Delete records a tombstone in the cache.
func (b *BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	b.bt.ReplaceOrInsert(item{DelOp(key)})
	return nil
}

// Get reads from btree if there, else parent store
func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if res := b.bt.Get(probe(key)); res != nil {
		return res.(item).op.Value(), nil
	}
	return b.parent.Get(key)
}

// Has reads from btree if there, else parent store
func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	if res := b.bt.Get(probe(key)); res != nil {
		return res.(item).op.IsSetOp(), nil
	}
	return b.parent.Has(key)
}

// Iterator over a domain of keys in ascending order.
// Combines results from btree and parent store
func (b *BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	data, err := b.merged(start, end)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(data), nil
}

// ReverseIterator over a domain of keys in descending order.
// Combines results from btree and parent store
func (b *BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	data, err := b.merged(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
	return NewSliceIterator(data), nil
}

// merged returns the ascending view of [start, end) with the cached
// operations applied over the parent content.
func (b *BTreeCacheWrap) merged(start, end []byte) ([]Model, error) {
	it, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	var parent []Model
	for ; it.Valid(); it.Next() {
		parent = append(parent, Pair(it.Key(), it.Value()))
	}
	it.Close()

	var ops []Op
	visit := func(i btree.Item) bool {
		ops = append(ops, i.(item).op)
		return true
	}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(visit)
	case start == nil:
		b.bt.AscendLessThan(probe(end), visit)
	case end == nil:
		b.bt.AscendGreaterOrEqual(probe(start), visit)
	default:
		b.bt.AscendRange(probe(start), probe(end), visit)
	}

	res := make([]Model, 0, len(parent)+len(ops))
	for len(parent) > 0 || len(ops) > 0 {
		var cmp int
		switch {
		case len(ops) == 0:
			cmp = -1
		case len(parent) == 0:
			cmp = 1
		default:
			cmp = bytes.Compare(parent[0].Key, ops[0].Key())
		}
		if cmp < 0 {
			res = append(res, parent[0])
			parent = parent[1:]
			continue
		}
		if cmp == 0 {
			parent = parent[1:]
		}
		if ops[0].IsSetOp() {
			res = append(res, Pair(ops[0].Key(), ops[0].Value()))
		}
		ops = ops[1:]
	}
	return res, nil
}

// item is a pending operation ordered by its key.
type item struct {
	op Op
}

func probe(key []byte) item {
	return item{Op{key: key}}
}

// Less implements btree.Item
func (i item) Less(than btree.Item) bool {
	return bytes.Compare(i.op.Key(), than.(item).op.Key()) < 0
}
