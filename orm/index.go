package orm

import (
	"bytes"
	"sort"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// Indexer calculates the secondary index key for a given model. A nil key
// means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// Index keeps the set of primary keys referencing each index value. All
// references of a value are serialized under a single key, so it should be
// used for small collections only.
type Index struct {
	name    string
	id      []byte
	unique  bool
	indexer Indexer
}

// multiRef is the stored set of primary keys.
type multiRef struct {
	Refs [][]byte
}

func newIndex(bucket, name string, indexer Indexer, unique bool) *Index {
	return &Index{
		name:    name,
		id:      []byte("_i." + bucket + "_" + name + ":"),
		unique:  unique,
		indexer: indexer,
	}
}

func (i *Index) indexKey(value []byte) []byte {
	out := make([]byte, len(i.id)+len(value))
	copy(out, i.id)
	copy(out[len(i.id):], value)
	return out
}

func (i *Index) refs(db htlc.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	var m multiRef
	if err := htlc.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "decode index")
	}
	return m.Refs, nil
}

func (i *Index) writeRefs(db htlc.KVStore, value []byte, refs [][]byte) error {
	k := i.indexKey(value)
	if len(refs) == 0 {
		return db.Delete(k)
	}
	raw, err := htlc.Marshal(multiRef{Refs: refs})
	if err != nil {
		return err
	}
	return db.Set(k, raw)
}

// update moves the reference to key from the index value of prev to the
// index value of save. A nil prev means insert, a nil save means delete.
func (i *Index) update(db htlc.KVStore, key []byte, prev, save Model) error {
	var before, after []byte
	var err error
	if prev != nil {
		if before, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if save != nil {
		if after, err = i.indexer(save); err != nil {
			return err
		}
	}
	if prev != nil && save != nil && bytes.Equal(before, after) {
		return nil
	}
	if before != nil {
		if err := i.remove(db, before, key); err != nil {
			return err
		}
	}
	if after != nil {
		return i.add(db, after, key)
	}
	return nil
}

func (i *Index) add(db htlc.KVStore, value, key []byte) error {
	refs, err := i.refs(db, value)
	if err != nil {
		return err
	}
	if i.unique && len(refs) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "%X", value)
	}
	pos := sort.Search(len(refs), func(n int) bool { return bytes.Compare(refs[n], key) >= 0 })
	if pos < len(refs) && bytes.Equal(refs[pos], key) {
		return nil
	}
	refs = append(refs, nil)
	copy(refs[pos+1:], refs[pos:])
	refs[pos] = key
	return i.writeRefs(db, value, refs)
}

func (i *Index) remove(db htlc.KVStore, value, key []byte) error {
	refs, err := i.refs(db, value)
	if err != nil {
		return err
	}
	for n, r := range refs {
		if bytes.Equal(r, key) {
			return i.writeRefs(db, value, append(refs[:n], refs[n+1:]...))
		}
	}
	return errors.Wrapf(errors.ErrState, "index %s has no reference to %X", i.name, key)
}
