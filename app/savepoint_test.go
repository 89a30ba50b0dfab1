package app

import (
	"context"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
)

// writeHandler stores a key and then fails if err is set.
type writeHandler struct {
	key []byte
	err error
}

func (h writeHandler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if err := db.Set(h.key, []byte("checked")); err != nil {
		return nil, err
	}
	return &htlc.CheckResult{}, h.err
}

func (h writeHandler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	if err := db.Set(h.key, []byte("delivered")); err != nil {
		return nil, err
	}
	return &htlc.DeliverResult{}, h.err
}

func TestSavepoint(t *testing.T) {
	cases := map[string]struct {
		decorator Savepoint
		deliver   bool
		err       error
		wantValue []byte
	}{
		"deliver success is written": {
			decorator: NewSavepoint().OnDeliver(),
			deliver:   true,
			wantValue: []byte("delivered"),
		},
		"deliver failure is discarded": {
			decorator: NewSavepoint().OnDeliver(),
			deliver:   true,
			err:       errors.ErrState,
		},
		"check failure is discarded": {
			decorator: NewSavepoint().OnCheck(),
			err:       errors.ErrState,
		},
		"check without savepoint keeps partial writes": {
			decorator: NewSavepoint().OnDeliver(),
			err:       errors.ErrState,
			wantValue: []byte("checked"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			key := []byte("key")
			h := ChainDecorators(tc.decorator).WithHandler(writeHandler{key: key, err: tc.err})

			var err error
			if tc.deliver {
				_, err = h.Deliver(context.Background(), db, nil)
			} else {
				_, err = h.Check(context.Background(), db, nil)
			}
			assert.IsErr(t, tc.err, err)

			got, err := db.Get(key)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantValue, got)
		})
	}
}
