package sigs

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/crypto"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData tracks the sequence of a public key.
type UserData struct {
	Pubkey   crypto.PublicKey `json:"pubkey"`
	Sequence int64            `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

// Validate requires that all fields are set and sensible.
func (u *UserData) Validate() error {
	if err := u.Pubkey.Validate(); err != nil {
		return errors.Wrap(err, "pubkey")
	}
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	return nil
}

// CheckAndIncrementSequence implements the replay protection. A signature
// must carry the current sequence, which is then incremented.
func (u *UserData) CheckAndIncrementSequence(seq int64) error {
	if u.Sequence != seq {
		return errors.Wrapf(ErrInvalidSequence, "mismatch, expected %d, got %d", u.Sequence, seq)
	}
	u.Sequence++
	return nil
}

// Bucket stores UserData keyed by the address of the public key.
type Bucket struct {
	*orm.ModelBucket
}

// NewBucket returns a bucket for managing the signers state.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, func() orm.Model { return &UserData{} }),
	}
}

// GetOrCreate returns the state of the key, initialized to sequence zero if
// the key was never used.
func (b Bucket) GetOrCreate(db htlc.ReadOnlyKVStore, pubkey crypto.PublicKey) (*UserData, error) {
	var u UserData
	switch err := b.One(db, pubkey.Address(), &u); {
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	case err != nil:
		return nil, err
	}
	return &u, nil
}

// Save stores the key state.
func (b Bucket) Save(db htlc.KVStore, u *UserData) error {
	_, err := b.Put(db, u.Pubkey.Address(), u)
	return err
}
