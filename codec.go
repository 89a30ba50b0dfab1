package htlc

import (
	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/htlc/errors"
)

// Codec is the binary codec shared by all persisted models and
// transactions. Extensions register their concrete message types with
// RegisterMsg during init.
var Codec = newCodec()

func newCodec() *amino.Codec {
	cdc := amino.NewCodec()
	cdc.RegisterInterface((*Msg)(nil), nil)
	return cdc
}

// RegisterMsg declares a concrete message type under the given amino name,
// so that it can be carried inside a transaction.
func RegisterMsg(msg Msg, name string) {
	Codec.RegisterConcrete(msg, name, nil)
}

// Marshal serializes given value using the shared codec.
func Marshal(o interface{}) ([]byte, error) {
	bz, err := Codec.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// Unmarshal deserializes raw bytes into the destination pointer.
func Unmarshal(raw []byte, dest interface{}) error {
	if err := Codec.UnmarshalBinaryBare(raw, dest); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
