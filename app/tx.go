package app

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/crypto"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x/sigs"
)

// Tx is the transaction format accepted by the chain. It carries exactly
// one message and any number of signatures over that message.
type Tx struct {
	Msg        htlc.Msg             `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps a message into an unsigned transaction.
func NewTx(msg htlc.Msg) *Tx {
	return &Tx{Msg: msg}
}

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (htlc.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	bz, err := htlc.Marshal(&Tx{Msg: tx.Msg})
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	return bz, nil
}

// Sign appends a signature of given signer made for the chain and sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// Marshal serializes the transaction into its binary representation.
func (tx *Tx) Marshal() ([]byte, error) {
	return htlc.Marshal(tx)
}

// DecodeTx parses a binary transaction. Any panic of the decoder is
// returned as an error.
func DecodeTx(raw []byte) (tx *Tx, err error) {
	defer errors.Recover(&err)
	var t Tx
	if err := htlc.Unmarshal(raw, &t); err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return &t, nil
}
