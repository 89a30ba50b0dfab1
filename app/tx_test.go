package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
	"github.com/iov-one/htlc/store"
	"github.com/iov-one/htlc/x/escrow"
	"github.com/iov-one/htlc/x/sigs"
)

func TestTxEncoding(t *testing.T) {
	key := newKey(t)
	tx := NewTx(&escrow.RefundMsg{EscrowID: orm.EncodeSequence(5)})
	unsigned, err := tx.GetSignBytes()
	require.NoError(t, err)

	require.NoError(t, tx.Sign(key, testChainID, 0))
	require.Len(t, tx.GetSignatures(), 1)

	// Signatures are not part of the signed content.
	signed, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, unsigned, signed)

	raw, err := tx.Marshal()
	require.NoError(t, err)
	decoded, err := DecodeTx(raw)
	require.NoError(t, err)

	msg, err := decoded.GetMsg()
	require.NoError(t, err)
	refund, ok := msg.(*escrow.RefundMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, orm.EncodeSequence(5), refund.EscrowID)

	conds, err := sigs.VerifyTxSignatures(store.MemStore(), decoded, testChainID)
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, key.PublicKey().Address(), conds[0].Address())

	_, err = sigs.VerifyTxSignatures(store.MemStore(), decoded, "another-chain")
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %v", err)
}

func TestTxWithoutMessage(t *testing.T) {
	var tx Tx
	_, err := tx.GetMsg()
	assert.True(t, errors.ErrMsg.Is(err), "got %v", err)
	_, err = tx.GetSignBytes()
	assert.True(t, errors.ErrMsg.Is(err), "got %v", err)
}
