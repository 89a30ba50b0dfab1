package escrow

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/orm"
	"github.com/iov-one/htlc/x/hashlock"
)

func TestMsgValidate(t *testing.T) {
	addr := htlctest.RandomAddr(t)
	id := orm.EncodeSequence(1)
	lock := hashlock.Commit(hashlock.SHA256, hashlock.Secret{1})

	cases := map[string]struct {
		msg     htlc.Msg
		wantErr *errors.Error
	}{
		"valid deploy": {
			msg: &DeployMsg{Backend: "native"},
		},
		"deploy without backend": {
			msg:     &DeployMsg{},
			wantErr: errors.ErrEmpty,
		},
		"deploy with unknown hasher": {
			msg:     &DeployMsg{Backend: "native", Hasher: "md4"},
			wantErr: errors.ErrInput,
		},
		"valid lock": {
			msg: &LockMsg{EscrowID: id, RefundTo: addr, Recipient: addr,
				Amount: coin.NewCoin(1, 0, "MINA"), Hashlock: lock, Expiry: 1000},
		},
		// Amount positivity is enforced by the state machine.
		"lock with zero amount": {
			msg: &LockMsg{EscrowID: id, RefundTo: addr, Recipient: addr,
				Amount: coin.NewCoin(0, 0, "MINA"), Hashlock: lock, Expiry: 1000},
		},
		"lock without hashlock": {
			msg: &LockMsg{EscrowID: id, RefundTo: addr, Recipient: addr,
				Amount: coin.NewCoin(1, 0, "MINA"), Expiry: 1000},
			wantErr: errors.ErrEmpty,
		},
		"lock without recipient": {
			msg: &LockMsg{EscrowID: id, RefundTo: addr,
				Amount: coin.NewCoin(1, 0, "MINA"), Hashlock: lock, Expiry: 1000},
			wantErr: errors.ErrInput,
		},
		"lock with bad id": {
			msg: &LockMsg{EscrowID: []byte{1}, RefundTo: addr, Recipient: addr,
				Amount: coin.NewCoin(1, 0, "MINA"), Hashlock: lock, Expiry: 1000},
			wantErr: errors.ErrInput,
		},
		"valid unlock": {
			msg: &UnlockMsg{EscrowID: id},
		},
		"refund without id": {
			msg:     &RefundMsg{},
			wantErr: errors.ErrEmpty,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
		})
	}
}

func TestMsgCodec(t *testing.T) {
	secret, err := hashlock.SecretFromUint64(3)
	assert.Nil(t, err)
	msg := &UnlockMsg{EscrowID: orm.EncodeSequence(4), Secret: secret}

	raw, err := htlc.Codec.MarshalBinaryBare(htlc.Msg(msg))
	assert.Nil(t, err)
	var got htlc.Msg
	assert.Nil(t, htlc.Codec.UnmarshalBinaryBare(raw, &got))
	assert.Equal(t, msg, got)
}

func TestStateJSON(t *testing.T) {
	raw, err := json.Marshal(StateReleased)
	assert.Nil(t, err)
	assert.Equal(t, `"released"`, string(raw))

	var s State
	assert.Nil(t, json.Unmarshal([]byte(`"locked"`), &s))
	assert.Equal(t, StateLocked, s)
	assert.IsErr(t, errors.ErrInput, json.Unmarshal([]byte(`"gone"`), &s))

	assert.Equal(t, false, StateLocked.IsTerminal())
	assert.Equal(t, true, StateRefunded.IsTerminal())
	assert.IsErr(t, errors.ErrState, State(9).Validate())
}

func TestParseID(t *testing.T) {
	id, err := ParseID("12")
	assert.Nil(t, err)
	assert.Equal(t, orm.EncodeSequence(12), id)
	assert.Equal(t, "12", FormatID(id))

	_, err = ParseID("0")
	assert.IsErr(t, errors.ErrInput, err)
	_, err = ParseID("x")
	assert.IsErr(t, errors.ErrInput, err)
}
