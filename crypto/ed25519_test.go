package crypto

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	priv, err := GenPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()
	require.NoError(t, pub.Validate())

	msg := []byte("lock escrow 1")
	sig, err := priv.Sign(msg)
	require.NoError(t, err)

	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("lock escrow 2"), sig))

	other, err := GenPrivateKey()
	require.NoError(t, err)
	assert.False(t, other.PublicKey().Verify(msg, sig))
	assert.False(t, PublicKey("short").Verify(msg, sig))
}

func TestDeterministicKeys(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := PrivateKeyFromSeed(seed)
	require.NoError(t, err)
	b, err := PrivateKeyFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, a.PublicKey().Address().Equals(b.PublicKey().Address()))

	_, err = PrivateKeyFromSeed([]byte("too short"))
	assert.Error(t, err)
}

func TestConditionFormat(t *testing.T) {
	priv, err := PrivateKeyFromSeed(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)
	cond := priv.PublicKey().Condition()

	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, ExtensionName, ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, []byte(priv.PublicKey()), data)
	assert.Len(t, priv.PublicKey().Address(), 20)
}

func TestKeyJSON(t *testing.T) {
	priv, err := GenPrivateKey()
	require.NoError(t, err)

	raw, err := json.Marshal(struct {
		Priv PrivateKey `json:"priv"`
		Pub  PublicKey  `json:"pub"`
	}{priv, priv.PublicKey()})
	require.NoError(t, err)

	var got struct {
		Priv PrivateKey `json:"priv"`
		Pub  PublicKey  `json:"pub"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, priv, got.Priv)
	assert.Equal(t, priv.PublicKey(), got.Pub)

	var bad PublicKey
	assert.Error(t, json.Unmarshal([]byte(`"abcd"`), &bad))
}
