package escrow

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x/hashlock"
)

func init() {
	htlc.RegisterMsg(&DeployMsg{}, "escrow/deploy")
	htlc.RegisterMsg(&LockMsg{}, "escrow/lock")
	htlc.RegisterMsg(&UnlockMsg{}, "escrow/unlock")
	htlc.RegisterMsg(&RefundMsg{}, "escrow/refund")
}

const (
	pathDeploy = "escrow/deploy"
	pathLock   = "escrow/lock"
	pathUnlock = "escrow/unlock"
	pathRefund = "escrow/refund"
)

// DeployMsg creates a new escrow instance.
type DeployMsg struct {
	Backend string `json:"backend"`
	// Hasher is optional. The configured default is used when empty.
	Hasher string `json:"hasher,omitempty"`
}

func (DeployMsg) Path() string { return pathDeploy }

func (m *DeployMsg) Validate() error {
	if m.Backend == "" {
		return errors.Wrap(errors.ErrEmpty, "backend")
	}
	if m.Hasher != "" {
		if _, err := hashlock.HasherByName(m.Hasher); err != nil {
			return err
		}
	}
	return nil
}

// LockMsg locks funds of the refund address in a deployed escrow.
type LockMsg struct {
	EscrowID  []byte            `json:"escrow_id"`
	RefundTo  htlc.Address      `json:"refund_to"`
	Recipient htlc.Address      `json:"recipient"`
	Amount    coin.Coin         `json:"amount"`
	Hashlock  hashlock.Hashlock `json:"hashlock"`
	Expiry    htlc.UnixTime     `json:"expiry"`
}

func (LockMsg) Path() string { return pathLock }

// Validate checks the message format only. Amount and expiry rules depend
// on the escrow state and are checked when the lock is applied.
func (m *LockMsg) Validate() error {
	if err := validID(m.EscrowID); err != nil {
		return err
	}
	if err := m.RefundTo.Validate(); err != nil {
		return errors.Wrap(err, "refund to")
	}
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if m.Hashlock.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "hashlock")
	}
	if err := m.Expiry.Validate(); err != nil {
		return errors.Wrap(err, "expiry")
	}
	return nil
}

// Params returns the lock parameters carried by the message.
func (m *LockMsg) Params() LockParams {
	return LockParams{
		RefundTo:  m.RefundTo,
		Recipient: m.Recipient,
		Amount:    m.Amount,
		Hashlock:  m.Hashlock,
		Expiry:    m.Expiry,
	}
}

// UnlockMsg reveals the secret and releases the escrow to the recipient.
type UnlockMsg struct {
	EscrowID []byte          `json:"escrow_id"`
	Secret   hashlock.Secret `json:"secret"`
}

func (UnlockMsg) Path() string { return pathUnlock }

func (m *UnlockMsg) Validate() error {
	return validID(m.EscrowID)
}

// RefundMsg returns the funds of an expired escrow to the depositor.
type RefundMsg struct {
	EscrowID []byte `json:"escrow_id"`
}

func (RefundMsg) Path() string { return pathRefund }

func (m *RefundMsg) Validate() error {
	return validID(m.EscrowID)
}

func validID(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "escrow id")
	}
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "escrow id must be 8 bytes, got %d", len(id))
	}
	return nil
}
