package escrow

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r htlc.Registry, auth htlc.Authenticator, m *Machine) {
	r.Handle(pathDeploy, DeployHandler{machine: m})
	r.Handle(pathLock, LockHandler{auth: auth, machine: m})
	r.Handle(pathUnlock, UnlockHandler{auth: auth, machine: m})
	r.Handle(pathRefund, RefundHandler{auth: auth, machine: m})
}

func logger(ctx htlc.Context) log.Logger {
	return htlc.GetLogger(ctx).With("module", "escrow")
}

// DeployHandler creates escrow instances.
type DeployHandler struct {
	machine *Machine
}

var _ htlc.Handler = DeployHandler{}

func (h DeployHandler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	msg, err := loadDeploy(tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.machine.Backends().Get(msg.Backend); err != nil {
		return nil, err
	}
	return &htlc.CheckResult{}, nil
}

func (h DeployHandler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	msg, err := loadDeploy(tx)
	if err != nil {
		return nil, err
	}
	e, err := h.machine.Deploy(db, msg.Backend, msg.Hasher)
	if err != nil {
		return nil, err
	}
	logger(ctx).Info("escrow deployed", "id", FormatID(e.ID), "backend", e.Backend, "hasher", e.Hasher)
	return &htlc.DeliverResult{Data: e.ID}, nil
}

func loadDeploy(tx htlc.Tx) (*DeployMsg, error) {
	var msg *DeployMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return msg, nil
}

// LockHandler locks funds in an escrow.
type LockHandler struct {
	auth    htlc.Authenticator
	machine *Machine
}

var _ htlc.Handler = LockHandler{}

// Check verifies the message and that the depositor signed it.
func (h LockHandler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	var msg *LockMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.RefundTo) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "depositor signature required")
	}
	return &htlc.CheckResult{}, nil
}

func (h LockHandler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	var msg *LockMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	now, err := htlc.CurrentTime(ctx)
	if err != nil {
		return nil, err
	}
	e, err := h.machine.Lock(db, now, htlc.CallerOf(ctx, h.auth), msg.EscrowID, msg.Params())
	if err != nil {
		return nil, err
	}
	logger(ctx).Info("escrow locked", "id", FormatID(e.ID), "amount", e.Amount.String(),
		"hashlock", e.Hashlock.String(), "expiry", int64(e.Expiry))
	return &htlc.DeliverResult{Data: e.ID}, nil
}

// UnlockHandler releases an escrow to its recipient.
type UnlockHandler struct {
	auth    htlc.Authenticator
	machine *Machine
}

var _ htlc.Handler = UnlockHandler{}

func (h UnlockHandler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	var msg *UnlockMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.machine.Get(db, msg.EscrowID); err != nil {
		return nil, err
	}
	return &htlc.CheckResult{}, nil
}

func (h UnlockHandler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	var msg *UnlockMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	now, err := htlc.CurrentTime(ctx)
	if err != nil {
		return nil, err
	}
	e, err := h.machine.Unlock(db, now, htlc.CallerOf(ctx, h.auth), msg.EscrowID, msg.Secret)
	if err != nil {
		return nil, err
	}
	logger(ctx).Info("escrow released", "id", FormatID(e.ID), "recipient", e.Recipient.String(), "payout", e.Payout.String())
	return &htlc.DeliverResult{Data: e.ID}, nil
}

// RefundHandler returns the funds of an expired escrow.
type RefundHandler struct {
	auth    htlc.Authenticator
	machine *Machine
}

var _ htlc.Handler = RefundHandler{}

func (h RefundHandler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	var msg *RefundMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.machine.Get(db, msg.EscrowID); err != nil {
		return nil, err
	}
	return &htlc.CheckResult{}, nil
}

func (h RefundHandler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	var msg *RefundMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	now, err := htlc.CurrentTime(ctx)
	if err != nil {
		return nil, err
	}
	e, err := h.machine.Refund(db, now, htlc.CallerOf(ctx, h.auth), msg.EscrowID)
	if err != nil {
		return nil, err
	}
	logger(ctx).Info("escrow refunded", "id", FormatID(e.ID), "refund_to", e.RefundTo.String(), "payout", e.Payout.String())
	return &htlc.DeliverResult{Data: e.ID}, nil
}
