package token

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r htlc.Registry, auth htlc.Authenticator, l *Ledger) {
	r.Handle(IssueMsg{}.Path(), &issueHandler{auth: auth, ledger: l})
	r.Handle(OpenAccountMsg{}.Path(), &openAccountHandler{auth: auth, ledger: l})
	r.Handle(TransferMsg{}.Path(), &transferHandler{auth: auth, ledger: l})
	r.Handle(MintMsg{}.Path(), &mintHandler{auth: auth, ledger: l})
	r.Handle(BurnMsg{}.Path(), &burnHandler{auth: auth, ledger: l})
}

type issueHandler struct {
	auth   htlc.Authenticator
	ledger *Ledger
}

func (h *issueHandler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &htlc.CheckResult{}, nil
}

func (h *issueHandler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Issue(db, msg.Name, msg.Issuer, msg.Supply); err != nil {
		return nil, err
	}
	htlc.GetLogger(ctx).Info("token issued", "ticker", msg.Supply.Ticker, "supply", msg.Supply.String())
	return &htlc.DeliverResult{Data: []byte(msg.Supply.Ticker)}, nil
}

func (h *issueHandler) validate(ctx htlc.Context, tx htlc.Tx) (*IssueMsg, error) {
	var msg *IssueMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Issuer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "issuer signature required")
	}
	return msg, nil
}

type openAccountHandler struct {
	auth   htlc.Authenticator
	ledger *Ledger
}

func (h *openAccountHandler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &htlc.CheckResult{}, nil
}

func (h *openAccountHandler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.OpenAccount(db, msg.Ticker, msg.Owner); err != nil {
		return nil, err
	}
	return &htlc.DeliverResult{}, nil
}

func (h *openAccountHandler) validate(ctx htlc.Context, tx htlc.Tx) (*OpenAccountMsg, error) {
	var msg *OpenAccountMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	return msg, nil
}

type transferHandler struct {
	auth   htlc.Authenticator
	ledger *Ledger
}

func (h *transferHandler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &htlc.CheckResult{}, nil
}

func (h *transferHandler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ledger.Transfer(db, msg.Amount.Ticker, msg.From, msg.To, msg.Amount); err != nil {
		return nil, err
	}
	return &htlc.DeliverResult{}, nil
}

func (h *transferHandler) validate(ctx htlc.Context, tx htlc.Tx) (*TransferMsg, error) {
	var msg *TransferMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.From) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "sender signature required")
	}
	return msg, nil
}

type mintHandler struct {
	auth   htlc.Authenticator
	ledger *Ledger
}

func (h *mintHandler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &htlc.CheckResult{}, nil
}

func (h *mintHandler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Mint(db, msg.Amount.Ticker, msg.To, msg.Amount); err != nil {
		return nil, err
	}
	return &htlc.DeliverResult{}, nil
}

func (h *mintHandler) validate(ctx htlc.Context, db htlc.ReadOnlyKVStore, tx htlc.Tx) (*MintMsg, error) {
	var msg *MintMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	info, err := h.ledger.Info(db, msg.Amount.Ticker)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, info.Issuer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the issuer can mint")
	}
	return msg, nil
}

type burnHandler struct {
	auth   htlc.Authenticator
	ledger *Ledger
}

func (h *burnHandler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &htlc.CheckResult{}, nil
}

func (h *burnHandler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Burn(db, msg.Amount.Ticker, msg.Owner, msg.Amount); err != nil {
		return nil, err
	}
	return &htlc.DeliverResult{}, nil
}

func (h *burnHandler) validate(ctx htlc.Context, tx htlc.Tx) (*BurnMsg, error) {
	var msg *BurnMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	return msg, nil
}
