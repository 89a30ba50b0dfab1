package htlctest

import "github.com/iov-one/htlc"

// Handler is a mock counting its calls and returning configured results.
type Handler struct {
	checkCall   int
	CheckResult htlc.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult htlc.DeliverResult
	DeliverErr    error
}

var _ htlc.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
