package app

import (
	"context"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/htlctest/assert"
)

func TestChain(t *testing.T) {
	c1 := &countingDecorator{}
	c2 := &countingDecorator{}
	c3 := &countingDecorator{}
	var missing *countingDecorator
	h := &htlctest.Handler{}

	stack := ChainDecorators(
		c1,
		nil,
		NewRecovery(),
		missing,
		c2,
		panicAtHeight(6),
		c3,
	).WithHandler(h)

	bg := context.Background()

	// make some calls, make sure it is fine
	_, err := stack.Check(bg, nil, nil)
	assert.Nil(t, err)
	ctx := htlc.WithHeight(bg, 4)
	_, err = stack.Deliver(ctx, nil, nil)
	assert.Nil(t, err)

	assert.Equal(t, 2, c1.called)
	assert.Equal(t, 2, c2.called)
	assert.Equal(t, 2, c3.called)
	assert.Equal(t, 2, h.CallCount())

	// now, let's trigger a panic
	ctx = htlc.WithHeight(bg, 8)
	_, err = stack.Check(ctx, nil, nil)
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = stack.Deliver(ctx, nil, nil)
	assert.IsErr(t, errors.ErrPanic, err)

	assert.Equal(t, 4, c1.called)
	assert.Equal(t, 4, c2.called)
	// the panic happens before c3
	assert.Equal(t, 2, c3.called)
	assert.Equal(t, 2, h.CallCount())
}

func TestChainAppend(t *testing.T) {
	c1 := &countingDecorator{}
	c2 := &countingDecorator{}
	base := ChainDecorators(c1)
	extended := base.Chain(c2)

	h := &htlctest.Handler{}
	_, err := base.WithHandler(h).Deliver(context.Background(), nil, nil)
	assert.Nil(t, err)
	_, err = extended.WithHandler(h).Deliver(context.Background(), nil, nil)
	assert.Nil(t, err)

	assert.Equal(t, 2, c1.called)
	assert.Equal(t, 1, c2.called)
}

type countingDecorator struct {
	called int
}

func (d *countingDecorator) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx, next htlc.Checker) (*htlc.CheckResult, error) {
	d.called++
	return next.Check(ctx, db, tx)
}

func (d *countingDecorator) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx, next htlc.Deliverer) (*htlc.DeliverResult, error) {
	d.called++
	return next.Deliver(ctx, db, tx)
}

// panicAtHeight panics when the context height is at least its value.
type panicAtHeight int64

func (p panicAtHeight) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx, next htlc.Checker) (*htlc.CheckResult, error) {
	if h, _ := htlc.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Check(ctx, db, tx)
}

func (p panicAtHeight) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx, next htlc.Deliverer) (*htlc.DeliverResult, error) {
	if h, _ := htlc.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, db, tx)
}
