package assert

import (
	"fmt"
	"testing"

	"github.com/iov-one/htlc/errors"
)

type recorder struct {
	failed bool
}

func (r *recorder) Helper()                       {}
func (r *recorder) Fatal(...interface{})          { r.failed = true }
func (r *recorder) Fatalf(string, ...interface{}) { r.failed = true }

func TestNil(t *testing.T) {
	var r recorder
	Nil(&r, nil)
	if r.failed {
		t.Fatal("nil must pass")
	}
	var ptr *int
	Nil(&r, ptr)
	if r.failed {
		t.Fatal("nil pointer must pass")
	}
	Nil(&r, fmt.Errorf("boom"))
	if !r.failed {
		t.Fatal("error must fail")
	}
}

func TestEqual(t *testing.T) {
	var r recorder
	Equal(&r, []byte("a"), []byte("a"))
	if r.failed {
		t.Fatal("equal slices must pass")
	}
	Equal(&r, 1, int64(1))
	if !r.failed {
		t.Fatal("different types must fail")
	}
}

func TestPanics(t *testing.T) {
	var r recorder
	Panics(&r, func() { panic("x") })
	if r.failed {
		t.Fatal("panic not detected")
	}
}

func TestIsErr(t *testing.T) {
	IsErr(t, nil, nil)
	IsErr(t, errors.ErrNotFound, errors.Wrap(errors.ErrNotFound, "key"))
	var noErr *errors.Error
	IsErr(t, noErr, nil)
}
