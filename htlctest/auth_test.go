package htlctest

import (
	"context"
	"testing"
)

func TestCtxAuth(t *testing.T) {
	a := NewCondition()
	b := NewCondition()
	if a.Equals(b) {
		t.Fatal("conditions must be unique")
	}

	auth := &CtxAuth{Key: "auth"}
	ctx := context.Background()
	if auth.HasAddress(ctx, a.Address()) {
		t.Fatal("nothing was authenticated yet")
	}

	ctx = auth.SetConditions(ctx, a)
	if !auth.HasAddress(ctx, a.Address()) {
		t.Fatal("a must be authenticated")
	}
	if auth.HasAddress(ctx, b.Address()) {
		t.Fatal("b must not be authenticated")
	}
}

func TestStaticAuth(t *testing.T) {
	a := NewCondition()
	b := NewCondition()
	auth := &Auth{Signer: a}
	ctx := context.Background()
	if !auth.HasAddress(ctx, a.Address()) {
		t.Fatal("a must be authenticated")
	}
	if auth.HasAddress(ctx, b.Address()) {
		t.Fatal("b must not be authenticated")
	}
	if n := len(auth.GetConditions(ctx)); n != 1 {
		t.Fatalf("want one condition, got %d", n)
	}
}
