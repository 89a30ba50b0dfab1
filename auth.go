package htlc

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of handlers,
// so we can plug in another authentication system, rather than hardcoding
// x/sigs into all handlers.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(Context) []Condition
	// HasAddress checks if any condition matches this address
	HasAddress(Context, Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx Context) []Condition {
	var res []Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx Context, addr Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method to add convenience
func GetAddresses(ctx Context, auth Authenticator) []Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first permission if any, otherwise nil
func MainSigner(ctx Context, auth Authenticator) Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// Caller answers whether a given address authorized the current request.
// It binds an Authenticator to a single request context.
type Caller interface {
	HasAddress(Address) bool
}

// CallerOf returns the Caller view of the request authenticated by auth.
func CallerOf(ctx Context, auth Authenticator) Caller {
	return boundCaller{ctx: ctx, auth: auth}
}

type boundCaller struct {
	ctx  Context
	auth Authenticator
}

func (b boundCaller) HasAddress(a Address) bool {
	return b.auth.HasAddress(b.ctx, a)
}

// Signer is a Caller that authorized exactly one address. It is useful
// when the authentication happened outside of a transaction.
type Signer Address

// HasAddress implements Caller.
func (s Signer) HasAddress(a Address) bool {
	return Address(s).Equals(a)
}
