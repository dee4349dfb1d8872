package guardchain

import "context"

// User is the resolved identity threaded through a chain after the identity
// or role stage has run. Roles is the authoritative role set for this
// request; it is never cached across requests.
type User struct {
	ID    string
	Roles []string
}

// Request is the value threaded through a guard chain. Each guard receives
// the request produced by its predecessor and returns an enriched copy;
// there is no ambient mutable request object, so field availability follows
// directly from guard order.
type Request struct {
	// Credential is the raw transport credential (cookie value or bearer
	// token). Consumed by the session-resolution stage.
	Credential string

	// ClientIP identifies the caller for rate limiting and audit.
	ClientIP string

	// Params carries raw path parameters for the validation stage.
	Params map[string]string

	// Input holds parameters that passed validation.
	Input map[string]string

	// SessionID and UserID are set by the session-resolution stage.
	SessionID string
	UserID    string

	// User is set by the identity or role stage.
	User *User
}

// Guard is a single authorization or validation check. Evaluate either
// returns an enriched request for the next stage or an error that terminates
// the chain.
type Guard interface {
	Name() string
	Evaluate(ctx context.Context, req Request) (Request, error)
}

// GuardFunc adapts a named function to the [Guard] interface.
type GuardFunc struct {
	GuardName string
	Fn        func(ctx context.Context, req Request) (Request, error)
}

func (g GuardFunc) Name() string { return g.GuardName }

func (g GuardFunc) Evaluate(ctx context.Context, req Request) (Request, error) {
	return g.Fn(ctx, req)
}

// Operation is the terminal handler of a chain. It runs only after every
// guard has passed.
type Operation func(ctx context.Context, req Request) (any, error)

// Chain is an immutable, ordered guard pipeline ending in one terminal
// operation. Guards run strictly sequentially; the first rejection stops the
// chain and the operation never runs.
type Chain struct {
	name   string
	guards []Guard
	op     Operation
}

// New composes guards and a terminal operation into a [Chain]. The guard
// slice is copied, so the chain cannot be reordered after registration.
func New(name string, guards []Guard, op Operation) *Chain {
	owned := make([]Guard, len(guards))
	copy(owned, guards)
	return &Chain{
		name:   name,
		guards: owned,
		op:     op,
	}
}

// Name returns the route-group label the chain was registered under.
func (c *Chain) Name() string { return c.name }

// GuardNames returns the ordered guard labels, primarily for tests and
// introspection.
func (c *Chain) GuardNames() []string {
	names := make([]string, len(c.guards))
	for i, g := range c.guards {
		names[i] = g.Name()
	}
	return names
}

// Run evaluates the guards in order, threading the enriched request from
// each stage into the next. On the first rejection it returns that error
// with no result; otherwise it returns the terminal operation's result.
func (c *Chain) Run(ctx context.Context, req Request) (any, error) {
	for _, g := range c.guards {
		next, err := g.Evaluate(ctx, req)
		if err != nil {
			return nil, err
		}
		req = next
	}

	if c.op == nil {
		return nil, nil
	}
	return c.op(ctx, req)
}
