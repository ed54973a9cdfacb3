package services

import (
	"context"
	"sync"

	"github.com/srgjo27/flashsale_ticket/internal/core/ports"
)

type afterCommitKey struct{}

// afterCommit collects side effects that must only happen once the
// surrounding transaction has committed.
type afterCommit struct {
	mu    sync.Mutex
	hooks []func(ctx context.Context)
}

// withAfterCommit opens a hook scope on ctx. A nested scope joins the outer
// one, and only the outermost owner runs the hooks. owned reports whether
// the caller is that owner.
func withAfterCommit(ctx context.Context) (_ context.Context, hooks *afterCommit, owned bool) {
	if existing, ok := ctx.Value(afterCommitKey{}).(*afterCommit); ok {
		return ctx, existing, false
	}
	hooks = &afterCommit{}
	return context.WithValue(ctx, afterCommitKey{}, hooks), hooks, true
}

// onCommit defers fn to the hook scope carried by ctx, or runs it now when
// there is none.
func onCommit(ctx context.Context, fn func(ctx context.Context)) {
	hooks, ok := ctx.Value(afterCommitKey{}).(*afterCommit)
	if !ok {
		fn(ctx)
		return
	}
	hooks.mu.Lock()
	hooks.hooks = append(hooks.hooks, fn)
	hooks.mu.Unlock()
}

func (a *afterCommit) run(ctx context.Context) {
	a.mu.Lock()
	hooks := a.hooks
	a.hooks = nil
	a.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx)
	}
}

// inTx runs fn in one transaction and fires the collected hooks only after
// it commits. A rolled back transaction drops them.
func inTx(ctx context.Context, tx ports.Transactor, fn func(ctx context.Context) error) error {
	scoped, hooks, owned := withAfterCommit(ctx)
	if err := tx.WithinTx(scoped, fn); err != nil {
		return err
	}
	if owned {
		hooks.run(ctx)
	}
	return nil
}
