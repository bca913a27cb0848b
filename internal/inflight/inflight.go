// Package inflight hands out per-operation request tokens. A token blocks a
// second submission of the same operation while the first is outstanding;
// distinct operations never wait on each other.
package inflight

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"tienda.shop/app/internal/shared/apperr"
)

var ErrBusy = errors.New("inflight: operation already in progress")

// BusyMessage is shown when a duplicate submission is turned away.
const BusyMessage = "Ya hay una operación en curso"

// Key joins parts into an operation key, e.g. Key("cart", userID, "save", itemID).
// Parts are query-escaped, so a ':' inside an id never acts as a separator.
func Key(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.QueryEscape(p)
	}
	return strings.Join(escaped, ":")
}

type Tracker struct {
	mu  sync.Mutex
	ops map[string]*Token
}

func New() *Tracker {
	return &Tracker{ops: map[string]*Token{}}
}

// Token is held for the duration of one operation.
type Token struct {
	key     string
	tracker *Tracker
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

// Begin claims key. It fails with ErrBusy when the same key is already held.
// The token's context derives from ctx and is cancelled by Cancel or Done.
func (t *Tracker) Begin(ctx context.Context, key string) (*Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, held := t.ops[key]; held {
		return nil, ErrBusy
	}
	opCtx, cancel := context.WithCancel(ctx)
	tok := &Token{key: key, tracker: t, ctx: opCtx, cancel: cancel}
	t.ops[key] = tok
	return tok, nil
}

func (tok *Token) Key() string { return tok.key }

// Context is the context upstream calls of this operation should use.
func (tok *Token) Context() context.Context { return tok.ctx }

// Cancel aborts the operation without releasing the key; Done still must run.
func (tok *Token) Cancel() { tok.cancel() }

// Done releases the key. Safe to call more than once.
func (tok *Token) Done() {
	tok.once.Do(func() {
		tok.cancel()
		tok.tracker.mu.Lock()
		if tok.tracker.ops[tok.key] == tok {
			delete(tok.tracker.ops, tok.key)
		}
		tok.tracker.mu.Unlock()
	})
}

// Busy reports whether key is held.
func (t *Tracker) Busy(key string) bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, held := t.ops[key]
	return held
}

// BusyPrefix reports whether any held key starts with prefix.
func (t *Tracker) BusyPrefix(prefix string) bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.ops {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// Cancel aborts the operation holding key, if any.
func (t *Tracker) Cancel(key string) bool {
	t.mu.Lock()
	tok, held := t.ops[key]
	t.mu.Unlock()
	if held {
		tok.Cancel()
	}
	return held
}

// Run executes fn under key and releases it afterwards. A held key yields a
// conflict AppError wrapping ErrBusy. A nil Tracker runs fn unguarded.
func (t *Tracker) Run(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if t == nil {
		return fn(ctx)
	}
	tok, err := t.Begin(ctx, key)
	if err != nil {
		return &apperr.AppError{Kind: apperr.Conflict, PublicMsg: BusyMessage, Err: err}
	}
	defer tok.Done()
	return fn(tok.Context())
}
