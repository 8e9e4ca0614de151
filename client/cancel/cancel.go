// Package cancel hands out cancellation tokens where only the most recent
// token is current. Issuing a new token cancels the previous one, so a slow
// response to an old request can be recognised and dropped.
package cancel

import (
	"context"
	"errors"
	"sync"
)

// Source issues tokens. The zero value is ready to use.
type Source struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Token identifies one request issued by a Source.
type Token struct {
	ctx context.Context
	gen uint64
	src *Source
}

// Next cancels the current token and returns a new one derived from parent.
func (s *Source) Next(parent context.Context) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.gen++
	s.cancel = cancel
	return Token{ctx: ctx, gen: s.gen, src: s}
}

// Stop cancels the current token without issuing a new one.
func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

// Context is cancelled once the token is superseded.
func (t Token) Context() context.Context {
	return t.ctx
}

// Current reports whether no newer token has been issued.
func (t Token) Current() bool {
	if t.src == nil {
		return false
	}
	t.src.mu.Lock()
	defer t.src.mu.Unlock()
	return t.gen == t.src.gen
}

// IsAbort reports whether err is the result of a superseded token.
func IsAbort(err error) bool {
	return errors.Is(err, context.Canceled)
}
