package tui

import "sync/atomic"

// requestCounter issues sequence numbers that are unique for the life of the
// process, so a response can never be mistaken for one issued by another pane
// or an earlier session.
var requestCounter atomic.Uint64

// requestSeq remembers the latest load a pane issued. Responses carrying an
// older number are dropped, so the most recently issued request wins even
// when replies arrive out of order.
type requestSeq struct {
	latest uint64
}

func (s *requestSeq) next() uint64 {
	s.latest = requestCounter.Add(1)
	return s.latest
}

func (s requestSeq) current(seq uint64) bool {
	return seq == s.latest
}

// loadedMsg carries the result of a list load.
type loadedMsg[T any] struct {
	seq   uint64
	items []T
	err   error
}
