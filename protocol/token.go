package protocol

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/ufo-org/ufo-ipc/value"
)

// FunctionToken is the opaque 64-bit identifier of a subordinate-registered
// function blob. It is minted from the same counter as DataToken, but unlike
// DataToken it is never itself a value.Value variant: only DataToken crosses
// the wire as a Value.
type FunctionToken uint64

// recentTokensCacheSize bounds the diagnostic LRU every ControllerProcess
// keeps of its most recently minted tokens.
const recentTokensCacheSize = 256

// tokenCounter mints FunctionToken and DataToken values from one shared,
// monotonically increasing counter, pre-incremented so the first minted
// value is 1. One counter lives per ControllerProcess; it is not exported
// because only the controller ever mints tokens. It also keeps
// a bounded LRU of recently minted tokens purely for diagnostics: protocol
// correctness never consults it, since every live token must be treated as
// valid regardless of recency.
type tokenCounter struct {
	next uint64

	once   sync.Once
	recent *lru.Cache
}

func (c *tokenCounter) ensureCache() {
	c.once.Do(func() {
		c.recent, _ = lru.New(recentTokensCacheSize)
	})
}

func (c *tokenCounter) mint(kind string) uint64 {
	n := atomic.AddUint64(&c.next, 1)
	c.ensureCache()
	c.recent.Add(n, kind)
	return n
}

func (c *tokenCounter) mintFunction() FunctionToken {
	return FunctionToken(c.mint("function"))
}

func (c *tokenCounter) mintData() value.DataToken {
	return value.DataToken(c.mint("data"))
}

// DebugRecentTokens returns the bounded set of most recently minted tokens,
// each mapped to the namespace ("function" or "data") it was minted for. The
// result is a map and so carries no order.
// This is diagnostic-only; it is never consulted to decide whether a token
// is valid.
func (c *tokenCounter) DebugRecentTokens() map[uint64]string {
	c.ensureCache()
	out := make(map[uint64]string, c.recent.Len())
	for _, key := range c.recent.Keys() {
		if v, ok := c.recent.Peek(key); ok {
			out[key.(uint64)] = v.(string)
		}
	}
	return out
}
