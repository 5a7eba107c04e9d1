package ingest

import (
	"container/list"
	"time"
)

// sessionCache is a bounded, TTL-evicting store of the most recent
// session per client session id, ordered by most-recent-touch. The
// oldest entries sit at the front of the list.
//
// Not safe for concurrent use; the Service serializes access.
type sessionCache struct {
	ttl time.Duration
	max int

	ll    *list.List
	items map[string]*list.Element
}

func newSessionCache(ttl time.Duration, max int) *sessionCache {
	return &sessionCache{
		ttl:   ttl,
		max:   max,
		ll:    list.New(),
		items: make(map[string]*list.Element),
	}
}

// setLimits adjusts TTL and max size at runtime. Non-positive values
// are ignored, keeping the previous setting.
func (c *sessionCache) setLimits(ttl time.Duration, max int) {
	if ttl > 0 {
		c.ttl = ttl
	}
	if max > 0 {
		c.max = max
	}
}

// cleanup evicts expired entries from the least-recently-touched end,
// stopping at the first entry still within TTL (entries are
// touch-ordered, so age is monotonic from the old end), then evicts
// further entries while over the size limit.
func (c *sessionCache) cleanup(now time.Time) {
	cutoff := now.Add(-c.ttl)
	for {
		front := c.ll.Front()
		if front == nil {
			break
		}
		s := front.Value.(*Session)
		if s.LastSeen.After(cutoff) {
			break
		}
		c.ll.Remove(front)
		delete(c.items, s.ID)
	}
	for c.ll.Len() > c.max {
		front := c.ll.Front()
		s := front.Value.(*Session)
		c.ll.Remove(front)
		delete(c.items, s.ID)
	}
}

// upsert stores the session under its id and moves it to the
// most-recently-touched end.
func (c *sessionCache) upsert(s *Session) {
	if el, ok := c.items[s.ID]; ok {
		el.Value = s
		c.ll.MoveToBack(el)
		return
	}
	c.items[s.ID] = c.ll.PushBack(s)
}

func (c *sessionCache) get(id string) (*Session, bool) {
	el, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return el.Value.(*Session), true
}

func (c *sessionCache) len() int {
	return c.ll.Len()
}
