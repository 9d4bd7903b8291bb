// Package coalesce tracks in-flight statistics recomputes so repeated
// mutations of one item collapse into a single pending job.
package coalesce

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Coalescer records pending item ids. Recomputation is idempotent, so a
// dropped or evicted marker costs at most one redundant recompute.
type Coalescer interface {
	// MarkPending atomically checks if id is pending and records it if not.
	// Returns true if id was already pending, false if it was newly recorded.
	// This is the ONLY method for coalescing - thread-safe and atomic.
	MarkPending(ctx context.Context, id uuid.UUID) bool

	// Release removes an id from the pending set, allowing the next mutation
	// to schedule a fresh recompute. Call after the job finished or when it
	// could not be enqueued.
	Release(ctx context.Context, id uuid.UUID)

	Size() int64
}

// node represents a single entry in the linked list
type node struct {
	id   uuid.UUID
	next *node
}

// reset clears the node state for reuse
func (n *node) reset() {
	n.id = uuid.Nil
	n.next = nil
}

// inMemoryCoalescer implements Coalescer using an in-memory linked list with
// oldest-first eviction.
// For bounded mode (maxSize > 0): uses linked list with eviction and sync.Pool for nodes
// For unbounded mode (maxSize <= 0): uses simple map (no eviction, no size limit)
type inMemoryCoalescer struct {
	mu       sync.RWMutex
	pending  map[uuid.UUID]*node // id -> node pointer for bounded mode, nil for unbounded
	head     *node               // head of linked list (most recently added)
	maxSize  int                 // maximum number of ids to keep in memory (0 or negative = UNBOUNDED)
	size     atomic.Int64        // current number of entries (atomic)
	nodePool sync.Pool           // pool for reusing node objects
}

// NewInMemoryCoalescer creates a new in-memory coalescer with configuration options.
func NewInMemoryCoalescer(opts ...Option) Coalescer {
	c := &inMemoryCoalescer{
		maxSize: 50000, // default max size
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	// Initialize the pending map
	c.pending = make(map[uuid.UUID]*node)

	// Initialize sync.Pool for node reuse in bounded mode
	if c.maxSize > 0 {
		c.nodePool = sync.Pool{
			New: func() interface{} {
				return &node{}
			},
		}
	}

	return c
}

// MarkPending atomically checks if id is pending and records it if not.
// Returns true if id was already pending, false if it was newly recorded.
func (c *inMemoryCoalescer) MarkPending(ctx context.Context, id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Check if already pending
	if _, exists := c.pending[id]; exists {
		return true // Already pending
	}

	if c.maxSize > 0 {
		// BOUNDED MODE: Use linked list with oldest-first eviction
		// Check if we need to evict before adding the new entry
		if len(c.pending) >= c.maxSize {
			c.evictOldest()
		}

		// Create new node from pool
		n := c.nodePool.Get().(*node)
		n.id = id
		n.next = c.head

		// Update head and map
		c.head = n
		c.pending[id] = n
	} else {
		// UNBOUNDED MODE: Just use map
		c.pending[id] = nil
	}
	c.size.Add(1)
	return false // Newly recorded
}

// Release removes an id from the pending set.
func (c *inMemoryCoalescer) Release(ctx context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 {
		// BOUNDED MODE: Remove from linked list and map
		if node, exists := c.pending[id]; exists {
			// Remove from map
			delete(c.pending, id)

			// Remove from linked list
			if c.head == node {
				// Node is at head
				c.head = node.next
			} else {
				// Find and remove node from middle/tail
				current := c.head
				for current != nil && current.next != node {
					current = current.next
				}
				if current != nil {
					current.next = node.next
				}
			}

			// Return node to pool
			node.reset()
			c.nodePool.Put(node)

			c.size.Add(-1)
		}
	} else {
		// UNBOUNDED MODE: Just remove from map
		if _, exists := c.pending[id]; exists {
			delete(c.pending, id)
			c.size.Add(-1)
		}
	}
}

// evictOldest removes the least recently added entry (tail of list) from the
// map. Evicting a live marker is safe: the next mutation simply schedules a
// redundant recompute. Must be called with c.mu.Lock() held.
func (c *inMemoryCoalescer) evictOldest() {
	if len(c.pending) == 0 || c.head == nil {
		return
	}

	// Find the second-to-last node
	var prev *node
	current := c.head

	// If there's only one node, remove it
	if current.next == nil {
		delete(c.pending, current.id)
		current.reset()
		c.nodePool.Put(current)
		c.head = nil
		c.size.Add(-1)
		return
	}

	// Find the second-to-last node
	for current.next != nil {
		prev = current
		current = current.next
	}

	// Remove the last node (tail)
	if prev != nil {
		prev.next = nil
		delete(c.pending, current.id)
		current.reset()
		c.nodePool.Put(current)
		c.size.Add(-1)
	}
}

// Size returns the current number of pending entries.
func (c *inMemoryCoalescer) Size() int64 {
	return c.size.Load()
}
