// Package payloadlog keeps a bounded in-memory log of recently ingested
// payloads as a debugging aid. Contents are lost on restart by design.
package payloadlog

import (
	"log"
	"sync"
)

// Log is a fixed-capacity, insertion-ordered buffer of text entries.
// Once full, each append evicts the single oldest entry. All operations
// are safe for concurrent use. Construct with New and pass by reference;
// a disabled Log ignores appends and always reports zero entries.
type Log struct {
	mu      sync.Mutex
	entries []string // ring storage, len == capacity
	head    int      // index of the oldest entry
	size    int      // number of live entries
	enabled bool
}

// New creates a Log holding at most maxSize entries. A maxSize below 1 is
// clamped to 1 so direct callers cannot construct a zero-capacity ring;
// config validation already rejects non-positive sizes at load time.
func New(enabled bool, maxSize int) *Log {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Log{entries: make([]string, maxSize), enabled: enabled}
}

// Append inserts entry at the tail, evicting the oldest entry first when
// the buffer is full. No-op when the log is disabled.
func (l *Log) Append(entry string) {
	if !l.enabled {
		return
	}
	log.Printf("payloadlog: storing payload: %s", entry)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.size == len(l.entries) {
		// Full: the slot at head holds the oldest entry, overwrite it.
		l.entries[l.head] = entry
		l.head = (l.head + 1) % len(l.entries)
		return
	}
	l.entries[(l.head+l.size)%len(l.entries)] = entry
	l.size++
}

// Snapshot returns an independent copy of the current entries in insertion
// order. Later appends do not affect the returned slice.
func (l *Log) Snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, 0, l.size)
	for i := 0; i < l.size; i++ {
		out = append(out, l.entries[(l.head+i)%len(l.entries)])
	}
	return out
}

// Count returns the number of entries currently held.
func (l *Log) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}
