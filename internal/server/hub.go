package server

import (
	"context"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// Snapshot is what the frame loop publishes after each frame.
type Snapshot struct {
	Frame     int64               `json:"frame"`
	Timestamp int64               `json:"timestamp"` // unix milliseconds
	Paused    bool                `json:"paused"`
	Editor    gesture.EditorState `json:"editor"`
	Hands     []gesture.Reading   `json:"hands"`
}

// Hub holds the latest annotated frame and snapshot. The frame loop is the
// only writer; HTTP handlers wait for new versions.
type Hub struct {
	mu      sync.Mutex
	jpeg    []byte
	snap    Snapshot
	version uint64
	changed chan struct{}
	viewers int
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{changed: make(chan struct{})}
}

// Publish replaces the latest frame and snapshot and wakes every waiter.
// jpeg may be nil when nobody is watching the stream.
func (h *Hub) Publish(jpeg []byte, snap Snapshot) {
	if snap.Timestamp == 0 {
		snap.Timestamp = time.Now().UnixMilli()
	}

	h.mu.Lock()
	if jpeg != nil {
		h.jpeg = jpeg
	}
	h.snap = snap
	h.version++
	close(h.changed)
	h.changed = make(chan struct{})
	h.mu.Unlock()
}

// Latest returns the current frame, snapshot, and version.
func (h *Hub) Latest() ([]byte, Snapshot, uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.jpeg, h.snap, h.version
}

// Wait blocks until a version newer than since is published or ctx is done.
func (h *Hub) Wait(ctx context.Context, since uint64) ([]byte, Snapshot, uint64, error) {
	for {
		h.mu.Lock()
		if h.version > since {
			jpeg, snap, v := h.jpeg, h.snap, h.version
			h.mu.Unlock()
			return jpeg, snap, v, nil
		}
		ch := h.changed
		h.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, Snapshot{}, since, ctx.Err()
		case <-ch:
		}
	}
}

// WantsFrames reports whether any stream viewer is connected, so the loop
// can skip JPEG encoding otherwise.
func (h *Hub) WantsFrames() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewers > 0
}

// addViewer adjusts the viewer count. When the last viewer leaves the held
// frame is dropped, since the loop stops encoding and it would go stale.
func (h *Hub) addViewer(delta int) {
	h.mu.Lock()
	h.viewers += delta
	if h.viewers <= 0 {
		h.viewers = 0
		h.jpeg = nil
	}
	h.mu.Unlock()
}
