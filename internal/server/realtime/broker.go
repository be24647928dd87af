// Package realtime fans out row-change notifications to subscribed clients.
// The server publishes a change whenever a video row transitions state; the
// client uses the stream to resolve pending references without polling.
package realtime

import (
	"sync"
)

// Scope identifies one subscription target: change events for rows of the
// given field within one space. Subscriptions never span spaces.
type Scope struct {
	SpaceID string
	Field   string
}

// FieldVideos is the only field published today. The scope struct leaves
// room for other tables without changing the wire shape.
const FieldVideos = "videos"

// VideoChange is the payload delivered to subscribers when a video row is
// updated. New carries the post-update column values a client needs to
// resolve a pending reference.
type VideoChange struct {
	New VideoRow `json:"new"`
}

// VideoRow mirrors the columns exposed over the realtime stream.
type VideoRow struct {
	ID          string  `json:"id"`
	Identifier  string  `json:"identifier"`
	PlaybackID  string  `json:"playback_id"`
	Status      string  `json:"status"`
	Duration    float64 `json:"duration"`
	AspectRatio string  `json:"aspect_ratio"`
}

// Broker is an in-process publish/subscribe hub keyed by Scope. Delivery is
// best effort: a subscriber that cannot keep up has events dropped rather
// than blocking the publisher.
type Broker struct {
	mu   sync.RWMutex
	subs map[Scope]map[chan VideoChange]struct{}
}

// NewBroker returns an empty hub.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[Scope]map[chan VideoChange]struct{}),
	}
}

// Subscribe registers a new subscriber for the scope and returns its channel
// together with an unsubscribe function. The unsubscribe function is safe to
// call more than once; the channel is closed on the first call.
func (b *Broker) Subscribe(scope Scope, buffer int) (<-chan VideoChange, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan VideoChange, buffer)

	b.mu.Lock()
	set, ok := b.subs[scope]
	if !ok {
		set = make(map[chan VideoChange]struct{})
		b.subs[scope] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			if set, ok := b.subs[scope]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(b.subs, scope)
				}
			}
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, unsubscribe
}

// Publish delivers the change to every subscriber of the scope, plus any
// subscriber of the same space with an empty Field, which receives all
// fields. Sends are non-blocking; subscribers with full buffers miss the
// event. Returns the number of subscribers that received it.
func (b *Broker) Publish(scope Scope, change VideoChange) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := b.send(b.subs[scope], change)
	if scope.Field != "" {
		delivered += b.send(b.subs[Scope{SpaceID: scope.SpaceID}], change)
	}
	return delivered
}

func (b *Broker) send(set map[chan VideoChange]struct{}, change VideoChange) int {
	delivered := 0
	for ch := range set {
		select {
		case ch <- change:
			delivered++
		default:
		}
	}
	return delivered
}

// SubscriberCount reports how many subscribers the scope currently has.
func (b *Broker) SubscriberCount(scope Scope) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[scope])
}
