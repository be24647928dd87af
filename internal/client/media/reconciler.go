package media

import (
	"context"

	"github.com/dkravets/mediakeeper/internal/client/realtime"
)

// Reconciler applies video completion notifications to a store. A pending
// reference transitions to resolved at most once; notifications whose token
// matches no live entry belong to another form or to an entry the user
// already removed, so they are ignored.
type Reconciler struct {
	store *Store
}

func NewReconciler(store *Store) *Reconciler {
	return &Reconciler{store: store}
}

// Apply processes one notification. It reports whether a pending reference
// was resolved.
func (r *Reconciler) Apply(change realtime.VideoChange) bool {
	if change.New.PlaybackID == "" {
		return false
	}
	return r.store.Resolve(change.New.Identifier, change.New.PlaybackID)
}

// Run applies notifications from ch in receipt order until the channel
// closes or the context ends.
func (r *Reconciler) Run(ctx context.Context, ch <-chan realtime.VideoChange) {
	for {
		select {
		case change, ok := <-ch:
			if !ok {
				return
			}
			r.Apply(change)
		case <-ctx.Done():
			return
		}
	}
}
