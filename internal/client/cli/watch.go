package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/dkravets/mediakeeper/internal/client/media"
	"github.com/dkravets/mediakeeper/internal/client/realtime"
)

// Watch subscribes to the change stream for the active space and resolves
// pending video references as notifications arrive. It returns when the
// user presses Enter.
func (a *App) Watch(ctx context.Context) error {
	if !a.hasSpace() {
		fmt.Println("Select a space first ('spaces', then 'use <n>')")
		return nil
	}

	access, _ := a.api.Tokens()
	sub, err := realtime.Subscribe(ctx, a.config.ServerURL, access, a.space.ID)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	defer sub.Close()

	reconciler := media.NewReconciler(a.store)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for {
			select {
			case change, ok := <-sub.Changes():
				if !ok {
					return
				}
				if reconciler.Apply(change) {
					fmt.Printf("\nresolved %s -> playback=%s\n", change.New.Identifier, change.New.PlaybackID)
				}
			case <-watchCtx.Done():
				return
			}
		}
	}()

	fmt.Println("Watching for video updates, press Enter to stop...")
	a.reader.ReadString('\n')
	return nil
}
