package cli

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"

	"github.com/dkravets/mediakeeper/internal/client/media"
)

// Upload reads the named files and dispatches them through the upload flow.
// Image references come back resolved; video references stay pending until
// the watch command observes their completion.
func (a *App) Upload(ctx context.Context, paths []string) error {
	if !a.hasSpace() {
		fmt.Println("Select a space first ('spaces', then 'use <n>')")
		return nil
	}
	if len(paths) == 0 {
		fmt.Println("Usage: upload <file> [file...]")
		return nil
	}

	var files []media.File
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("skipping %s: %s", path, err.Error())
			continue
		}
		files = append(files, media.File{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Data:        data,
		})
	}

	uploader := media.NewUploader(a.space.ID, a.api, a.imageHost, a.videoHost)
	result := uploader.UploadBatch(ctx, files, a.store)

	for _, r := range result.Rejected {
		fmt.Printf("rejected %s: %s\n", r.File.Name, r.Reason.Error())
	}
	for _, f := range result.Failed {
		fmt.Printf("failed %s: %s\n", f.File.Name, f.Err.Error())
	}
	fmt.Printf("uploaded %d file(s)\n", len(result.Added))
	return nil
}

// Selection prints the current media selection, marking pending videos.
func (a *App) Selection(ctx context.Context) error {
	snapshot := a.store.Snapshot()
	if len(snapshot) == 0 {
		fmt.Println("Nothing selected")
		return nil
	}
	for i, ref := range snapshot {
		fmt.Printf("%d. %s\n", i+1, describeRef(ref))
	}
	return nil
}

// Toggle flips membership of the nth entry in the current selection.
func (a *App) Toggle(ctx context.Context, index int) error {
	snapshot := a.store.Snapshot()
	if index < 1 || index > len(snapshot) {
		fmt.Printf("No selection with number %d\n", index)
		return nil
	}
	a.store.Toggle(snapshot[index-1])
	return a.Selection(ctx)
}

// Videos lists the persisted video rows of the active space with their
// processing status.
func (a *App) Videos(ctx context.Context) error {
	if !a.hasSpace() {
		fmt.Println("Select a space first ('spaces', then 'use <n>')")
		return nil
	}

	videos, err := a.api.ListVideos(ctx, a.space.ID)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	for _, v := range videos {
		if v.PlaybackID != "" {
			fmt.Printf("%s  %s  playback=%s\n", v.ID, v.Status, v.PlaybackID)
		} else {
			fmt.Printf("%s  %s\n", v.ID, v.Status)
		}
	}
	return nil
}

func describeRef(ref media.Reference) string {
	switch {
	case ref.Kind == media.KindImage:
		return fmt.Sprintf("image %s", ref.Locator)
	case ref.Resolved():
		return fmt.Sprintf("video playback=%s", ref.Locator)
	default:
		return fmt.Sprintf("video processing (%s)", ref.ClientID)
	}
}
