package media

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dkravets/mediakeeper/internal/client/api"
	"github.com/dkravets/mediakeeper/internal/mediahost/imagehost"
	"github.com/dkravets/mediakeeper/internal/mediahost/videohost"
)

// backend is the slice of the API client the uploader needs.
type backend interface {
	ImageSignature(ctx context.Context) (*imagehost.Signature, error)
	VideoUploadURL(ctx context.Context, identifier string) (string, error)
	CreateImages(ctx context.Context, spaceID string, images []api.ImagePayload) ([]api.Image, error)
	CreateVideo(ctx context.Context, spaceID, identifier string, bytes int64) (*api.Video, error)
}

// imageHost uploads bytes directly to the image CDN.
type imageHost interface {
	Upload(ctx context.Context, filename string, data []byte, sig *imagehost.Signature) (*imagehost.UploadResult, error)
}

// videoPutter uploads bytes to a single-use video upload URL.
type videoPutter interface {
	UploadFile(ctx context.Context, uploadURL, contentType string, data []byte) error
}

var _ backend = (*api.Client)(nil)
var _ imageHost = (*imagehost.Client)(nil)
var _ videoPutter = (*videohost.Client)(nil)

// newCorrelationToken is swapped in tests.
var newCorrelationToken = uuid.NewString

// UploadFailure records one file the uploader could not complete.
type UploadFailure struct {
	File File
	Err  error
}

// Result summarizes one dispatched batch.
type Result struct {
	Added    []Reference
	Rejected []Rejection
	Failed   []UploadFailure
}

// Uploader routes accepted files to the image and video upload paths.
type Uploader struct {
	spaceID   string
	backend   backend
	imageHost imageHost
	videoPut  videoPutter
}

func NewUploader(spaceID string, backend backend, imageHost imageHost, videoPut videoPutter) *Uploader {
	return &Uploader{
		spaceID:   spaceID,
		backend:   backend,
		imageHost: imageHost,
		videoPut:  videoPut,
	}
}

// UploadBatch partitions files, uploads both subsets, and adds the resulting
// references to the store in input order. Rejections and per-file failures
// are reported in the result rather than aborting the batch.
func (u *Uploader) UploadBatch(ctx context.Context, files []File, store *Store) Result {
	batch := Partition(files)
	result := Result{Rejected: batch.Rejected}

	if len(batch.Images) > 0 {
		refs, err := u.UploadImages(ctx, batch.Images)
		if err != nil {
			// the image subset is a single request/response unit, so one
			// failure fails every image in the batch
			for _, f := range batch.Images {
				result.Failed = append(result.Failed, UploadFailure{File: f, Err: err})
			}
		} else {
			result.Added = append(result.Added, refs...)
		}
	}

	refs, failed := u.UploadVideos(ctx, batch.Videos)
	result.Added = append(result.Added, refs...)
	result.Failed = append(result.Failed, failed...)

	for _, ref := range result.Added {
		store.Add(ref)
	}
	return result
}

// UploadImages runs the synchronous image path: one signed grant, concurrent
// uploads to the image host joined in input order, then a single multi-row
// insert. Every returned reference is already resolved.
func (u *Uploader) UploadImages(ctx context.Context, files []File) ([]Reference, error) {
	if len(files) == 0 {
		return nil, nil
	}

	sig, err := u.backend.ImageSignature(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain upload signature: %w", err)
	}

	uploaded := make([]*imagehost.UploadResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			res, err := u.imageHost.Upload(gctx, f.Name, f.Data, sig)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
			uploaded[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	payloads := make([]api.ImagePayload, len(files))
	for i, res := range uploaded {
		payloads[i] = api.ImagePayload{
			URL:      res.SecureURL,
			PublicID: res.PublicID,
			Bytes:    res.Bytes,
			Width:    res.Width,
			Height:   res.Height,
			Format:   res.Format,
		}
	}

	rows, err := u.backend.CreateImages(ctx, u.spaceID, payloads)
	if err != nil {
		return nil, fmt.Errorf("failed to persist images: %w", err)
	}
	if len(rows) != len(files) {
		return nil, fmt.Errorf("expected %d image rows, got %d", len(files), len(rows))
	}

	refs := make([]Reference, len(rows))
	for i, row := range rows {
		refs[i] = Reference{
			ClientID:     newCorrelationToken(),
			Kind:         KindImage,
			Locator:      row.URL,
			PersistentID: row.ID,
		}
	}
	return refs, nil
}

// UploadVideos runs the asynchronous video path. Each file is an isolated
// unit of failure: a correlation token is generated, a single-use upload URL
// is obtained with the token as passthrough, the bytes are uploaded, and a
// processing-state row is inserted. The returned references are pending
// until the reconciler observes the matching completion notification.
func (u *Uploader) UploadVideos(ctx context.Context, files []File) ([]Reference, []UploadFailure) {
	var refs []Reference
	var failed []UploadFailure

	for _, f := range files {
		token := newCorrelationToken()

		uploadURL, err := u.backend.VideoUploadURL(ctx, token)
		if err != nil {
			failed = append(failed, UploadFailure{File: f, Err: fmt.Errorf("failed to obtain upload url: %w", err)})
			continue
		}
		if err := u.videoPut.UploadFile(ctx, uploadURL, f.ContentType, f.Data); err != nil {
			failed = append(failed, UploadFailure{File: f, Err: err})
			continue
		}
		row, err := u.backend.CreateVideo(ctx, u.spaceID, token, int64(len(f.Data)))
		if err != nil {
			failed = append(failed, UploadFailure{File: f, Err: fmt.Errorf("failed to persist video: %w", err)})
			continue
		}

		refs = append(refs, Reference{
			ClientID:     token,
			Kind:         KindVideo,
			PersistentID: row.ID,
		})
	}
	return refs, failed
}
