package media

import (
	"strings"

	"github.com/dkravets/mediakeeper/internal/common"
)

// File is one local file queued for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Rejection explains why a file was not accepted into the batch.
type Rejection struct {
	File   File
	Reason error
}

// Batch is the result of partitioning a list of files.
type Batch struct {
	Images   []File
	Videos   []File
	Rejected []Rejection
}

// Accepted returns the number of files routed to an upload path.
func (b Batch) Accepted() int {
	return len(b.Images) + len(b.Videos)
}

// Partition splits files into image and video subsets, preserving the
// relative order within each. Files of any other type are rejected
// individually, as are files past the batch limit; a rejection never affects
// files already accepted.
func Partition(files []File) Batch {
	var b Batch
	for _, f := range files {
		switch {
		case !isImage(f) && !isVideo(f):
			b.Rejected = append(b.Rejected, Rejection{File: f, Reason: common.ErrorUnsupportedFileType})
		case b.Accepted() >= common.MaxUploadBatchSize:
			b.Rejected = append(b.Rejected, Rejection{File: f, Reason: common.ErrorBatchTooLarge})
		case isImage(f):
			b.Images = append(b.Images, f)
		default:
			b.Videos = append(b.Videos, f)
		}
	}
	return b
}

func isImage(f File) bool {
	return strings.HasPrefix(f.ContentType, "image/")
}

func isVideo(f File) bool {
	return strings.HasPrefix(f.ContentType, "video/")
}
