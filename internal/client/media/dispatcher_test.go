package media

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkravets/mediakeeper/internal/common"
)

func testFile(name, contentType string) File {
	return File{Name: name, ContentType: contentType, Data: []byte(name)}
}

func TestPartition_SplitsByKindPreservingOrder(t *testing.T) {
	files := []File{
		testFile("a.jpg", "image/jpeg"),
		testFile("b.mp4", "video/mp4"),
		testFile("c.png", "image/png"),
		testFile("d.mov", "video/quicktime"),
	}

	b := Partition(files)

	require.Empty(t, b.Rejected)
	assert.Equal(t, len(files), b.Accepted())
	require.Len(t, b.Images, 2)
	require.Len(t, b.Videos, 2)
	assert.Equal(t, "a.jpg", b.Images[0].Name)
	assert.Equal(t, "c.png", b.Images[1].Name)
	assert.Equal(t, "b.mp4", b.Videos[0].Name)
	assert.Equal(t, "d.mov", b.Videos[1].Name)
}

func TestPartition_RejectsUnsupportedType(t *testing.T) {
	b := Partition([]File{
		testFile("a.jpg", "image/jpeg"),
		testFile("notes.pdf", "application/pdf"),
		testFile("b.mp4", "video/mp4"),
	})

	assert.Equal(t, 2, b.Accepted())
	require.Len(t, b.Rejected, 1)
	assert.Equal(t, "notes.pdf", b.Rejected[0].File.Name)
	assert.ErrorIs(t, b.Rejected[0].Reason, common.ErrorUnsupportedFileType)
}

func TestPartition_RejectsOverflowPastBatchLimit(t *testing.T) {
	var files []File
	for i := 0; i < common.MaxUploadBatchSize+2; i++ {
		files = append(files, testFile(fmt.Sprintf("f%d.jpg", i), "image/jpeg"))
	}

	b := Partition(files)

	assert.Equal(t, common.MaxUploadBatchSize, b.Accepted())
	require.Len(t, b.Rejected, 2)
	for _, r := range b.Rejected {
		assert.ErrorIs(t, r.Reason, common.ErrorBatchTooLarge)
	}
}

func TestPartition_RejectionDoesNotCountAgainstLimit(t *testing.T) {
	files := []File{
		testFile("x.pdf", "application/pdf"),
		testFile("a.jpg", "image/jpeg"),
		testFile("b.jpg", "image/jpeg"),
		testFile("c.jpg", "image/jpeg"),
		testFile("d.mp4", "video/mp4"),
		testFile("e.mp4", "video/mp4"),
	}

	b := Partition(files)

	assert.Equal(t, common.MaxUploadBatchSize, b.Accepted())
	require.Len(t, b.Rejected, 1)
	assert.Equal(t, "x.pdf", b.Rejected[0].File.Name)
}
