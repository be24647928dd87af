package imagehost

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkravets/mediakeeper/internal/common"
)

func TestClient_Upload_OK(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))

		assert.Equal(t, "key123", r.FormValue("api_key"))
		assert.Equal(t, "sig456", r.FormValue("signature"))
		assert.Equal(t, "1700000000", r.FormValue("timestamp"))
		assert.Equal(t, "media", r.FormValue("upload_preset"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "photo.jpg", hdr.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://cdn.example/photo.jpg","public_id":"abc","bytes":3,"width":10,"height":20,"format":"jpg"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key123", "media")
	res, err := c.Upload(context.Background(), "photo.jpg", []byte("img"), &Signature{Signature: "sig456", Timestamp: 1700000000})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/photo.jpg", res.SecureURL)
	assert.Equal(t, "abc", res.PublicID)
	assert.Equal(t, int64(3), res.Bytes)
	assert.Equal(t, 10, res.Width)
	assert.Equal(t, 20, res.Height)
	assert.Equal(t, "jpg", res.Format)
}

func TestClient_Upload_HostRejects(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Invalid Signature"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key123", "media")
	_, err := c.Upload(context.Background(), "photo.jpg", []byte("img"), &Signature{Signature: "bad", Timestamp: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorUploadFailed))
}

func TestClient_Upload_BadResponseBody(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key123", "media")
	_, err := c.Upload(context.Background(), "photo.jpg", []byte("img"), &Signature{Signature: "sig", Timestamp: 1})
	require.Error(t, err)
}
