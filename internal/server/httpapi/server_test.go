package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkravets/mediakeeper/internal/common"
	"github.com/dkravets/mediakeeper/internal/dbx"
	"github.com/dkravets/mediakeeper/internal/logging"
	"github.com/dkravets/mediakeeper/internal/server/auth"
	"github.com/dkravets/mediakeeper/internal/server/config"
	"github.com/dkravets/mediakeeper/internal/server/models"
	"github.com/dkravets/mediakeeper/internal/server/realtime"
	contentsrepo "github.com/dkravets/mediakeeper/internal/server/repositories/contents"
	eventsrepo "github.com/dkravets/mediakeeper/internal/server/repositories/events"
	imagesrepo "github.com/dkravets/mediakeeper/internal/server/repositories/images"
	refreshtokensrepo "github.com/dkravets/mediakeeper/internal/server/repositories/refreshtokens"
	spacesrepo "github.com/dkravets/mediakeeper/internal/server/repositories/spaces"
	usersrepo "github.com/dkravets/mediakeeper/internal/server/repositories/users"
	videosrepo "github.com/dkravets/mediakeeper/internal/server/repositories/videos"
	"github.com/dkravets/mediakeeper/internal/server/services"
)

const testSpaceID = "0b3c8d1e-9a64-4a8f-9a1c-2f43a1a1b2c3"

// --- fakes ---

type fakeSpaces struct{ space *models.Space }

func (f *fakeSpaces) Create(ctx context.Context, s *models.Space) (*models.Space, error) {
	s.ID = testSpaceID
	return s, nil
}
func (f *fakeSpaces) GetByID(ctx context.Context, id string) (*models.Space, error) {
	if f.space == nil || f.space.ID != id {
		return nil, common.ErrorNotFound
	}
	return f.space, nil
}
func (f *fakeSpaces) ListByUser(ctx context.Context, userID string) ([]*models.Space, error) {
	if f.space == nil {
		return nil, nil
	}
	return []*models.Space{f.space}, nil
}
func (f *fakeSpaces) Delete(ctx context.Context, id string) error { return nil }

type fakeVideos struct {
	byIdentifier map[string]*models.Video
	marked       int
}

func (f *fakeVideos) Create(ctx context.Context, v *models.Video) (*models.Video, error) {
	v.ID = "v-new"
	if f.byIdentifier == nil {
		f.byIdentifier = map[string]*models.Video{}
	}
	f.byIdentifier[v.Identifier] = v
	return v, nil
}
func (f *fakeVideos) GetByIdentifier(ctx context.Context, identifier string) (*models.Video, error) {
	v, ok := f.byIdentifier[identifier]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return v, nil
}
func (f *fakeVideos) MarkReady(ctx context.Context, v *models.Video) error {
	f.marked++
	return nil
}
func (f *fakeVideos) ListBySpace(ctx context.Context, spaceID string) ([]*models.Video, error) {
	var out []*models.Video
	for _, v := range f.byIdentifier {
		out = append(out, v)
	}
	return out, nil
}
func (f *fakeVideos) Delete(ctx context.Context, id string) error { return nil }

type fakeImages struct{}

func (f *fakeImages) CreateBatch(ctx context.Context, images []*models.Image) ([]*models.Image, error) {
	for i, img := range images {
		img.ID = fmt.Sprintf("img%d", i+1)
	}
	return images, nil
}
func (f *fakeImages) ListBySpace(ctx context.Context, spaceID string) ([]*models.Image, error) {
	return nil, nil
}
func (f *fakeImages) Delete(ctx context.Context, id string) error { return nil }

type fakeRM struct {
	s *fakeSpaces
	v *fakeVideos
	i *fakeImages
}

func (m *fakeRM) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRM) Users(db dbx.DBTX) usersrepo.Repository                 { return nil }
func (m *fakeRM) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return nil }
func (m *fakeRM) Spaces(db dbx.DBTX) spacesrepo.Repository               { return m.s }
func (m *fakeRM) Contents(db dbx.DBTX) contentsrepo.Repository           { return nil }
func (m *fakeRM) Events(db dbx.DBTX) eventsrepo.Repository               { return nil }
func (m *fakeRM) Images(db dbx.DBTX) imagesrepo.Repository               { return m.i }
func (m *fakeRM) Videos(db dbx.DBTX) videosrepo.Repository               { return m.v }

type testEnv struct {
	server *Server
	broker *realtime.Broker
	rm     *fakeRM
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		ImageHostUploadPreset:        "media",
		ImageHostAPISecret:           "secret",
	}

	rm := &fakeRM{
		s: &fakeSpaces{space: &models.Space{ID: testSpaceID, UserID: "u1"}},
		v: &fakeVideos{byIdentifier: map[string]*models.Video{}},
		i: &fakeImages{},
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	broker := realtime.NewBroker()

	users := services.NewUserService(db, rm, cfg)
	spaces := services.NewSpaceService(db, rm)
	contents := services.NewContentService(db, rm, spaces)
	events := services.NewEventService(db, rm, spaces)
	media := services.NewMediaService(db, rm, spaces, broker, logger)
	uploads := services.NewUploadService(cfg, nil)

	server := NewServer(cfg, logger, users, spaces, contents, events, media, uploads, broker)

	token, err := auth.GenerateToken("u1", []byte("k"), time.Hour)
	require.NoError(t, err)

	return &testEnv{server: server, broker: broker, rm: rm, token: token}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.AuthorizationHeader, "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

// --- tests ---

func TestAuthRequired_MissingToken(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/spaces", nil)
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_BadToken(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/spaces", nil)
	req.Header.Set(common.AuthorizationHeader, "Bearer garbage")
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestImageSignature_Issued(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/uploads/image-signature", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Signature string `json:"signature"`
		Timestamp int64  `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Signature)
	assert.InDelta(t, time.Now().Unix(), resp.Timestamp, 5)
}

func TestStorageGetURL_KeyRequired(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/uploads/storage-get", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateVideo_ProcessingRow(t *testing.T) {
	env := newTestEnv(t)

	body := `{"space_id":"` + testSpaceID + `","identifier":"3e1f6f5c-1111-4f2a-9c3d-abcdefabcdef","bytes":42}`
	w := env.do(http.MethodPost, "/api/videos", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp videoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.VideoStatusProcessing, resp.Status)
	assert.Equal(t, "3e1f6f5c-1111-4f2a-9c3d-abcdefabcdef", resp.Identifier)
}

func TestVideoWebhook_ReadyResolvesRow(t *testing.T) {
	env := newTestEnv(t)
	env.rm.v.byIdentifier["abc-123"] = &models.Video{
		ID: "v1", SpaceID: testSpaceID, Identifier: "abc-123", Status: models.VideoStatusProcessing,
	}

	scope := realtime.Scope{SpaceID: testSpaceID, Field: realtime.FieldVideos}
	ch, unsubscribe := env.broker.Subscribe(scope, 1)
	defer unsubscribe()

	body := `{"type":"video.asset.ready","data":{"id":"asset1","passthrough":"abc-123","duration":12.5,"aspect_ratio":"16:9","playback_ids":[{"id":"pb999","policy":"public"}]}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/video", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, env.rm.v.marked)

	change := <-ch
	assert.Equal(t, "pb999", change.New.PlaybackID)
	assert.Equal(t, models.VideoStatusReady, change.New.Status)
}

func TestVideoWebhook_UnknownIdentifierAcknowledged(t *testing.T) {
	env := newTestEnv(t)

	body := `{"type":"video.asset.ready","data":{"id":"asset1","passthrough":"zzz-999"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/video", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.rm.v.marked)
}

func TestVideoWebhook_OtherEventTypesIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.rm.v.byIdentifier["abc-123"] = &models.Video{ID: "v1", SpaceID: testSpaceID, Identifier: "abc-123"}

	body := `{"type":"video.upload.created","data":{"id":"up1","passthrough":"abc-123"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/video", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.rm.v.marked)
}

func TestCreateImages_BatchOverLimitRejected(t *testing.T) {
	env := newTestEnv(t)

	var imgs []string
	for i := 0; i < 6; i++ {
		imgs = append(imgs, `{"url":"https://cdn.example/a.jpg"}`)
	}
	body := `{"space_id":"` + testSpaceID + `","images":[` + strings.Join(imgs, ",") + `]}`
	w := env.do(http.MethodPost, "/api/images", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRealtimeWS_StreamsChanges(t *testing.T) {
	env := newTestEnv(t)

	srv := httptest.NewServer(env.server.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") +
		"/realtime/ws?token=" + env.token + "&space_id=" + testSpaceID

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	scope := realtime.Scope{SpaceID: testSpaceID, Field: realtime.FieldVideos}
	require.Eventually(t, func() bool {
		return env.broker.SubscriberCount(scope) == 1
	}, time.Second, 10*time.Millisecond)

	env.broker.Publish(scope, realtime.VideoChange{New: realtime.VideoRow{
		ID: "v1", Identifier: "abc-123", PlaybackID: "pb999", Status: models.VideoStatusReady,
	}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var change realtime.VideoChange
	require.NoError(t, conn.ReadJSON(&change))
	assert.Equal(t, "pb999", change.New.PlaybackID)
}

func TestRealtimeWS_BadToken(t *testing.T) {
	env := newTestEnv(t)

	srv := httptest.NewServer(env.server.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") +
		"/realtime/ws?token=garbage&space_id=" + testSpaceID

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	if resp != nil {
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}
