package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dkravets/mediakeeper/internal/common"
	"github.com/dkravets/mediakeeper/internal/dbx"
	"github.com/dkravets/mediakeeper/internal/server/models"
	contentsrepo "github.com/dkravets/mediakeeper/internal/server/repositories/contents"
	eventsrepo "github.com/dkravets/mediakeeper/internal/server/repositories/events"
	imagesrepo "github.com/dkravets/mediakeeper/internal/server/repositories/images"
	refreshtokensrepo "github.com/dkravets/mediakeeper/internal/server/repositories/refreshtokens"
	spacesrepo "github.com/dkravets/mediakeeper/internal/server/repositories/spaces"
	usersrepo "github.com/dkravets/mediakeeper/internal/server/repositories/users"
	videosrepo "github.com/dkravets/mediakeeper/internal/server/repositories/videos"
)

type fakeContentsRepo struct {
	createErr error

	getOut *models.Content
	getErr error

	replacedImageIDs []string
	replacedVideoIDs []string
	replaceErr       error

	upsertedProject *models.Project

	projectOut *models.Project
}

func (f *fakeContentsRepo) Create(ctx context.Context, c *models.Content) (*models.Content, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.ID = "c1"
	return c, nil
}
func (f *fakeContentsRepo) Update(ctx context.Context, c *models.Content) error { return nil }
func (f *fakeContentsRepo) GetByID(ctx context.Context, id string) (*models.Content, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeContentsRepo) ListBySpace(ctx context.Context, spaceID, contentType string) ([]*models.Content, error) {
	return nil, nil
}
func (f *fakeContentsRepo) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeContentsRepo) UpsertProject(ctx context.Context, p *models.Project) error {
	f.upsertedProject = p
	return nil
}
func (f *fakeContentsRepo) GetProject(ctx context.Context, contentID string) (*models.Project, error) {
	return f.projectOut, nil
}
func (f *fakeContentsRepo) ReplaceMedia(ctx context.Context, contentID string, imageIDs, videoIDs []string) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replacedImageIDs = imageIDs
	f.replacedVideoIDs = videoIDs
	return nil
}

type fakeRepoManager3 struct {
	s *fakeSpacesRepo
	c *fakeContentsRepo
}

func (m *fakeRepoManager3) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager3) Users(db dbx.DBTX) usersrepo.Repository                 { return nil }
func (m *fakeRepoManager3) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return nil }
func (m *fakeRepoManager3) Spaces(db dbx.DBTX) spacesrepo.Repository               { return m.s }
func (m *fakeRepoManager3) Contents(db dbx.DBTX) contentsrepo.Repository           { return m.c }
func (m *fakeRepoManager3) Events(db dbx.DBTX) eventsrepo.Repository               { return nil }
func (m *fakeRepoManager3) Images(db dbx.DBTX) imagesrepo.Repository               { return nil }
func (m *fakeRepoManager3) Videos(db dbx.DBTX) videosrepo.Repository               { return nil }

func TestContentCreate_ProjectWithMedia(t *testing.T) {
	db, mock := newSQLMockDB1(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager3{s: ownedSpace(), c: &fakeContentsRepo{}}
	spaces := NewSpaceService(db, rm)
	s := NewContentService(db, rm, spaces)

	content := &models.Content{
		SpaceID:     "space1",
		Title:       "Folio",
		ContentType: models.ContentTypeProject,
		Status:      models.ContentStatusDraft,
		ImageIDs:    []string{"img1", "img2"},
		VideoIDs:    []string{"v1"},
	}
	project := &models.Project{Year: 2026, Featured: true}

	created, err := s.Create(context.Background(), "u1", content, project)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID != "c1" {
		t.Fatalf("id not assigned: %+v", created)
	}
	if len(rm.c.replacedImageIDs) != 2 || len(rm.c.replacedVideoIDs) != 1 {
		t.Fatalf("media joins not written: %v %v", rm.c.replacedImageIDs, rm.c.replacedVideoIDs)
	}
	if rm.c.upsertedProject == nil || rm.c.upsertedProject.ContentID != "c1" {
		t.Fatalf("project satellite not written: %+v", rm.c.upsertedProject)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestContentCreate_NonProjectSkipsSatellite(t *testing.T) {
	db, mock := newSQLMockDB1(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager3{s: ownedSpace(), c: &fakeContentsRepo{}}
	spaces := NewSpaceService(db, rm)
	s := NewContentService(db, rm, spaces)

	content := &models.Content{SpaceID: "space1", Title: "Post", ContentType: models.ContentTypeBlogPost}
	if _, err := s.Create(context.Background(), "u1", content, nil); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rm.c.upsertedProject != nil {
		t.Fatal("blog post must not get a project satellite row")
	}
}

func TestContentCreate_MediaJoinFailure_RollsBack(t *testing.T) {
	db, mock := newSQLMockDB1(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager3{s: ownedSpace(), c: &fakeContentsRepo{replaceErr: errors.New("bad id")}}
	spaces := NewSpaceService(db, rm)
	s := NewContentService(db, rm, spaces)

	content := &models.Content{SpaceID: "space1", Title: "Folio", ContentType: models.ContentTypeProject, ImageIDs: []string{"missing"}}
	if _, err := s.Create(context.Background(), "u1", content, nil); err == nil {
		t.Fatal("expected error when media join insert fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestContentGet_ForeignSpace(t *testing.T) {
	db, _ := newSQLMockDB1(t)
	defer db.Close()

	rm := &fakeRepoManager3{
		s: &fakeSpacesRepo{getOut: &models.Space{ID: "space1", UserID: "someone-else"}},
		c: &fakeContentsRepo{getOut: &models.Content{ID: "c1", SpaceID: "space1"}},
	}
	spaces := NewSpaceService(db, rm)
	s := NewContentService(db, rm, spaces)

	if _, _, err := s.Get(context.Background(), "u1", "c1"); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("expected ErrorForbidden, got %v", err)
	}
}
