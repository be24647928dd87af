package contents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dkravets/mediakeeper/internal/common"
	"github.com/dkravets/mediakeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_EncodesTagsAndNullCovers(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("c-1", now, now)
	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+content\s*\(space_id,\s*title,\s*description,\s*content_type,\s*status,\s*tags,\s*cover_image_id,\s*cover_video_id\)`).
		WithArgs("s-1", "My project", "", "project", "draft", []byte(`["woodwork"]`), nil, nil).
		WillReturnRows(rows)

	c := &models.Content{SpaceID: "s-1", Title: "My project", ContentType: "project", Status: "draft", Tags: []string{"woodwork"}}
	got, err := repo.Create(context.Background(), c)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "c-1" {
		t.Fatalf("unexpected content: %+v", got)
	}
}

func TestCreate_NilTagsEncodeAsEmptyList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("c-1", now, now)
	mock.ExpectQuery(`INSERT\s+INTO\s+content`).
		WithArgs("s-1", "t", "", "blogPost", "draft", []byte(`[]`), nil, nil).
		WillReturnRows(rows)

	_, err := repo.Create(context.Background(), &models.Content{SpaceID: "s-1", Title: "t", ContentType: "blogPost", Status: "draft"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+content`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Content{ID: "ghost", Title: "t", Status: "draft"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_LoadsMediaJoins(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	contentRows := sqlmock.NewRows([]string{
		"id", "space_id", "title", "description", "content_type", "status", "tags",
		"cover_image_id", "cover_video_id", "created_at", "updated_at",
	}).AddRow("c-1", "s-1", "My project", "", "project", "published", []byte(`["woodwork"]`), "img-9", "", now, now)
	mock.ExpectQuery(`SELECT\s+id,\s*space_id,\s*title,.*FROM\s+content\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("c-1").
		WillReturnRows(contentRows)

	mock.ExpectQuery(`SELECT\s+image_id\s+FROM\s+images_to_content\s+WHERE\s+content_id\s*=\s*\$1`).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"image_id"}).AddRow("img-1").AddRow("img-2"))
	mock.ExpectQuery(`SELECT\s+video_id\s+FROM\s+videos_to_content\s+WHERE\s+content_id\s*=\s*\$1`).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"video_id"}).AddRow("v-1"))

	got, err := repo.GetByID(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if len(got.ImageIDs) != 2 || len(got.VideoIDs) != 1 || got.Tags[0] != "woodwork" {
		t.Fatalf("unexpected content: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*space_id`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListBySpace_EmptyTypeReturnsAllTypes(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "space_id", "title", "description", "content_type", "status", "tags",
		"cover_image_id", "cover_video_id", "created_at", "updated_at",
	}).
		AddRow("c-1", "s-1", "My project", "", "project", "published", []byte(`[]`), "", "", now, now).
		AddRow("c-2", "s-1", "A recipe", "", "recipe", "draft", []byte(`[]`), "", "", now, now)
	mock.ExpectQuery(`(?s)SELECT.*FROM\s+content\s+WHERE\s+space_id\s*=\s*\$1\s+AND\s+\(\$2\s*=\s*''\s+OR\s+content_type\s*=\s*\$2\)`).
		WithArgs("s-1", "").
		WillReturnRows(rows)

	got, err := repo.ListBySpace(context.Background(), "s-1", "")
	if err != nil {
		t.Fatalf("ListBySpace error: %v", err)
	}
	if len(got) != 2 || got[0].ContentType != "project" || got[1].ContentType != "recipe" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestListBySpace_FiltersByType(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "space_id", "title", "description", "content_type", "status", "tags",
		"cover_image_id", "cover_video_id", "created_at", "updated_at",
	}).AddRow("c-1", "s-1", "My project", "", "project", "published", []byte(`[]`), "", "", now, now)
	mock.ExpectQuery(`(?s)SELECT.*FROM\s+content\s+WHERE\s+space_id\s*=\s*\$1\s+AND\s+\(\$2\s*=\s*''\s+OR\s+content_type\s*=\s*\$2\)`).
		WithArgs("s-1", "project").
		WillReturnRows(rows)

	got, err := repo.ListBySpace(context.Background(), "s-1", "project")
	if err != nil {
		t.Fatalf("ListBySpace error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c-1" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestUpsertProject(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+projects\s*\(content_id,\s*year,\s*featured,\s*details\).*ON\s+CONFLICT\s*\(content_id\)`).
		WithArgs("c-1", 2025, true, []byte(`{"client":"x"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := &models.Project{ContentID: "c-1", Year: 2025, Featured: true, Details: []byte(`{"client":"x"}`)}
	if err := repo.UpsertProject(context.Background(), p); err != nil {
		t.Fatalf("UpsertProject error: %v", err)
	}
}

func TestReplaceMedia_RewritesJoins(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+images_to_content\s+WHERE\s+content_id\s*=\s*\$1`).
		WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE\s+FROM\s+videos_to_content\s+WHERE\s+content_id\s*=\s*\$1`).
		WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT\s+INTO\s+images_to_content\s*\(image_id,\s*content_id\)`).
		WithArgs("img-1", "c-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT\s+INTO\s+videos_to_content\s*\(video_id,\s*content_id\)`).
		WithArgs("v-1", "c-1").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ReplaceMedia(context.Background(), "c-1", []string{"img-1"}, []string{"v-1"}); err != nil {
		t.Fatalf("ReplaceMedia error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
