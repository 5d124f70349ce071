package commits

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/logit-team/logit/internal/common"
	"github.com/logit-team/logit/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const latestQuery = `(?s)^SELECT\s+MAX\(date\)\s+FROM\s+commits\s+WHERE\s+owner_name\s*=\s*\$1\s+AND\s+repo_name\s*=\s*\$2\s+AND\s+branch\s*=\s*\$3\s*$`

func TestLatestCommitDate_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"max"}).AddRow(want)
	mock.ExpectQuery(latestQuery).WithArgs("alice", "demo", "main").WillReturnRows(rows)

	got, err := repo.LatestCommitDate(context.Background(), "alice", "demo", "main")
	if err != nil {
		t.Fatalf("LatestCommitDate error: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestLatestCommitDate_NothingIngested(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"max"}).AddRow(nil)
	mock.ExpectQuery(latestQuery).WithArgs("alice", "demo", "main").WillReturnRows(rows)

	got, err := repo.LatestCommitDate(context.Background(), "alice", "demo", "main")
	if err != nil {
		t.Fatalf("LatestCommitDate error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("want zero time, got %v", got)
	}
}

func TestInsertBatch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `INSERT INTO commits .* ON CONFLICT \(id\) DO NOTHING;`
	date := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(q).
		WithArgs("sha1", "alice", "demo", "main", "first", "", date).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).
		WithArgs("sha2", "alice", "demo", "main", "second", "", date).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.InsertBatch(context.Background(), []*models.Commit{
		{ID: "sha1", OwnerName: "alice", RepoName: "demo", Branch: "main", Message: "first", Date: date},
		{ID: "sha2", OwnerName: "alice", RepoName: "demo", Branch: "main", Message: "second", Date: date},
	})
	if err != nil {
		t.Fatalf("InsertBatch error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+commits\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestSaveStats_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+commits\s+SET\s+stats\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("ghost", "1 additions, 0 deletions (total: 1)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveStats(context.Background(), "ghost", "1 additions, 0 deletions (total: 1)")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListFiles(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*commit_id,\s*filename,\s*additions,\s*deletions,\s*patch\s+FROM\s+commit_files\s+WHERE\s+commit_id\s*=\s*\$1\s+ORDER\s+BY\s+id\s*$`
	rows := sqlmock.NewRows([]string{"id", "commit_id", "filename", "additions", "deletions", "patch"}).
		AddRow(int64(1), "sha1", "a.go", int64(5), int64(2), "@@ -1 +1 @@")
	mock.ExpectQuery(q).WithArgs("sha1").WillReturnRows(rows)

	got, err := repo.ListFiles(context.Background(), "sha1")
	if err != nil {
		t.Fatalf("ListFiles error: %v", err)
	}
	if len(got) != 1 || got[0].Filename != "a.go" || got[0].Additions != 5 {
		t.Fatalf("unexpected files: %+v", got)
	}
}
