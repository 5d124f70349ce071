package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/logit-team/logit/internal/common"
	"github.com/logit-team/logit/internal/dbx"
	"github.com/logit-team/logit/internal/server/models"
	categoriesrepo "github.com/logit-team/logit/internal/server/repositories/categories"
)

// racingCategoriesRepo simulates losing the insert race: the first Get misses,
// Create reports a duplicate, the re-read finds the winner's row.
type racingCategoriesRepo struct {
	fakeCategoriesRepo
	winner *models.Category
}

func (f *racingCategoriesRepo) GetByOwnerAndName(ctx context.Context, ownerID, name string) (*models.Category, error) {
	f.gets++
	if f.gets == 1 {
		return nil, common.ErrorNotFound
	}
	return f.winner, nil
}

func (f *racingCategoriesRepo) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	f.creates++
	return nil, common.ErrorAlreadyExists
}

func TestResolveCategory_Existing(t *testing.T) {
	repo := &fakeCategoriesRepo{
		existing: map[string]*models.Category{
			"backend": {ID: "cat-1", OwnerID: "owner-1", Name: "backend"},
		},
	}

	cat, err := resolveCategory(context.Background(), repo, "owner-1", "backend")
	if err != nil {
		t.Fatalf("resolveCategory error: %v", err)
	}
	if cat.ID != "cat-1" {
		t.Fatalf("unexpected category: %+v", cat)
	}
	if repo.creates != 0 {
		t.Fatalf("no creation expected, got %d", repo.creates)
	}
}

func TestResolveCategory_CreatesOnMiss(t *testing.T) {
	repo := &fakeCategoriesRepo{}

	cat, err := resolveCategory(context.Background(), repo, "owner-1", "backend")
	if err != nil {
		t.Fatalf("resolveCategory error: %v", err)
	}
	if cat.ID == "" || cat.Name != "backend" || cat.OwnerID != "owner-1" {
		t.Fatalf("unexpected category: %+v", cat)
	}
	if repo.creates != 1 {
		t.Fatalf("expected 1 creation, got %d", repo.creates)
	}
}

func TestResolveCategory_LostRaceRereadsWinner(t *testing.T) {
	repo := &racingCategoriesRepo{
		winner: &models.Category{ID: "cat-winner", OwnerID: "owner-1", Name: "backend"},
	}

	cat, err := resolveCategory(context.Background(), repo, "owner-1", "backend")
	if err != nil {
		t.Fatalf("resolveCategory error: %v", err)
	}
	if cat.ID != "cat-winner" {
		t.Fatalf("expected winner's row, got %+v", cat)
	}
	if repo.creates != 1 || repo.gets != 2 {
		t.Fatalf("unexpected call counts: gets=%d creates=%d", repo.gets, repo.creates)
	}
}

// Exercises the lost race against the real PostgreSQL repository bound to a
// transaction handle: the losing insert must not abort the transaction, and
// the re-read on the same handle must return the winner's row.
func TestResolveCategory_LostRaceInsideTransaction(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	getQuery := `SELECT\s+id,\s*user_id,\s*name,\s*created_at\s+FROM\s+categories\s+WHERE\s+user_id`
	insertQuery := `INSERT\s+INTO\s+categories\s+.*ON\s+CONFLICT\s*\(user_id,\s*name\)\s*DO\s+NOTHING`

	mock.ExpectBegin()
	mock.ExpectQuery(getQuery).
		WithArgs("owner-1", "backend").
		WillReturnError(sql.ErrNoRows)
	// another session committed the same (owner, name) in between
	mock.ExpectQuery(insertQuery).
		WithArgs(sqlmock.AnyArg(), "owner-1", "backend").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(getQuery).
		WithArgs("owner-1", "backend").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "created_at"}).
			AddRow("cat-winner", "owner-1", "backend", time.Now()))
	mock.ExpectCommit()

	err := dbx.WithTx(context.Background(), db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := categoriesrepo.NewPostgresRepository(tx)

		cat, err := resolveCategory(ctx, repo, "owner-1", "backend")
		if err != nil {
			return err
		}
		if cat.ID != "cat-winner" {
			t.Fatalf("expected winner's row, got %+v", cat)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction must survive the lost race: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestResolveCategory_CreateError(t *testing.T) {
	repo := &fakeCategoriesRepo{createErr: errBoom{}}

	_, err := resolveCategory(context.Background(), repo, "owner-1", "backend")
	if err == nil || errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want create error, got %v", err)
	}
}

func TestCategoryService_List(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeCategoriesRepo{
		listOut: []*models.Category{
			{ID: "cat-1", Name: "backend"},
			{ID: "cat-2", Name: "frontend"},
		},
	}
	s := NewCategoryService(db, &fakeRepoManager{cat: repo})

	out, err := s.List(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(out) != 2 || out[0].Name != "backend" {
		t.Fatalf("unexpected categories: %+v", out)
	}
}

func TestCategoryService_FindOrCreate(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeCategoriesRepo{}
	s := NewCategoryService(db, &fakeRepoManager{cat: repo})

	cat, err := s.FindOrCreate(context.Background(), "owner-1", "backend")
	if err != nil {
		t.Fatalf("FindOrCreate error: %v", err)
	}
	if cat.Name != "backend" || repo.creates != 1 {
		t.Fatalf("unexpected result: %+v creates=%d", cat, repo.creates)
	}
}
