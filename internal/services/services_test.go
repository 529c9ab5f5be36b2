package services

import (
	"context"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/adcopy-backend/internal/data/repos"
	"github.com/yungbote/adcopy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/adcopy-backend/internal/domain"
	"github.com/yungbote/adcopy-backend/internal/platform/dbctx"
)

type testDeps struct {
	ctx  context.Context
	db   *gorm.DB
	repo repos.Set
}

func newTestDeps(t *testing.T) testDeps {
	t.Helper()
	db := testutil.DB(t)
	return testDeps{
		ctx:  context.Background(),
		db:   db,
		repo: repos.NewSet(db, testutil.Logger(t)),
	}
}

func (d testDeps) seed(t *testing.T, mutate ...func(*types.ReferenceExample)) *types.ReferenceExample {
	t.Helper()
	return testutil.SeedReference(t, d.ctx, d.db, mutate...)
}

func (d testDeps) reload(t *testing.T, ex *types.ReferenceExample) *types.ReferenceExample {
	t.Helper()
	return testutil.Reload(t, d.ctx, d.db, ex.ID)
}

// closeDB makes every later store call fail.
func (d testDeps) closeDB(t *testing.T) {
	t.Helper()
	sqlDB, err := d.db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

type fakeGuard struct {
	mu       sync.Mutex
	keys     map[string]bool
	released []string
}

func newFakeGuard() *fakeGuard { return &fakeGuard{keys: map[string]bool{}} }

func (g *fakeGuard) Claim(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.keys[key] {
		return false, nil
	}
	g.keys[key] = true
	return true, nil
}

func (g *fakeGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
	g.released = append(g.released, key)
	return nil
}

func dbcOf(d testDeps) dbctx.Context { return dbctx.Context{Ctx: d.ctx} }
