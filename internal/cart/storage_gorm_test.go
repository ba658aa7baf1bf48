package cart_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/avignatattva/storefront/internal/cart"
	"github.com/avignatattva/storefront/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder is a gorm logger keeping every statement it is shown
type sqlRecorder struct {
	mu   sync.Mutex
	stmt []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	r.stmt = append(r.stmt, sql)
	r.mu.Unlock()
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stmt) == 0 {
		t.Fatalf("no statement recorded")
	}
	return r.stmt[len(r.stmt)-1]
}

// dryRunStorage builds statements against the postgres dialect without a server
func dryRunStorage(t *testing.T) (*cart.GormStorage, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=5432 user=storefront dbname=storefront sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, Logger: rec})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return cart.NewGormStorage(db), rec
}

func TestGormStorage_SaveUpserts(t *testing.T) {
	storage, rec := dryRunStorage(t)
	items := []domain.CartItem{{ID: "7", CartItemID: "product_7_50_ml", Quantity: 2}}
	if err := storage.Save(context.Background(), "c1", items); err != nil {
		t.Fatalf("save: %v", err)
	}
	sql := rec.last(t)
	for _, want := range []string{
		`INSERT INTO "cart_snapshots"`,
		`ON CONFLICT ("id") DO UPDATE SET`,
		`"items"="excluded"."items"`,
		`"updated_at"="excluded"."updated_at"`,
		`product_7_50_ml`,
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("statement %s missing %s", sql, want)
		}
	}
	if strings.Contains(sql, `"created_at"="excluded"`) {
		t.Fatalf("upsert overwrites created_at: %s", sql)
	}
}

func TestGormStorage_PurgeSkipsKeptCarts(t *testing.T) {
	storage, rec := dryRunStorage(t)
	before := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	if _, err := storage.Purge(context.Background(), before, nil); err != nil {
		t.Fatalf("purge: %v", err)
	}
	sql := rec.last(t)
	if !strings.Contains(sql, `DELETE FROM "cart_snapshots"`) || !strings.Contains(sql, "updated_at <") || strings.Contains(sql, "NOT IN") {
		t.Fatalf("unexpected purge %s", sql)
	}

	if _, err := storage.Purge(context.Background(), before, []string{"c1", "c2"}); err != nil {
		t.Fatalf("purge: %v", err)
	}
	sql = rec.last(t)
	if !strings.Contains(sql, "id NOT IN ('c1','c2')") {
		t.Fatalf("kept ids not excluded: %s", sql)
	}
}

func TestGormStorage_DeleteByID(t *testing.T) {
	storage, rec := dryRunStorage(t)
	if err := storage.Delete(context.Background(), "c9"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if sql := rec.last(t); !strings.Contains(sql, `DELETE FROM "cart_snapshots" WHERE id = 'c9'`) {
		t.Fatalf("unexpected delete %s", sql)
	}
}
