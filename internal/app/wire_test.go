package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/adcopy-backend/internal/data/repos/testutil"
	apphttp "github.com/yungbote/adcopy-backend/internal/http"
	"github.com/yungbote/adcopy-backend/internal/observability"
)

func TestWiredRouterServesSelectionAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := testutil.Logger(t)
	db := testutil.DB(t)
	cfg := LoadConfig(log)
	table, err := loadTable("")
	if err != nil {
		t.Fatalf("loadTable: %v", err)
	}
	guard, closer := wireIdempotencyGuard(log, Config{})
	if closer != nil {
		t.Fatalf("no closer expected without redis")
	}
	svc := wireServices(db, log, cfg, table, guard)
	testutil.SeedReference(t, context.Background(), db)

	metrics := observability.NewMetrics()
	srv := apphttp.NewServer(wireRouterConfig(log, cfg, svc, metrics))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/examples/select", strings.NewReader(`{"intent":{"category":"general"},"limit":2}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("select status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "adcopy_example_selections_total") {
		t.Fatalf("metrics output missing selection counter:\n%s", rec.Body.String())
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	if _, err := loadTable("/nonexistent/platforms.yaml"); err == nil {
		t.Fatalf("expected error for missing table file")
	}
}
