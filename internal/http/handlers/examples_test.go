package handlers

import (
	"net/http"
	"strings"
	"testing"

	types "github.com/yungbote/adcopy-backend/internal/domain"
)

func TestSelectExamples(t *testing.T) {
	env := newTestEnv(t)
	pinned := env.seed(t, func(r *types.ReferenceExample) { r.IsPinned = true; r.CopyText = "고정된 예시" })
	env.seed(t, func(r *types.ReferenceExample) { r.PerformanceScore = 0.9; r.QualityRating = 4 })

	rec, body := env.do(t, http.MethodPost, "/api/examples/select", map[string]any{
		"intent": map[string]any{"category": "general", "keywords": []string{"copy"}},
		"limit":  2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	examples, _ := body["examples"].([]any)
	if len(examples) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(examples))
	}
	first, _ := examples[0].(map[string]any)
	if first["id"] != pinned.ID.String() {
		t.Fatalf("pinned example should lead: %v", first["id"])
	}
	if block, _ := body["prompt_block"].(string); !strings.Contains(block, "고정된 예시") {
		t.Fatalf("prompt block missing pinned copy: %q", block)
	}
	if body["degraded"] != false {
		t.Fatalf("unexpected degraded flag")
	}
}

func TestSelectExamplesDefaultsAndValidation(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/examples/select", map[string]any{"intent": map[string]any{}})
	if rec.Code != http.StatusOK || body["prompt_block"] != "" {
		t.Fatalf("empty store: status=%d body=%v", rec.Code, body)
	}

	for _, limit := range []int{0, -1, 11} {
		rec, body = env.do(t, http.MethodPost, "/api/examples/select", map[string]any{"limit": limit})
		if rec.Code != http.StatusBadRequest || errorCode(body) != "invalid_limit" {
			t.Fatalf("limit %d: status=%d code=%s", limit, rec.Code, errorCode(body))
		}
	}

	rec, body = env.do(t, http.MethodPost, "/api/examples/select", "{not json")
	if rec.Code != http.StatusBadRequest || errorCode(body) != "invalid_request" {
		t.Fatalf("bad json: status=%d code=%s", rec.Code, errorCode(body))
	}
}
