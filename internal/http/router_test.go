package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-repair-backend/internal/config"
	"github.com/tbourn/go-repair-backend/internal/domain"
	"github.com/tbourn/go-repair-backend/internal/http/middleware"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:routerdb?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// schema so handlers don't explode on list endpoints
	if err := db.AutoMigrate(&domain.Repair{}, &domain.Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func baseConfig() config.Config {
	return config.Config{
		RateRPS:   100,
		RateBurst: 10,
		CORS:      config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:  config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:      config.OTELConfig{ServiceName: "test-svc"},
	}
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	db := newTestDB(t)
	RegisterRoutes(r, db, baseConfig())

	// /health works
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || len(w.Body.Bytes()) == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := baseConfig()
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	db := newTestDB(t)
	RegisterRoutes(r, db, cfg)

	// Any request runs through CORS middleware; header should reflect origin.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func TestRegisterRoutes_RepairEndpointsMounted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	db := newTestDB(t)
	RegisterRoutes(r, db, baseConfig())

	// Create, then walk the record through the rest of the surface.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/management/repair", bytes.NewBufferString(`{"machine_id":"MC-7"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /management/repair = %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		OK     bool          `json:"ok"`
		Repair domain.Repair `json:"repair"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !created.OK || created.Repair.RepairID == "" || created.Repair.RepairStatus != domain.StatusActive {
		t.Fatalf("unexpected create response: %s", w.Body.String())
	}
	id := created.Repair.RepairID

	// GET list (gzip is on the chain; plain request should still decode)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/management/repair", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /management/repair = %d", w.Code)
	}

	// PATCH status through the validated path
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/management/repair/"+id+"/status", bytes.NewBufferString(`{"status":"postponed"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d body=%s", w.Code, w.Body.String())
	}

	// DELETE, then repeat delete is 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/management/repair/"+id, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE = %d body=%s", w.Code, w.Body.String())
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/management/repair/"+id, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("repeat DELETE = %d", w.Code)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

// Smoke test that a request traverses idempotency + ratelimit + otel + security headers pipeline.
func TestPipeline_Smoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := baseConfig()
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour} // enabled (but only set on https)
	db := newTestDB(t)
	RegisterRoutes(r, db, cfg)

	// Any request goes through the middleware stack
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	// simulate https so HSTS could be eligible if middleware checks scheme
	req.URL.Scheme = "https"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("pipeline GET /health = %d", w.Code)
	}
	// RequestID header should be present (from RequestID middleware)
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

func Test_repairRepoShim_Proxies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	shim := repairRepoShim{}
	ctx := context.Background()

	mid := "MC-1"
	created, err := shim.CreateRepair(ctx, db, nil, &mid, domain.StatusActive)
	if err != nil {
		t.Fatalf("CreateRepair: %v", err)
	}
	if created == nil || created.RepairID == "" || created.MachineID == nil || *created.MachineID != "MC-1" {
		t.Fatalf("CreateRepair returned bad repair: %+v", created)
	}

	all, err := shim.ListRepairs(ctx, db)
	if err != nil {
		t.Fatalf("ListRepairs: %v", err)
	}
	if len(all) < 1 {
		t.Fatalf("ListRepairs expected >=1, got %d", len(all))
	}

	got, err := shim.GetRepair(ctx, db, created.RepairID)
	if err != nil {
		t.Fatalf("GetRepair: %v", err)
	}
	if got.RepairID != created.RepairID {
		t.Fatalf("GetRepair mismatch: got=%+v want id=%s", got, created.RepairID)
	}

	updated, err := shim.UpdateRepairStatus(ctx, db, created.RepairID, domain.StatusCancelled)
	if err != nil {
		t.Fatalf("UpdateRepairStatus: %v", err)
	}
	if updated.RepairStatus != domain.StatusCancelled {
		t.Fatalf("UpdateRepairStatus failed, status=%q", updated.RepairStatus)
	}

	if err := shim.DeleteRepair(ctx, db, created.RepairID); err != nil {
		t.Fatalf("DeleteRepair: %v", err)
	}
}

func TestRegisterRoutes_IdempotencyCallback_MissAndHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	db := newTestDB(t)
	RegisterRoutes(r, db, baseConfig())

	const userID = "u1"
	const key = "key-hit"
	const repairID = "r-1"

	// --- MISS: record does not exist (executes 'rec == nil' branch) ---
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/management/repair/"+repairID+"/status", bytes.NewBufferString(`{"status":"active"}`))
	req.Header.Set("X-User-ID", userID)
	req.Header.Set(middleware.HeaderIdempotencyKey, key)
	r.ServeHTTP(w, req)
	// 404 expected for a missing repair; middleware ran.

	// --- seed an idempotency record so the callback returns non-nil ---
	seed := &domain.Idempotency{
		ID:       "idem-seed-1",
		UserID:   userID,
		RepairID: repairID,
		Key:      key,
		Status:   1,
		// ensure it's considered valid "now"
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("seed idempotency: %v", err)
	}

	// --- HIT: record exists (executes 'return true, nil' branch) ---
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/management/repair/"+repairID+"/status", bytes.NewBufferString(`{"status":"active"}`))
	req.Header.Set("X-User-ID", userID)
	req.Header.Set(middleware.HeaderIdempotencyKey, key)
	r.ServeHTTP(w, req)
	// goal is to drive the middleware branch; status depends on replay policy.
}

func TestRegisterRoutes_IdempotencyStoreAndReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	db := newTestDB(t)
	RegisterRoutes(r, db, baseConfig())

	const userID = "u-idem"

	// Create a record to mutate (no key on the create).
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/management/repair", bytes.NewBufferString(`{"machine_id":"MC-9"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /management/repair = %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		Repair domain.Repair `json:"repair"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("json: %v", err)
	}
	id := created.Repair.RepairID

	// A keyed transition persists the (user, repair, key) tuple on success.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/management/repair/"+id+"/status", bytes.NewBufferString(`{"status":"postponed"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)
	req.Header.Set(middleware.HeaderIdempotencyKey, "tr-key-1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("keyed PATCH = %d body=%s", w.Code, w.Body.String())
	}
	var stored domain.Idempotency
	err := db.Where("user_id = ? AND repair_id = ? AND key = ?", userID, id, "tr-key-1").First(&stored).Error
	if err != nil {
		t.Fatalf("transition did not persist idempotency record: %v", err)
	}
	if stored.Status != http.StatusOK || !stored.ExpiresAt.After(time.Now()) {
		t.Fatalf("bad stored record: %+v", stored)
	}

	// Retrying the same transition is flagged as a replay but still executes,
	// so the response stays 200.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/management/repair/"+id+"/status", bytes.NewBufferString(`{"status":"postponed"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)
	req.Header.Set(middleware.HeaderIdempotencyKey, "tr-key-1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("replayed PATCH = %d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("expected Idempotency-Replayed header on retried transition")
	}

	// A keyed delete persists its tuple too.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/management/repair/"+id, nil)
	req.Header.Set("X-User-ID", userID)
	req.Header.Set(middleware.HeaderIdempotencyKey, "del-key-1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("keyed DELETE = %d body=%s", w.Code, w.Body.String())
	}
	var delStored domain.Idempotency
	err = db.Where("user_id = ? AND repair_id = ? AND key = ?", userID, id, "del-key-1").First(&delStored).Error
	if err != nil {
		t.Fatalf("delete did not persist idempotency record: %v", err)
	}

	// Retrying the keyed delete replays the prior success instead of hitting
	// the terminal 404.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/management/repair/"+id, nil)
	req.Header.Set("X-User-ID", userID)
	req.Header.Set(middleware.HeaderIdempotencyKey, "del-key-1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("replayed DELETE = %d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("expected Idempotency-Replayed header on retried delete")
	}

	// A keyless repeat still sees the terminal 404.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/management/repair/"+id, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("keyless repeat DELETE = %d", w.Code)
	}
}

func TestRegisterRoutes_IdempotencyCallback_ErrorBranch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Make a fresh in-memory DB and migrate normally.
	db, err := gorm.Open(sqlite.Open("file:routerdb_err?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Repair{}, &domain.Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	// Wire routes first...
	RegisterRoutes(r, db, baseConfig())

	// ...then force queries to fail by closing the underlying connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	_ = sqlDB.Close()

	// Now any repo.GetIdempotency call should error → drives (err != nil) branch.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/health", bytes.NewBufferString("{}"))
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set(middleware.HeaderIdempotencyKey, "force-error")
	r.ServeHTTP(w, req)

	// 405 is expected for POST /health; goal is to exercise the middleware branch.
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
