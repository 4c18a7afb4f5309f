package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Znarfieeee/Numsthrift/internal/config"
	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/repository"
	"github.com/Znarfieeee/Numsthrift/internal/utils"
)

// TestLogoutClearsProfileCacheBeforeRevocation signs out against a dead
// database: revocation cannot succeed, yet the cached profile must already
// be gone, so no later request serves a logged-out identity from cache.
func TestLogoutClearsProfileCacheBeforeRevocation(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	// nothing listens on port 1; every query against this handle fails
	db, err := sql.Open("mysql", "test@tcp(127.0.0.1:1)/numsthrift")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	defer db.Close()

	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 5}
	h := NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db), rdb)

	const uid = 42
	if err := mr.Set(profileCacheKey(uid), `{"id":42,"email":"a@b.c"}`); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	access, err := utils.NewAccessToken(cfg.JWTSecret, uid, "a@b.c", model.RoleBuyer, cfg.AccessTTLMin)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+access.Token)
	rec := httptest.NewRecorder()
	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("logout returned error: %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("revocation against a dead db should fail with 500, got %d", rec.Code)
	}
	if mr.Exists(profileCacheKey(uid)) {
		t.Fatal("cached profile must be dropped even when revocation fails")
	}
}
