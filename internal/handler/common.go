// Package handler defines the HTTP handlers. Each handler struct bundles the
// repositories it needs; role checks beyond coarse route guards happen here.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Znarfieeee/Numsthrift/internal/model"
)

// getUserID extracts the user_id placed in the context by the JWT middleware
// and converts it to uint64. JWT numeric claims decode as float64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole reads the role claim from the context. Missing or malformed values
// degrade to buyer, the least privileged role.
func getRole(c echo.Context) model.Role {
	if s, ok := c.Get("role").(string); ok {
		return model.ParseRole(s)
	}
	return model.RoleBuyer
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// profileTTL bounds how stale a cached profile may be. Writes through the
// profile endpoints drop the key, so the TTL only matters for out-of-band
// changes such as an admin role edit seen from another instance.
const profileTTL = 10 * time.Minute

func profileCacheKey(id uint64) string {
	return "numsthrift:profile:" + strconv.FormatUint(id, 10)
}

// cachedProfile returns the cached profile for id, or ok=false on any miss
// or Redis error. Callers always fall back to the database.
func cachedProfile(ctx context.Context, rdb *redis.Client, id uint64) (model.User, bool) {
	var u model.User
	if rdb == nil {
		return u, false
	}
	bs, err := rdb.Get(ctx, profileCacheKey(id)).Bytes()
	if err != nil {
		return u, false
	}
	if err := json.Unmarshal(bs, &u); err != nil {
		return u, false
	}
	return u, true
}

// cacheProfile stores the profile best-effort.
func cacheProfile(ctx context.Context, rdb *redis.Client, u model.User) {
	if rdb == nil {
		return
	}
	if bs, err := json.Marshal(u); err == nil {
		_ = rdb.Set(ctx, profileCacheKey(u.ID), bs, profileTTL).Err()
	}
}

// dropProfile invalidates the cached profile after a write.
func dropProfile(ctx context.Context, rdb *redis.Client, id uint64) {
	if rdb == nil {
		return
	}
	_ = rdb.Del(ctx, profileCacheKey(id)).Err()
}
