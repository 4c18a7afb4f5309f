package repository

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/testutil"
)

func TestBootstrapIsIdempotent(t *testing.T) {
	db := testutil.SetupTestMySQL(t)
	users := NewUserRepo(db)
	ctx := context.Background()

	id, err := users.Create(ctx, "Early@Example.com", "password123", "Early Bird", model.RoleBuyer, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// the insert loses against the existing row; the canonical profile wins,
	// claim-provided name and role included
	u, err := users.Bootstrap(ctx, id, "early@example.com", "", model.RoleSeller)
	if err != nil {
		t.Fatalf("bootstrap over existing row: %v", err)
	}
	if u.ID != id || u.FullName != "Early Bird" || u.Role != model.RoleBuyer {
		t.Fatalf("bootstrap must return the canonical row, got %+v", u)
	}

	// a session for an identity with no profile row creates one from claims
	fresh := id + 100
	u, err = users.Bootstrap(ctx, fresh, "late@example.com", "", model.RoleSeller)
	if err != nil {
		t.Fatalf("bootstrap fresh identity: %v", err)
	}
	if u.ID != fresh || u.Email != "late@example.com" || u.Role != model.RoleSeller {
		t.Fatalf("fresh bootstrap row wrong: %+v", u)
	}
	if u.FullName != "late" {
		t.Fatalf("full name should fall back to the mailbox name, got %q", u.FullName)
	}

	again, err := users.Bootstrap(ctx, fresh, "late@example.com", "", model.RoleSeller)
	if err != nil {
		t.Fatalf("second bootstrap of same identity: %v", err)
	}
	if again.ID != u.ID || again.Email != u.Email || again.CreatedAt != u.CreatedAt {
		t.Fatalf("repeat bootstrap must not touch the row: %+v vs %+v", again, u)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE id=?", fresh).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("exactly one profile row expected, got %d", count)
	}
}
