package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/utils"
)

const userColumns = "id,email,password_hash,full_name,role,phone,address,is_active,created_at,updated_at"

// UserRepo persists marketplace profiles. One row exists per authenticated
// identity; registration creates it and Bootstrap re-creates it lazily when
// a session arrives without one.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, fullName string, role model.Role, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, full_name, role) VALUES (?,?,?,?)",
		email, hash, fullName, string(role))
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Bootstrap inserts a profile row for a known identity, falling back to a
// re-fetch when the insert loses a race against another session of the same
// brand-new user. Either way the caller receives the canonical row, which
// makes bootstrap idempotent.
func (r *UserRepo) Bootstrap(ctx context.Context, id uint64, email, fullName string, role model.Role) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" {
		// metadata-free identities fall back to the mailbox name
		if at := strings.IndexByte(email, '@'); at > 0 {
			fullName = email[:at]
		}
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, full_name, role) VALUES (?,?,'',?,?)",
		id, email, fullName, string(role))
	if err != nil && !isDuplicate(err) {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepo) scanRow(row *sql.Row) (model.User, error) {
	var (
		u     model.User
		role  string
		phone sql.NullString
		addr  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &role,
		&phone, &addr, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.ParseRole(role)
	if phone.Valid {
		p := phone.String
		u.Phone = &p
	}
	if addr.Valid {
		a := addr.String
		u.Address = &a
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanRow(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanRow(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// ProfilePatch is a partial update of the caller's own profile. Nil fields
// are left untouched.
type ProfilePatch struct {
	FullName *string
	Phone    *string
	Address  *string
}

// UpdateProfile applies a partial update to the user's row and returns the
// refreshed record.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, p ProfilePatch) (model.User, error) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if p.FullName != nil {
		sets = append(sets, "full_name=?")
		args = append(args, *p.FullName)
	}
	if p.Phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, *p.Phone)
	}
	if p.Address != nil {
		sets = append(sets, "address=?")
		args = append(args, *p.Address)
	}
	if len(sets) > 0 {
		args = append(args, id)
		q := "UPDATE users SET " + strings.Join(sets, ",") + ", updated_at=NOW() WHERE id=?"
		if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
			return model.User{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// UpdateRole sets a user's role. Only admins reach this path; the handler
// enforces that.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role model.Role) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=NOW() WHERE id=?", string(role), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", hash, id)
	return err
}

// List returns all users, newest first. Admin dashboard only.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var (
			u     model.User
			role  string
			phone sql.NullString
			addr  sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &role,
			&phone, &addr, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Role = model.ParseRole(role)
		if phone.Valid {
			p := phone.String
			u.Phone = &p
		}
		if addr.Valid {
			a := addr.String
			u.Address = &a
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountByRole returns the number of users holding each role.
func (r *UserRepo) CountByRole(ctx context.Context) (map[model.Role]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT role, COUNT(*) FROM users GROUP BY role")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[model.Role]int)
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		counts[model.ParseRole(role)] += n
	}
	return counts, rows.Err()
}
