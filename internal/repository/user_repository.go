package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/stylish/clothing-store/internal/model"
	"github.com/stylish/clothing-store/internal/utils"
)

// UserRepo encapsulates all database access for the users table. Both
// uniqueness rules (username, email) are checked with explicit lookups
// before the insert so that the conflict error can name the field; the
// UNIQUE constraints in the schema remain as a backstop.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create registers a new user and returns the stored record. The raw
// password is hashed with bcrypt and discarded; only the hash is kept.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, address *string, cost int) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if taken, err := r.exists(ctx, "username", username, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameExists
	}
	if taken, err := r.exists(ctx, "email", email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailExists
	}

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, address) VALUES (?,?,?,?)",
		username, email, hash, address)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// exists reports whether another user already holds the given value in
// the given column. excludeID lets updates skip the user's own row.
func (r *UserRepo) exists(ctx context.Context, column, value string, excludeID uint64) (bool, error) {
	q := "SELECT COUNT(*) FROM users WHERE " + column + " = ? AND id <> ?"
	var n int
	if err := r.DB.QueryRowContext(ctx, q, value, excludeID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByID fetches a user by id. The password hash column is selected
// because callers inside this package need it for verification; the
// model hides it from every JSON rendering.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = "SELECT id, username, email, password_hash, address, created_at FROM users WHERE id = ?"
	var u model.User
	err := r.DB.QueryRowContext(ctx, q, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Address, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername fetches a user for the login path.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = "SELECT id, username, email, password_hash, address, created_at FROM users WHERE username = ?"
	var u model.User
	err := r.DB.QueryRowContext(ctx, q, strings.TrimSpace(username)).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Address, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	const q = "SELECT id, username, email, password_hash, address, created_at FROM users ORDER BY id"
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u := new(model.User)
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Address, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UserPatch lists the fields a caller may change on a user. Nil means
// "leave untouched". This is the whole allow-list; any other key in the
// request body is ignored before it reaches the repository.
type UserPatch struct {
	Username *string
	Email    *string
	Address  *string
	Password *string
}

// Update applies a patch to a user. Username and email changes re-run
// the uniqueness checks (excluding the user's own row); a password
// change replaces the stored hash and revokes every live session for
// the user, forcing a fresh login with the new password.
func (r *UserRepo) Update(ctx context.Context, id uint64, p UserPatch, cost int) (*model.User, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}

	set := []string{}
	args := []any{}
	if p.Username != nil {
		name := strings.TrimSpace(*p.Username)
		if taken, err := r.exists(ctx, "username", name, id); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrUsernameExists
		}
		set = append(set, "username = ?")
		args = append(args, name)
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if taken, err := r.exists(ctx, "email", email, id); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrEmailExists
		}
		set = append(set, "email = ?")
		args = append(args, email)
	}
	if p.Address != nil {
		set = append(set, "address = ?")
		args = append(args, *p.Address)
	}
	if p.Password != nil {
		hash, err := utils.HashPassword(*p.Password, cost)
		if err != nil {
			return nil, err
		}
		set = append(set, "password_hash = ?")
		args = append(args, hash)
	}
	if len(set) > 0 {
		args = append(args, id)
		q := "UPDATE users SET " + strings.Join(set, ", ") + " WHERE id = ?"
		if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	if p.Password != nil {
		if err := (&SessionRepo{DB: r.DB}).RevokeAllForUser(ctx, id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a user together with everything the user owns: the
// taggings of their products, the products themselves, their orders and
// their sessions. The whole cascade runs in one transaction so that a
// mid-cascade failure leaves no partial state.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var exists int
	if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ?", id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		err = ErrUserNotFound
		return err
	}
	// Children before parents.
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM product_categories WHERE product_id IN (SELECT id FROM products WHERE user_id = ?)", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM products WHERE user_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM orders WHERE user_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	return err
}
