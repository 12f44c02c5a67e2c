package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-academics/internal/auth"
	"github.com/ovaphlow/pitchfork/service-academics/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-academics/pkg/database"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrRoleNotFound   = errors.New("role not found")
	ErrNoProfile      = errors.New("no profile table for role")
)

// UserRepo provides data access for accounts and their profiles using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Register inserts the account and exactly one profile row in one transaction.
// Nothing is written unless every statement succeeds.
func (r *UserRepo) Register(ctx context.Context, a entity.NewAccount) (int64, error) {
	var id int64
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var roleID int64
		if err := tx.GetContext(ctx, &roleID, `SELECT role_id FROM roles WHERE role_name = $1`, a.Role); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoleNotFound
			}
			return err
		}

		const insertUser = `INSERT INTO users (email, password_hash, role_id) VALUES ($1, $2, $3) RETURNING user_id`
		if err := tx.GetContext(ctx, &id, insertUser, a.Email, a.PasswordHash, roleID); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrDuplicateEmail
			}
			return err
		}

		switch a.Role {
		case auth.RoleStudent:
			const q = `INSERT INTO students (user_id, name, department, entry_date) VALUES ($1, $2, $3, $4)`
			_, err := tx.ExecContext(ctx, q, id, a.Name, a.Department, a.EntryDate)
			return err
		case auth.RoleProfessor:
			const q = `INSERT INTO professors (user_id, name, department) VALUES ($1, $2, $3)`
			_, err := tx.ExecContext(ctx, q, id, a.Name, a.Department)
			return err
		default:
			return ErrNoProfile
		}
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetLoginByEmail returns the login projection or sql.ErrNoRows.
// Inactive profiles are joined away, so at most one profile id is set.
func (r *UserRepo) GetLoginByEmail(ctx context.Context, email string) (*entity.LoginRecord, error) {
	const q = `SELECT
		u.user_id, u.password_hash, u.is_active,
		r.role_name,
		s.student_id, s.entry_date,
		p.professor_id,
		COALESCE(s.name, p.name) AS name
	FROM users u
	JOIN roles r ON u.role_id = r.role_id
	LEFT JOIN students s ON u.user_id = s.user_id AND s.is_active = TRUE
	LEFT JOIN professors p ON u.user_id = p.user_id AND p.is_active = TRUE
	WHERE u.email = $1`
	var rec entity.LoginRecord
	if err := r.db.GetContext(ctx, &rec, q, email); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetPasswordHash returns the stored hash or sql.ErrNoRows.
func (r *UserRepo) GetPasswordHash(ctx context.Context, id int64) (string, error) {
	var hash string
	if err := r.db.GetContext(ctx, &hash, `SELECT password_hash FROM users WHERE user_id = $1`, id); err != nil {
		return "", err
	}
	return hash, nil
}

// UpdatePassword overwrites the stored hash. Returns sql.ErrNoRows when id is gone.
func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, q, id, hash)
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
