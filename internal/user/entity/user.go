package entity

import "time"

// Registration is the input for creating an account and its profile.
type Registration struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Department string `json:"department"`
	Role       string `json:"role" validate:"required"`
	// EntryDate is YYYY-MM-DD; required for students.
	EntryDate string `json:"entry_date" validate:"required_if=Role Student"`
}

// NewAccount is what the repository persists for a registration.
type NewAccount struct {
	Email        string
	PasswordHash string
	Role         string
	Name         string
	Department   string
	EntryDate    *time.Time
}

// LoginRecord joins an account with its role and active profile, if any.
type LoginRecord struct {
	AccountID    int64      `db:"user_id"`
	PasswordHash string     `db:"password_hash"`
	IsActive     bool       `db:"is_active"`
	RoleName     string     `db:"role_name"`
	StudentID    *int64     `db:"student_id"`
	EntryDate    *time.Time `db:"entry_date"`
	ProfessorID  *int64     `db:"professor_id"`
	Name         *string    `db:"name"`
}

// PasswordChange is the input for rotating a password.
type PasswordChange struct {
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}
