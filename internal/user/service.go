package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/ovaphlow/pitchfork/service-academics/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-academics/internal/auth"
	"github.com/ovaphlow/pitchfork/service-academics/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-academics/internal/user/repo"
)

const (
	entryDateLayout   = "2006-01-02"
	minPasswordLength = 6
	// bcrypt rejects longer inputs
	maxPasswordBytes = 72
)

// Repository is the slice of the record store the identity flows need.
type Repository interface {
	Register(ctx context.Context, a entity.NewAccount) (int64, error)
	GetLoginByEmail(ctx context.Context, email string) (*entity.LoginRecord, error)
	GetPasswordHash(ctx context.Context, id int64) (string, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(id auth.Identity, ttl time.Duration) (string, time.Time, error)
}

// Service orchestrates registration, login and password rotation.
type Service struct {
	repo     Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	validate *validator.Validate
	TokenTTL time.Duration
}

func NewService(r Repository, hasher PasswordHasher, tokens TokenIssuer, ttl time.Duration) *Service {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 10}
	}
	if ttl <= 0 {
		ttl = 3 * time.Hour
	}
	return &Service{repo: r, hasher: hasher, tokens: tokens, validate: validator.New(), TokenTTL: ttl}
}

// LoginResult is the session handed back on a successful login.
type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      auth.Identity `json:"user"`
}

// invalidCredentials is shared by unknown-email and wrong-password failures
// so the two cannot be told apart.
func invalidCredentials() error {
	return apperr.New(apperr.KindInvalidCredentials, "Invalid credentials")
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// Register creates an account and its role profile atomically.
func (s *Service) Register(ctx context.Context, in entity.Registration) (int64, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.TrimSpace(in.Role)
	in.Department = strings.TrimSpace(in.Department)
	in.EntryDate = strings.TrimSpace(in.EntryDate)

	if err := s.validate.Struct(in); err != nil {
		return 0, registrationValidationError(err)
	}
	if len(in.Password) > maxPasswordBytes {
		return 0, apperr.Validation("Password must be at most 72 bytes.")
	}
	if in.Role != auth.RoleStudent && in.Role != auth.RoleProfessor {
		return 0, apperr.New(apperr.KindInvalidRole, "Invalid role specified.")
	}

	acct := entity.NewAccount{
		Email:      in.Email,
		Role:       in.Role,
		Name:       in.Name,
		Department: in.Department,
	}
	if in.Role == auth.RoleStudent {
		d, err := time.Parse(entryDateLayout, in.EntryDate)
		if err != nil {
			return 0, apperr.Validation("Please provide a valid entry_date (YYYY-MM-DD) for students.")
		}
		acct.EntryDate = &d
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, apperr.Store(fmt.Errorf("hash password: %w", err))
	}
	acct.PasswordHash = hash

	id, err := s.repo.Register(ctx, acct)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, userrepo.ErrDuplicateEmail):
		return 0, apperr.New(apperr.KindDuplicateAccount, "An account with this email already exists.")
	case errors.Is(err, userrepo.ErrRoleNotFound), errors.Is(err, userrepo.ErrNoProfile):
		return 0, apperr.New(apperr.KindInvalidRole, "Invalid role specified.")
	default:
		return 0, &apperr.Error{Kind: apperr.KindStoreFailure, Message: "Server error during registration", Err: err}
	}
}

func registrationValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch {
			case fe.Field() == "EntryDate":
				return apperr.Validation("Please provide a valid entry_date (YYYY-MM-DD) for students.")
			case fe.Tag() == "email":
				return apperr.Validation("Please provide a valid email address.")
			}
		}
	}
	return apperr.Validation("Please provide email, password, name, and role.")
}

// Login verifies credentials and issues a session token. An inactive account
// is reported only after the email is known to exist.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalidCredentials()
	}
	rec, err := s.repo.GetLoginByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invalidCredentials()
		}
		return nil, apperr.Store(fmt.Errorf("login lookup: %w", err))
	}
	if !rec.IsActive {
		return nil, apperr.New(apperr.KindAccountInactive, "Account is inactive.")
	}
	if !s.hasher.Verify(rec.PasswordHash, password) {
		return nil, invalidCredentials()
	}

	id := auth.Identity{
		AccountID:   rec.AccountID,
		Role:        rec.RoleName,
		StudentID:   rec.StudentID,
		ProfessorID: rec.ProfessorID,
		Email:       email,
	}
	if rec.Name != nil {
		id.Name = *rec.Name
	}
	if rec.EntryDate != nil {
		d := rec.EntryDate.Format(entryDateLayout)
		id.EntryDate = &d
	}

	token, exp, err := s.tokens.Issue(id, s.TokenTTL)
	if err != nil {
		return nil, apperr.Store(fmt.Errorf("issue token: %w", err))
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: id}, nil
}

// ChangePassword re-hashes the password of accountID. Tokens issued before
// the change stay valid until they expire.
func (s *Service) ChangePassword(ctx context.Context, accountID int64, in entity.PasswordChange) error {
	if in.NewPassword != in.ConfirmNewPassword {
		return apperr.Validation("New passwords do not match.")
	}
	if utf8.RuneCountInString(in.NewPassword) < minPasswordLength {
		return apperr.Validation("New password must be at least 6 characters.")
	}
	if len(in.NewPassword) > maxPasswordBytes {
		return apperr.Validation("Password must be at most 72 bytes.")
	}

	stored, err := s.repo.GetPasswordHash(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("User not found.")
		}
		return apperr.Store(fmt.Errorf("load password hash: %w", err))
	}
	if !s.hasher.Verify(stored, in.OldPassword) {
		return apperr.New(apperr.KindIncorrectPassword, "Incorrect old password.")
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return apperr.Store(fmt.Errorf("hash password: %w", err))
	}
	if err := s.repo.UpdatePassword(ctx, accountID, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("User not found.")
		}
		return apperr.Store(fmt.Errorf("update password: %w", err))
	}
	return nil
}
