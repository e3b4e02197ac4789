package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/notedeck/notedeck-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists is returned when a registration collides with an existing
	// username or email. It is a uniqueness constraint, not an I/O failure.
	ErrUserExists = errors.New("username or email already taken")
	// ErrInvalidCredentials is returned for any login failure; callers cannot
	// distinguish a missing user from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when looking up an id that does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(email, username, password string) (models.User, error)
	Authenticate(credential, password string) (models.User, error)
	GetByID(id string) (models.User, error)
}

// UserService provides registration and credential checking on top of the
// user registry.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user, hashing their password with bcrypt. The email
// is optional. Uniqueness of username and email is ultimately enforced by the
// registry's UNIQUE columns, so two concurrent registrations with the same
// name cannot both succeed.
func (s *UserService) Register(email, username, password string) (models.User, error) {
	if username == models.PublicID {
		return models.User{}, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	var mail interface{}
	if email != "" {
		mail = email
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, email, password_hash) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Username, mail, user.PasswordHash); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}

	return s.GetByID(user.ID)
}

// Authenticate verifies a user's credentials. The credential may be either a
// username or an email address.
func (s *UserService) Authenticate(credential, password string) (models.User, error) {
	var user models.User
	var email sql.NullString
	row := s.db.QueryRow(
		"SELECT id, username, email, password_hash, created_at FROM users WHERE username = ? OR email = ?",
		credential, credential,
	)
	err := row.Scan(&user.ID, &user.Username, &email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	user.Email = email.String

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetByID(id string) (models.User, error) {
	var user models.User
	var email sql.NullString
	row := s.db.QueryRow("SELECT id, username, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	user.Email = email.String
	return user, nil
}
