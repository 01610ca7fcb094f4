// Package services implements the application's business logic behind the
// HTTP layer. Services depend on repository interfaces and are bound as
// container singletons by the application providers.
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/armature-go/armature/app/models"
)

// CreateUserInput carries the fields for a new account. Password arrives in
// clear text and is hashed before anything is stored.
type CreateUserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// UpdateUserInput carries a partial update; empty fields are left unchanged.
type UpdateUserInput struct {
	Email     string
	FirstName string
	LastName  string
}

// UserService owns account lifecycle and credential checks.
type UserService struct {
	repo UserRepository
	log  zerolog.Logger
}

func NewUserService(repo UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: logger}
}

// Create registers a new user. Username and email must be unique across
// existing accounts (case-insensitive).
func (s *UserService) Create(in CreateUserInput) (*models.User, error) {
	if _, err := s.repo.FindByUsernameOrEmail(in.Username, in.Email); err == nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Save(user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user created")
	return user, nil
}

// Authenticate returns the user matching username and password. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(id uuid.UUID) (*models.User, error) {
	return s.repo.Find(id)
}

// List returns all users ordered by creation time.
func (s *UserService) List() []*models.User {
	return s.repo.All()
}

// Update applies a partial update to an existing user.
func (s *UserService) Update(id uuid.UUID, in UpdateUserInput) (*models.User, error) {
	user, err := s.repo.Find(id)
	if err != nil {
		return nil, err
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user.
func (s *UserService) Delete(id uuid.UUID) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}
