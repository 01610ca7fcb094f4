package services

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/armature-go/armature/app/models"
)

// UserRepository is the persistence boundary for users. The in-memory
// implementation below backs the scaffold; a database-backed one slots in
// through the same container binding.
type UserRepository interface {
	Find(id uuid.UUID) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByUsernameOrEmail(username, email string) (*models.User, error)
	All() []*models.User
	Save(u *models.User) error
	Delete(id uuid.UUID) error
}

// RefreshSessionRepository stores refresh sessions keyed by token hash.
type RefreshSessionRepository interface {
	FindByTokenHash(hash string) (*models.RefreshSession, error)
	Save(s *models.RefreshSession) error
	DeleteByTokenHash(hash string) error
	DeleteForUser(userID uuid.UUID) int
}

// ── In-memory users ───────────────────────────────────────────────────────────

// MemoryUserRepository keeps users in a map. Values are copied on the way in
// and out so callers cannot mutate stored state.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]models.User)}
}

func (r *MemoryUserRepository) Find(id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) FindByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			u := u
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) FindByUsernameOrEmail(username, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) All() []*models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *MemoryUserRepository) Save(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// ── In-memory refresh sessions ────────────────────────────────────────────────

type MemoryRefreshSessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.RefreshSession // keyed by token hash
}

func NewMemoryRefreshSessionRepository() *MemoryRefreshSessionRepository {
	return &MemoryRefreshSessionRepository{sessions: make(map[string]models.RefreshSession)}
}

func (r *MemoryRefreshSessionRepository) FindByTokenHash(hash string) (*models.RefreshSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[hash]
	if !ok {
		return nil, ErrInvalidRefreshToken
	}
	return &s, nil
}

// Save stores the session under its current TokenHash. Rotation saves the
// session under the new hash after deleting the old entry.
func (r *MemoryRefreshSessionRepository) Save(s *models.RefreshSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.TokenHash] = *s
	return nil
}

func (r *MemoryRefreshSessionRepository) DeleteByTokenHash(hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[hash]; !ok {
		return ErrInvalidRefreshToken
	}
	delete(r.sessions, hash)
	return nil
}

func (r *MemoryRefreshSessionRepository) DeleteForUser(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for hash, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, hash)
			n++
		}
	}
	return n
}
