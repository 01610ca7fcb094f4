package services

import (
	"fmt"

	"github.com/rs/zerolog"
)

// HealthCheck probes one component; a nil return means healthy.
type HealthCheck func() error

// HealthService runs named component checks for the health endpoint.
type HealthService struct {
	log    zerolog.Logger
	names  []string
	checks map[string]HealthCheck
}

func NewHealthService(logger zerolog.Logger) *HealthService {
	return &HealthService{log: logger, checks: make(map[string]HealthCheck)}
}

// RegisterCheck adds a named component check. Re-registering a name
// replaces the previous check.
func (s *HealthService) RegisterCheck(name string, check HealthCheck) {
	if _, exists := s.checks[name]; !exists {
		s.names = append(s.names, name)
	}
	s.checks[name] = check
}

// Check runs all checks in registration order and returns the first failure.
func (s *HealthService) Check() error {
	for _, name := range s.names {
		if err := s.checks[name](); err != nil {
			s.log.Error().Err(err).Str("component", name).Msg("health check failed")
			return fmt.Errorf("component %s unhealthy: %w", name, err)
		}
	}
	return nil
}
