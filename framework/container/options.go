package container

import "github.com/rs/zerolog"

// Option configures a Container at construction time.
type Option func(*Container)

// WithLogger attaches a logger; registrations and singleton constructions are
// reported at debug level. The default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Container) {
		c.log = log
	}
}

// SetLogger replaces the container's logger after construction. The logging
// provider uses it to attach the configured logger at boot; call it during
// bootstrap, before concurrent resolution starts.
func (c *Container) SetLogger(log zerolog.Logger) {
	c.mu.Lock()
	c.log = log
	c.mu.Unlock()
}
