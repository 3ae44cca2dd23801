package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabcheck/internal/common"
)

// Pool manages a set of browser sessions with round-robin allocation so
// multiple pages can be audited without relaunching Chrome each time.
type Pool struct {
	sessions     []*Session
	mu           sync.Mutex
	currentIndex int
	logger       arbor.ILogger
	initialized  bool
}

// NewPool launches config.PoolSize browser sessions. If some instances fail
// to start the pool continues with the ones that succeeded; it fails only
// when no instance starts at all.
func NewPool(parent context.Context, config common.BrowserConfig, logger arbor.ILogger) (*Pool, error) {
	if config.PoolSize <= 0 {
		return nil, fmt.Errorf("pool_size must be greater than 0, got: %d", config.PoolSize)
	}

	p := &Pool{
		sessions: make([]*Session, 0, config.PoolSize),
		logger:   logger,
	}

	var lastErr error
	for i := 0; i < config.PoolSize; i++ {
		session, err := NewSession(parent, config, logger)
		if err != nil {
			lastErr = err
			logger.Warn().
				Err(err).
				Int("browser_index", i).
				Int("successful_instances", len(p.sessions)).
				Msg("Failed to create browser session")
			continue
		}
		p.sessions = append(p.sessions, session)
	}

	if len(p.sessions) == 0 {
		return nil, fmt.Errorf("failed to create any browser sessions, last error: %w", lastErr)
	}

	if len(p.sessions) < config.PoolSize {
		logger.Warn().
			Int("requested", config.PoolSize).
			Int("created", len(p.sessions)).
			Msg("Created fewer browser sessions than requested")
	}

	p.initialized = true
	logger.Info().
		Int("sessions", len(p.sessions)).
		Msg("Browser pool initialized")

	return p, nil
}

// Get returns a session from the pool using round-robin allocation.
func (p *Pool) Get() (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || len(p.sessions) == 0 {
		return nil, fmt.Errorf("browser pool not initialized")
	}

	index := p.currentIndex % len(p.sessions)
	p.currentIndex = (p.currentIndex + 1) % len(p.sessions)
	return p.sessions[index], nil
}

// Size returns the number of live sessions in the pool.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

// Shutdown closes all browser sessions in the pool.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, session := range p.sessions {
		session.Close()
	}
	p.sessions = nil
	p.currentIndex = 0
	p.initialized = false

	p.logger.Info().Msg("Browser pool shut down")
}
