package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"dehazer/internal/logger"
)

// Manager cancels an in-flight dehazing run when the process is
// interrupted. Stages check the context between steps, so a run stops at the
// next stage boundary.
type Manager struct {
	logger logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewManager(parent context.Context, log logger.Logger) *Manager {
	if parent == nil {
		parent = context.Background()
	}
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(parent)

	return &Manager{
		logger: log,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Listen shuts the manager down on SIGINT or SIGTERM. The returned function
// stops listening; call it once the run has finished.
func (m *Manager) Listen() (stop func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			m.Shutdown(sig.String())
		case <-m.done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		m.Shutdown("")
	}
}

// Shutdown cancels the context. Only the first call has an effect. A
// non-empty reason is logged.
func (m *Manager) Shutdown(reason string) {
	m.once.Do(func() {
		if reason != "" {
			m.logger.Warning("ShutdownManager", "cancelling run", map[string]interface{}{
				"reason": reason,
			})
		}
		m.cancel()
		close(m.done)
	})
}

func (m *Manager) Context() context.Context {
	return m.ctx
}
