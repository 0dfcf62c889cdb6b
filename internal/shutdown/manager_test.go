package shutdown

import (
	"bytes"
	"context"
	"testing"

	"dehazer/internal/logger"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestManager_ShutdownCancelsContext(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(context.Background(), logger.NewZerolog(&buf, zerolog.DebugLevel))

	assert.NoError(t, m.Context().Err())
	m.Shutdown("interrupt")
	m.Shutdown("terminated")

	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
	<-m.Context().Done()
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("cancelling run")))
	assert.Contains(t, buf.String(), `"reason":"interrupt"`)
}

func TestManager_StopIsSilent(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(nil, logger.NewZerolog(&buf, zerolog.DebugLevel))

	stop := m.Listen()
	stop()

	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
	assert.Empty(t, buf.String())
}

func TestManager_FollowsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewManager(parent, nil)

	cancel()
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
}
