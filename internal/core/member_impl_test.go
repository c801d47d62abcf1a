package core

import (
	"sync"
	"testing"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMemberSessionLifecycle(t *testing.T) {
	s := NewMemberSession("c1", nil)
	assert.Equal(t, StateConnecting, s.State())

	assert.True(t, s.Open())
	assert.Equal(t, StateOpen, s.State())
	assert.False(t, s.Open(), "open twice")

	assert.True(t, s.Close())
	assert.Equal(t, StateClosed, s.State())
	assert.False(t, s.Close(), "duplicate close is a no-op")
	assert.False(t, s.Open(), "closed is terminal")
}

func TestMemberSessionBindOnce(t *testing.T) {
	s := NewMemberSession("c1", nil)
	_, ok := s.Identity()
	assert.False(t, ok)

	assert.True(t, s.Bind(domain.Identity{UserID: "u1", DisplayName: "alice"}))
	assert.False(t, s.Bind(domain.Identity{UserID: "u2", DisplayName: "mallory"}))

	ident, ok := s.Identity()
	assert.True(t, ok)
	assert.Equal(t, domain.UserID("u1"), ident.UserID)
}

func TestMemberSessionConcurrentClose(t *testing.T) {
	s := NewMemberSession("c1", nil)
	s.Open()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		closed int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Close() {
				mu.Lock()
				closed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, closed)
}
