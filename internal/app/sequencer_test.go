package app

import (
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRoomSequencer_SerializesSameRoom(t *testing.T) {
	s := NewRoomSequencer()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock(domain.GlobalRoom)
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, s.len(), "slots are released")
}

func TestRoomSequencer_IndependentRooms(t *testing.T) {
	s := NewRoomSequencer()
	unlockA := s.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := s.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("room b blocked behind room a")
	}
}

func TestPolicyFromString(t *testing.T) {
	assert.Equal(t, KickMember, PolicyFromString("kick").OnBackPressure("r", nil))
	assert.Equal(t, DropFrame, PolicyFromString("drop").OnBackPressure("r", nil))
	assert.Equal(t, DropFrame, PolicyFromString("whatever").OnBackPressure("r", nil))
}
