package utils

import (
	"sync"
	"testing"
)

func TestUserLockerSerializesPerKey(t *testing.T) {
	ul := NewUserLocker()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ul.Lock("user-1")
			counter++
			ul.Unlock("user-1")
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("expected 100 increments, got %d", counter)
	}
}

func TestUserLockerIndependentKeys(t *testing.T) {
	ul := NewUserLocker()

	ul.Lock("user-1")
	done := make(chan struct{})
	go func() {
		// A different key must not block.
		ul.Lock("user-2")
		ul.Unlock("user-2")
		close(done)
	}()
	<-done
	ul.Unlock("user-1")
}
