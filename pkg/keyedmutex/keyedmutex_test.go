package keyedmutex_test

import (
	"sync"
	"testing"

	"github.com/fazamuttaqien/lending/pkg/keyedmutex"
	"github.com/stretchr/testify/assert"
)

func TestSerializesSameKey(t *testing.T) {
	km := keyedmutex.New()

	counter := 0
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock(42)
			defer km.Unlock(42)
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestIndependentKeysDoNotBlock(t *testing.T) {
	km := keyedmutex.New()

	km.Lock(1)
	done := make(chan struct{})
	go func() {
		km.Lock(2)
		km.Unlock(2)
		close(done)
	}()
	<-done
	km.Unlock(1)
}

func TestUnlockUnknownKeyPanics(t *testing.T) {
	km := keyedmutex.New()
	assert.Panics(t, func() { km.Unlock(7) })
}
