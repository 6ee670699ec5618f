package bot

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureRegisteredOncePerUser(t *testing.T) {
	client := newFakeClient()
	registry := NewUserRegistry(client)

	registry.EnsureRegistered(context.Background(), "42", "alice", "777")
	registry.EnsureRegistered(context.Background(), "42", "alice", "777")
	registry.EnsureRegistered(context.Background(), "43", "bob", "778")

	assert.Equal(t, []string{"42", "43"}, client.createUserCalls)
}

func TestEnsureRegisteredConcurrent(t *testing.T) {
	client := newFakeClient()
	registry := NewUserRegistry(client)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			registry.EnsureRegistered(context.Background(), "42", "alice", "777")
		}()
	}
	wg.Wait()

	assert.Len(t, client.createUserCalls, 1)
}
