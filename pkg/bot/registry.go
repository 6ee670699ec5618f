package bot

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/zaaabik/digital-twin-tg-bot/pkg/chatbot"
)

// UserRegistry remembers which users were already registered with the
// backend during this process lifetime, so each user costs at most one
// create-user call per run. The set is not persisted; after a restart
// users are re-registered, which the backend treats as idempotent.
type UserRegistry struct {
	api chatbot.Client

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewUserRegistry(api chatbot.Client) *UserRegistry {
	return &UserRegistry{
		api:  api,
		seen: make(map[string]struct{}),
	}
}

// EnsureRegistered issues one best-effort create-user call the first time
// a user id is seen. The user is marked as seen regardless of the call
// outcome; a failed registration is logged and never retried.
func (r *UserRegistry) EnsureRegistered(ctx context.Context, userID string, username string, chatID string) {
	r.mu.Lock()
	if _, ok := r.seen[userID]; ok {
		r.mu.Unlock()
		return
	}
	r.seen[userID] = struct{}{}
	r.mu.Unlock()

	if err := r.api.CreateUser(ctx, userID, username, chatID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("user registration failed")
	}
}
