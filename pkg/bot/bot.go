// Package bot implements the Telegram-facing half of the digital twin:
// it relays user turns to the answer-generation backend, presents the
// returned candidate answers, and resolves the user's pick or manual
// correction. All selection state travels inside the inline-keyboard
// callback tokens (pkg/bot/choice), so nothing here has to survive a
// restart while a choice is pending.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/zaaabik/digital-twin-tg-bot/pkg/chatbot"
)

// Bot holds the turn-handling logic, independent of the transport.
type Bot struct {
	api      chatbot.Client
	platform Platform
	users    *UserRegistry
}

func New(api chatbot.Client, platform Platform) *Bot {
	return &Bot{
		api:      api,
		platform: platform,
		users:    NewUserRegistry(api),
	}
}

// HandleText dispatches one inbound text message: a reply to an earlier
// bot message is a manual correction, anything else is a fresh turn.
func (b *Bot) HandleText(ctx context.Context, msg TextMessage) error {
	b.users.EnsureRegistered(ctx, msg.UserID, msg.Username, chatIDString(msg.ChatID))

	if msg.ReplyToID != 0 {
		return b.correct(ctx, msg)
	}
	return b.answer(ctx, msg)
}

// answer runs one fresh turn: show the wait notice, generate, present
// the candidates. The notice is cleared only on the success path; error
// paths leave it behind rather than risk masking the original failure.
func (b *Bot) answer(ctx context.Context, msg TextMessage) error {
	notice := showNotice(b.platform, msg.ChatID)

	gen, err := b.api.Generate(ctx, msg.UserID, msg.Text)
	if err != nil {
		if errors.Is(err, chatbot.ErrUnavailable) {
			log.Warn().Err(err).Str("user_id", msg.UserID).Msg("backend unavailable")
			if _, sendErr := b.platform.SendText(msg.ChatID, apiNotAvailable); sendErr != nil {
				log.Warn().Err(sendErr).Int64("chat_id", msg.ChatID).Msg("sending fallback failed")
			}
			return nil
		}
		return errors.Wrap(err, "generate")
	}

	if err := b.present(ctx, msg, gen); err != nil {
		return err
	}

	notice.Clear()
	return nil
}

// HandleStart registers the user and sends the help text. Registration
// here is best-effort, same as on a first message.
func (b *Bot) HandleStart(ctx context.Context, msg TextMessage) error {
	if err := b.api.CreateUser(ctx, msg.UserID, msg.Username, chatIDString(msg.ChatID)); err != nil {
		log.Warn().Err(err).Str("user_id", msg.UserID).Msg("user registration failed")
	}
	_, err := b.platform.SendText(msg.ChatID, helpMessage)
	return errors.Wrap(err, "send help")
}

// HandleHistory sends the user's conversation history, chunked to the
// platform message size limit.
func (b *Bot) HandleHistory(ctx context.Context, msg TextMessage) error {
	user, err := b.api.GetUser(ctx, msg.UserID)
	if err != nil {
		return errors.Wrap(err, "get user")
	}

	lines := make([]string, 0, len(user.Context))
	for _, turn := range user.Context {
		lines = append(lines, fmt.Sprintf("%s : %s", turn.Role, turn.Text))
	}
	for _, chunk := range chunkText(strings.Join(lines, "\n"), maxTextLength) {
		if _, err := b.platform.SendText(msg.ChatID, chunk); err != nil {
			return errors.Wrap(err, "send history")
		}
	}
	return nil
}

// HandleRemove deletes the user's whole record on the backend and echoes
// the backend response.
func (b *Bot) HandleRemove(ctx context.Context, msg TextMessage) error {
	resp, err := b.api.RemoveUser(ctx, msg.UserID)
	if err != nil {
		return errors.Wrap(err, "remove user")
	}
	_, err = b.platform.SendText(msg.ChatID, resp)
	return errors.Wrap(err, "send response")
}

// HandleClear clears the user's conversation history and echoes the
// backend response.
func (b *Bot) HandleClear(ctx context.Context, msg TextMessage) error {
	resp, err := b.api.ClearHistory(ctx, msg.UserID)
	if err != nil {
		return errors.Wrap(err, "clear history")
	}
	_, err = b.platform.SendText(msg.ChatID, resp)
	return errors.Wrap(err, "send response")
}

func chatIDString(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// chunkText splits s into pieces of at most size bytes without cutting
// a rune in half.
func chunkText(s string, size int) []string {
	if s == "" {
		return nil
	}
	chunks := make([]string, 0, len(s)/size+1)
	for len(s) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	return append(chunks, s)
}
