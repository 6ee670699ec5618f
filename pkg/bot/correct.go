package bot

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// correct replaces an earlier bot answer with the user's own text: the
// user replies to the answer message, the reply body becomes the new
// answer, and the reply itself is removed.
//
// Persistence comes first. If the backend rejects the custom answer,
// nothing in the chat may change.
func (b *Bot) correct(ctx context.Context, msg TextMessage) error {
	target := strconv.Itoa(msg.ReplyToID)
	if err := b.api.SetCustomAnswer(ctx, msg.UserID, target, msg.Text); err != nil {
		return errors.Wrap(err, "set custom answer")
	}

	if err := b.platform.EditText(msg.ChatID, msg.ReplyToID, msg.Text); err != nil {
		log.Warn().Err(err).Int64("chat_id", msg.ChatID).Int("message_id", msg.ReplyToID).
			Msg("editing corrected answer failed")
	}
	if err := b.platform.Delete(msg.ChatID, msg.ID); err != nil {
		log.Warn().Err(err).Int64("chat_id", msg.ChatID).Int("message_id", msg.ID).
			Msg("deleting correction reply failed")
	}
	return nil
}
