package bot

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/zaaabik/digital-twin-tg-bot/pkg/bot/choice"
)

// HandleSelection resolves one control interaction: acknowledge, decode
// the token, delete the rejected candidates, persist and display the
// pick, drop the control message.
//
// Everything after the acknowledgement is best-effort and independent: a
// failed deletion must not stop the remaining deletions, and resolving
// the same event twice only produces logged no-op failures for the
// already-deleted messages.
func (b *Bot) HandleSelection(ctx context.Context, sel Selection) error {
	if err := b.platform.Acknowledge(sel.CallbackID); err != nil {
		log.Warn().Err(err).Str("callback_id", sel.CallbackID).Msg("acknowledging selection failed")
	}

	c, err := choice.Decode(sel.Data)
	if err != nil {
		log.Warn().Err(err).Str("user_id", sel.UserID).Msg("dropping selection with malformed token")
		return nil
	}

	for _, id := range c.Others {
		if err := b.platform.Delete(sel.ChatID, id); err != nil {
			log.Warn().Err(err).Int64("chat_id", sel.ChatID).Int("message_id", id).
				Msg("deleting rejected candidate failed")
		}
	}

	if !c.IsDiscard() {
		text, err := b.api.PersistChoice(ctx, sel.UserID, c.AnswerID, strconv.Itoa(c.Keep))
		if err != nil {
			// The backend is the source of truth for the canonical text;
			// without it the kept message stays as sent.
			log.Error().Err(err).Str("user_id", sel.UserID).Str("answer_id", c.AnswerID).
				Msg("persisting choice failed")
		} else if err := b.platform.EditText(sel.ChatID, c.Keep, text); err != nil {
			log.Warn().Err(err).Int64("chat_id", sel.ChatID).Int("message_id", c.Keep).
				Msg("editing kept candidate failed")
		}
	}

	if err := b.platform.Delete(sel.ChatID, sel.ControlMessageID); err != nil {
		log.Warn().Err(err).Int64("chat_id", sel.ChatID).Int("message_id", sel.ControlMessageID).
			Msg("deleting control message failed")
	}
	return nil
}
