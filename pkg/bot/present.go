package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/zaaabik/digital-twin-tg-bot/pkg/bot/choice"
	"github.com/zaaabik/digital-twin-tg-bot/pkg/chatbot"
)

// ErrTooManyCandidates means the backend produced more candidates than
// the control has labels for. Presentation fails fast instead of sending
// a partial or mislabeled set.
var ErrTooManyCandidates = errors.New("too many candidates for one control")

// present sends each candidate as its own numbered message, registers the
// resulting message ids with the backend, and attaches the inline control
// that lets the user keep one candidate or discard them all.
func (b *Bot) present(ctx context.Context, msg TextMessage, gen *chatbot.Generation) error {
	if len(gen.Messages) > maxCandidates {
		return errors.Wrapf(ErrTooManyCandidates, "%d candidates", len(gen.Messages))
	}

	ids := make([]int, 0, len(gen.Messages))
	for i, text := range gen.Messages {
		id, err := b.platform.SendText(msg.ChatID, fmt.Sprintf(candidateFormat, i+1, text))
		if err != nil {
			return errors.Wrapf(err, "send candidate %d", i+1)
		}
		ids = append(ids, id)
	}

	// The backend needs the id set before it can accept a pick. If this
	// fails the control is still shown; resolution may then fail remotely,
	// which the resolver logs.
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.Itoa(id)
	}
	if err := b.api.RegisterCandidates(ctx, msg.UserID, gen.AnswerID, strIDs); err != nil {
		log.Warn().Err(err).Str("user_id", msg.UserID).Str("answer_id", gen.AnswerID).
			Msg("registering candidate ids failed")
	}

	rows, err := controlRows(ids, gen.AnswerID)
	if err != nil {
		return err
	}
	if _, err := b.platform.SendWithControl(msg.ChatID, choosePrompt, rows); err != nil {
		return errors.Wrap(err, "send control")
	}
	return nil
}

// controlRows builds one keep-button per candidate plus the discard row.
// Each button's token carries the id to keep and the ids to delete, so
// resolution needs no in-process state.
func controlRows(ids []int, answerID string) ([][]Button, error) {
	keepRow := make([]Button, 0, len(ids))
	for i, id := range ids {
		others := make([]int, 0, len(ids)-1)
		for _, other := range ids {
			if other != id {
				others = append(others, other)
			}
		}
		token, err := choice.Encode(choice.Choice{Keep: id, Others: others, AnswerID: answerID})
		if err != nil {
			return nil, errors.Wrapf(err, "candidate %d", i+1)
		}
		keepRow = append(keepRow, Button{Label: strconv.Itoa(i + 1), Data: token})
	}

	discard, err := choice.Encode(choice.Discard(ids))
	if err != nil {
		return nil, errors.Wrap(err, "discard option")
	}

	return [][]Button{
		keepRow,
		{{Label: discardLabel, Data: discard}},
	}, nil
}
