package bot

import (
	"context"
	"strconv"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"
)

// Telegram implements Platform over a telebot instance. Sends go through
// a shared rate limiter to stay under the Bot API flood limit; edits,
// deletions and acknowledgements are rare enough per chat to go straight
// through.
type Telegram struct {
	bot   *tele.Bot
	limit *rate.Limiter
}

var _ Platform = (*Telegram)(nil)

func NewTelegram(bot *tele.Bot, sendsPerSecond float64) *Telegram {
	return &Telegram{
		bot:   bot,
		limit: rate.NewLimiter(rate.Limit(sendsPerSecond), 1),
	}
}

func (t *Telegram) SendText(chatID int64, text string) (int, error) {
	_ = t.limit.Wait(context.Background())
	msg, err := t.bot.Send(tele.ChatID(chatID), text)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (t *Telegram) SendWithControl(chatID int64, text string, rows [][]Button) (int, error) {
	keyboard := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tele.InlineButton, 0, len(row))
		for _, btn := range row {
			line = append(line, tele.InlineButton{Text: btn.Label, Data: btn.Data})
		}
		keyboard = append(keyboard, line)
	}

	_ = t.limit.Wait(context.Background())
	msg, err := t.bot.Send(tele.ChatID(chatID), text, &tele.ReplyMarkup{InlineKeyboard: keyboard})
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (t *Telegram) EditText(chatID int64, messageID int, text string) error {
	_, err := t.bot.Edit(storedMessage(chatID, messageID), text)
	return err
}

func (t *Telegram) Delete(chatID int64, messageID int) error {
	return t.bot.Delete(storedMessage(chatID, messageID))
}

func (t *Telegram) Acknowledge(callbackID string) error {
	return t.bot.Respond(&tele.Callback{ID: callbackID}, &tele.CallbackResponse{})
}

func storedMessage(chatID int64, messageID int) tele.StoredMessage {
	return tele.StoredMessage{ChatID: chatID, MessageID: strconv.Itoa(messageID)}
}
