package bot

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v4"

	"github.com/zaaabik/digital-twin-tg-bot/pkg/chatbot"
)

const pollTimeout = 10 * time.Second

// Service owns the telebot instance and routes its updates into the
// transport-independent Bot.
type Service struct {
	tb   *tele.Bot
	core *Bot
}

// NewService connects to Telegram and wires up all handlers.
// sendsPerSecond bounds outbound message sends.
func NewService(token string, api chatbot.Client, sendsPerSecond float64) (*Service, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
		OnError: func(err error, c tele.Context) {
			logger := log.Error().Err(err)
			if c != nil && c.Sender() != nil {
				logger = logger.Int64("user_id", c.Sender().ID)
			}
			logger.Msg("update handling failed")
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "create telegram bot")
	}

	s := &Service{
		tb:   tb,
		core: New(api, NewTelegram(tb, sendsPerSecond)),
	}
	s.route()
	return s, nil
}

func (s *Service) route() {
	s.tb.Handle("/start", s.onText(s.core.HandleStart))
	s.tb.Handle("/help", s.onText(s.core.HandleStart))
	s.tb.Handle("/get", s.onText(s.core.HandleHistory))
	s.tb.Handle("/remove", s.onText(s.core.HandleRemove))
	s.tb.Handle("/clear", s.onText(s.core.HandleClear))
	s.tb.Handle(tele.OnText, s.onText(s.core.HandleText))
	s.tb.Handle(tele.OnCallback, s.onCallback)
}

func (s *Service) onText(h func(context.Context, TextMessage) error) tele.HandlerFunc {
	return func(c tele.Context) error {
		msg := TextMessage{
			ID:       c.Message().ID,
			ChatID:   c.Chat().ID,
			UserID:   strconv.FormatInt(c.Sender().ID, 10),
			Username: c.Sender().Username,
			Text:     c.Text(),
		}
		if reply := c.Message().ReplyTo; reply != nil {
			msg.ReplyToID = reply.ID
		}
		return h(context.Background(), msg)
	}
}

func (s *Service) onCallback(c tele.Context) error {
	cb := c.Callback()
	if cb.Message == nil {
		return nil
	}
	return s.core.HandleSelection(context.Background(), Selection{
		CallbackID:       cb.ID,
		ControlMessageID: cb.Message.ID,
		ChatID:           cb.Message.Chat.ID,
		UserID:           strconv.FormatInt(cb.Sender.ID, 10),
		Data:             cb.Data,
	})
}

// Run starts long polling and blocks until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.tb.Stop()
	}()
	s.tb.Start()
	return nil
}
