package bot

import (
	"github.com/rs/zerolog/log"
)

// Notice is the transient "working" message shown while the backend
// generates an answer. Showing and clearing are both best-effort and
// never fail the surrounding turn.
type Notice struct {
	p         Platform
	chatID    int64
	messageID int
}

func showNotice(p Platform, chatID int64) *Notice {
	id, err := p.SendText(chatID, waitingForResponse)
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("sending wait notice failed")
		id = 0
	}
	return &Notice{p: p, chatID: chatID, messageID: id}
}

// Clear deletes the notice message. Deletion failure is not surfaced to
// the user.
func (n *Notice) Clear() {
	if n.messageID == 0 {
		return
	}
	if err := n.p.Delete(n.chatID, n.messageID); err != nil {
		log.Warn().Err(err).Int64("chat_id", n.chatID).Int("message_id", n.messageID).
			Msg("deleting wait notice failed")
	}
}
