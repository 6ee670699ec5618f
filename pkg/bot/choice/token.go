// Package choice encodes the state of a pending candidate selection into
// the callback payload of an inline keyboard button. The token is the only
// state carried between presenting candidates and resolving the pick; no
// in-process session store survives a restart, the token does.
package choice

import (
	"encoding/base64"
	"encoding/binary"

	"github.com/pkg/errors"
)

// MaxEncodedLen is the Telegram callback-data ceiling in bytes.
const MaxEncodedLen = 64

const version = 0x01

var (
	// ErrMalformedToken means the callback payload cannot be parsed back
	// into a Choice. Selection events carrying such payloads are
	// acknowledged and dropped.
	ErrMalformedToken = errors.New("malformed choice token")

	// ErrTokenTooLarge means the encoded token would exceed the platform
	// payload ceiling. Presentation fails loudly instead of truncating.
	ErrTokenTooLarge = errors.New("choice token exceeds payload limit")
)

// Choice is the state one inline button needs to resolve a pick: the
// message to keep, the messages to delete, and the backend answer
// reference for persisting the pick. A zero Keep together with an empty
// AnswerID is the reserved discard-all form.
type Choice struct {
	Keep     int
	Others   []int
	AnswerID string
}

// Discard builds the reserved discard-all choice for a candidate set.
func Discard(allIDs []int) Choice {
	others := make([]int, len(allIDs))
	copy(others, allIDs)
	return Choice{Others: others}
}

// IsDiscard reports whether the choice carries the discard sentinel.
func (c Choice) IsDiscard() bool {
	return c.AnswerID == ""
}

// Encode serializes the choice into a base64url string bounded by
// MaxEncodedLen. Layout before armoring: version tag, uvarint keep id,
// uvarint count, uvarint other ids, answer id bytes.
func Encode(c Choice) (string, error) {
	buf := make([]byte, 0, MaxEncodedLen)
	buf = append(buf, version)
	buf = binary.AppendUvarint(buf, uint64(c.Keep))
	buf = binary.AppendUvarint(buf, uint64(len(c.Others)))
	for _, id := range c.Others {
		buf = binary.AppendUvarint(buf, uint64(id))
	}
	buf = append(buf, c.AnswerID...)

	encoded := base64.RawURLEncoding.EncodeToString(buf)
	if len(encoded) > MaxEncodedLen {
		return "", errors.Wrapf(ErrTokenTooLarge, "%d bytes", len(encoded))
	}
	return encoded, nil
}

// Decode recovers a choice from callback data. Any parse failure is
// ErrMalformedToken.
func Decode(data string) (Choice, error) {
	raw, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return Choice{}, errors.Wrap(ErrMalformedToken, err.Error())
	}
	if len(raw) < 3 || raw[0] != version {
		return Choice{}, errors.Wrap(ErrMalformedToken, "bad header")
	}
	rest := raw[1:]

	keep, n := binary.Uvarint(rest)
	if n <= 0 {
		return Choice{}, errors.Wrap(ErrMalformedToken, "keep id")
	}
	rest = rest[n:]

	count, n := binary.Uvarint(rest)
	if n <= 0 || count > MaxEncodedLen {
		return Choice{}, errors.Wrap(ErrMalformedToken, "candidate count")
	}
	rest = rest[n:]

	others := make([]int, 0, count)
	for i := uint64(0); i < count; i++ {
		id, n := binary.Uvarint(rest)
		if n <= 0 {
			return Choice{}, errors.Wrap(ErrMalformedToken, "other ids")
		}
		others = append(others, int(id))
		rest = rest[n:]
	}

	return Choice{
		Keep:     int(keep),
		Others:   others,
		AnswerID: string(rest),
	}, nil
}
