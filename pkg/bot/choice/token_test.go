package choice

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		choice Choice
	}{
		{
			name:   "single candidate",
			choice: Choice{Keep: 101, Others: []int{}, AnswerID: "42"},
		},
		{
			name:   "three candidates",
			choice: Choice{Keep: 102, Others: []int{101, 103}, AnswerID: "657"},
		},
		{
			name:   "large message ids",
			choice: Choice{Keep: 1 << 30, Others: []int{1<<30 + 1, 1<<30 + 2}, AnswerID: "9001"},
		},
		{
			name:   "discard all",
			choice: Discard([]int{101, 102, 103}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(tt.choice)
			require.NoError(t, err)
			require.LessOrEqual(t, len(encoded), MaxEncodedLen)

			decoded, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.choice.Keep, decoded.Keep)
			assert.ElementsMatch(t, tt.choice.Others, decoded.Others)
			assert.Equal(t, tt.choice.AnswerID, decoded.AnswerID)
		})
	}
}

func TestDiscardCarriesSentinel(t *testing.T) {
	all := []int{201, 202, 203, 204}
	d := Discard(all)

	assert.True(t, d.IsDiscard())
	assert.Zero(t, d.Keep)
	assert.ElementsMatch(t, all, d.Others)

	encoded, err := Encode(d)
	require.NoError(t, err)
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.True(t, decoded.IsDiscard())
	assert.ElementsMatch(t, all, decoded.Others)
}

func TestEncodeTooLarge(t *testing.T) {
	c := Choice{
		Keep:     101,
		Others:   []int{102, 103},
		AnswerID: strings.Repeat("a", 100),
	}
	_, err := Encode(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTokenTooLarge))
}

func TestDecodeMalformed(t *testing.T) {
	valid, err := Encode(Choice{Keep: 101, Others: []int{102}, AnswerID: "7"})
	require.NoError(t, err)

	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "not base64", data: "%%%"},
		{name: "wrong version tag", data: "AgEB"},
		{name: "truncated", data: valid[:2]},
		{name: "plain text", data: "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedToken))
		})
	}
}

func TestDecodeCountOverflow(t *testing.T) {
	// A count claiming more ids than the buffer holds must not be trusted.
	c := Choice{Keep: 1, Others: []int{2, 3, 4}, AnswerID: ""}
	encoded, err := Encode(c)
	require.NoError(t, err)

	// Cutting the armored form drops trailing id bytes while keeping the
	// header intact.
	_, err = Decode(encoded[:len(encoded)-3])
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedToken))
}
