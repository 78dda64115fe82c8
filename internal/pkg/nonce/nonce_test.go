package nonce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerVerify(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.Create("save_pie_meta", "alice")
	require.NoError(t, err)

	_, err = m.Verify(token, "other_action", "alice")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = m.Verify(token, "save_pie_meta", "bob")
	assert.ErrorIs(t, err, ErrInvalid)

	ticket, err := m.Verify(token, "save_pie_meta", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", ticket.User)
	assert.Equal(t, "save_pie_meta", ticket.Action)

	// 未消耗前可以重复校验
	_, err = m.Verify(token, "save_pie_meta", "alice")
	require.NoError(t, err)
}

func TestManagerConsume(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.Create("save_pie_meta", "alice")
	require.NoError(t, err)
	ticket, err := m.Verify(token, "save_pie_meta", "alice")
	require.NoError(t, err)

	require.NoError(t, m.Consume(ticket))
	assert.ErrorIs(t, m.Consume(ticket), ErrInvalid)

	_, err = m.Verify(token, "save_pie_meta", "alice")
	assert.ErrorIs(t, err, ErrInvalid, "consumed nonce no longer verifies")
}

func TestManagerRejectsForeignTokens(t *testing.T) {
	m := NewManager("secret", time.Hour)
	other := NewManager("another-secret", time.Hour)

	token, err := other.Create("save_pie_meta", "alice")
	require.NoError(t, err)

	for _, tok := range []string{token, "", "not-a-token"} {
		_, err := m.Verify(tok, "save_pie_meta", "alice")
		assert.ErrorIs(t, err, ErrInvalid)
	}
}

func TestManagerExpired(t *testing.T) {
	m := NewManager("secret", -time.Minute)

	token, err := m.Create("save_pie_meta", "alice")
	require.NoError(t, err)
	_, err = m.Verify(token, "save_pie_meta", "alice")
	assert.ErrorIs(t, err, ErrInvalid)
}
