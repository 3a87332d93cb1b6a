package weblog

import (
	"io"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records webhook executions.
type mockExecutor struct {
	id, token string
	params    []*discordgo.WebhookParams
	err       error
}

func (m *mockExecutor) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.id, m.token = webhookID, token
	m.params = append(m.params, data)
	return &discordgo.Message{}, nil
}

func newTestHook(t *testing.T) (*Hook, *mockExecutor) {
	t.Helper()
	h, err := NewHook("https://discord.com/api/webhooks/123456789/some-Token_42", logrus.WarnLevel)
	require.NoError(t, err)
	exec := &mockExecutor{}
	h.dg = exec
	return h, exec
}

func newEntry(msg string) *logrus.Entry {
	entry := logrus.NewEntry(logrus.New())
	entry.Level = logrus.ErrorLevel
	entry.Message = msg
	return entry
}

func TestNewHookRejectsNonWebhookURL(t *testing.T) {
	for _, u := range []string{"", "not a url", "https://example.com/api/webhooks/1/t"} {
		_, err := NewHook(u, logrus.WarnLevel)
		assert.Error(t, err, u)
	}
}

func TestNewHookParsesIDAndToken(t *testing.T) {
	h, exec := newTestHook(t)
	require.NoError(t, h.Fire(newEntry("boom")))
	assert.Equal(t, "123456789", exec.id)
	assert.Equal(t, "some-Token_42", exec.token)
}

func TestLevels(t *testing.T) {
	h, _ := newTestHook(t)
	assert.Equal(t, []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}, h.Levels())
}

func TestFireShortEntryGoesInline(t *testing.T) {
	h, exec := newTestHook(t)
	require.NoError(t, h.Fire(newEntry("something broke")))

	require.Len(t, exec.params, 1)
	params := exec.params[0]
	assert.Empty(t, params.Files)
	assert.True(t, strings.HasPrefix(params.Content, "```\n"), "inline entries are fenced")
	assert.True(t, strings.HasSuffix(params.Content, "\n```"))
	assert.Contains(t, params.Content, "something broke")
	assert.LessOrEqual(t, len(params.Content), maxDiscordMsgLen)
}

func TestFireLongEntryGoesAsAttachment(t *testing.T) {
	h, exec := newTestHook(t)
	require.NoError(t, h.Fire(newEntry(strings.Repeat("x", maxDiscordMsgLen+1))))

	require.Len(t, exec.params, 1)
	params := exec.params[0]
	assert.Empty(t, params.Content)
	require.Len(t, params.Files, 1)

	file := params.Files[0]
	assert.True(t, strings.HasPrefix(file.Name, "log-"))
	assert.True(t, strings.HasSuffix(file.Name, ".txt"))
	assert.Contains(t, file.ContentType, "text/plain")

	body, err := io.ReadAll(file.Reader)
	require.NoError(t, err)
	assert.Contains(t, string(body), strings.Repeat("x", maxDiscordMsgLen+1))
}

func TestFirePropagatesDeliveryError(t *testing.T) {
	h, _ := newTestHook(t)
	h.dg = &mockExecutor{err: assert.AnError}
	assert.ErrorIs(t, h.Fire(newEntry("boom")), assert.AnError)
}
