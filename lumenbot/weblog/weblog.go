package weblog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxDiscordMsgLen = 2000

// Room for the code fence wrapped around inline entries.
const maxInlineLen = maxDiscordMsgLen - len("```\n") - len("\n```")

var webhookURLRegexp = func() *regexp.Regexp { return nil }

func init() {
	r := regexp.MustCompile(`discord(?:app)?\.com/api/webhooks/(\d+)/([\w-]+)`)
	webhookURLRegexp = func() *regexp.Regexp { return r }
}

// executor is the slice of discordgo.Session the hook needs,
// narrowed so that tests can substitute their own.
type executor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ executor = (*discordgo.Session)(nil)

// Hook is a logrus hook that mirrors log entries to a Discord webhook.
// Entries that fit in a single Discord message are sent inline inside a
// code fence; anything larger is delivered as a text file attachment.
type Hook struct {
	id     string
	token  string
	levels []logrus.Level
	dg     executor
}

var _ logrus.Hook = (*Hook)(nil)

// NewHook parses the given Discord webhook URL and returns a hook that
// fires for every level up to and including maxLevel.
func NewHook(webhookURL string, maxLevel logrus.Level) (*Hook, error) {
	m := webhookURLRegexp().FindStringSubmatch(webhookURL)
	if m == nil {
		return nil, fmt.Errorf("weblog: %q is not a Discord webhook URL", webhookURL)
	}

	// Webhook execution is authenticated by the webhook token itself,
	// so an unauthenticated session is enough.
	dg, err := discordgo.New("")
	if err != nil {
		return nil, err
	}

	return &Hook{
		id:     m[1],
		token:  m[2],
		levels: logrus.AllLevels[:maxLevel+1],
		dg:     dg,
	}, nil
}

func (h *Hook) Levels() []logrus.Level { return h.levels }

// Fire delivers the formatted entry to the webhook. Delivery failures
// are returned to logrus, which reports them on stderr; they are never
// logged back through the hook.
func (h *Hook) Fire(entry *logrus.Entry) error {
	formatted, err := entry.String()
	if err != nil {
		return err
	}
	payload := strings.TrimRight(formatted, "\n")

	params := &discordgo.WebhookParams{}
	if len(payload) <= maxInlineLen {
		params.Content = fmt.Sprintf("```\n%s\n```", payload)
	} else {
		params.Files = []*discordgo.File{{
			Name:        fmt.Sprintf("log-%s.txt", uuid.New()),
			ContentType: mimetype.Detect([]byte(payload)).String(),
			Reader:      strings.NewReader(payload),
		}}
	}

	_, err = h.dg.WebhookExecute(h.id, h.token, false, params)
	return err
}
