package lumenbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"

	log "github.com/sirupsen/logrus"

	"lumen-bot/lumenbot/status"
)

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}
	if !strings.HasPrefix(m.Content, b.cfg.Prefix) {
		return
	}

	switch commandWord(strings.TrimPrefix(m.Content, b.cfg.Prefix)) {
	case "status":
		b.statusCommand(s, m)
	case "about":
		b.aboutCommand(s, m)
	}
}

func commandWord(content string) string {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// statusCommand forces a presence refresh. With no arguments a new
// status is drawn from the pool; with a kind and a (possibly quoted)
// name the given activity is applied verbatim. Owner only.
func (b *Bot) statusCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	if getOwnerID() == "" || m.Author.ID != getOwnerID() {
		log.Debugf("Ignoring status command from non-owner %s", m.Author.ID)
		return
	}

	explicit, err := parseStatusArgs(strings.TrimPrefix(m.Content, b.cfg.Prefix))
	if err != nil {
		log.Error(err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	p, err := b.updater.UpdateStatus(ctx, explicit, nil)
	if err != nil {
		log.Error(err)
		if _, err := s.ChannelMessageSend(m.ChannelID, "Could not update my status. :'("); err != nil {
			log.Error(err)
		}
		return
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Status set to %q.", p.Name)); err != nil {
		log.Error(err)
	}
}

// parseStatusArgs splits `status [kind "display name"]`, honoring double
// quotes around the name. A bare `status` yields nil, meaning "pick one
// at random".
func parseStatusArgs(content string) (*status.Template, error) {
	argSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes)
	if err != nil {
		return nil, err
	}
	args, err := argSplitter.Split(content)
	if err != nil {
		return nil, err
	}

	if len(args) < 3 {
		return nil, nil
	}
	return &status.Template{
		Type: args[1],
		Name: strings.Trim(args[2], `"`),
	}, nil
}
