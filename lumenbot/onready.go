package lumenbot

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	log "github.com/sirupsen/logrus"
)

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Infof("Logged in as %s", r.User.Username)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.updater.Init(ctx); err != nil {
		// One attempt only. The built-in pool stays active for the life
		// of the process.
		log.Errorf("Status pool fetch failed, keeping built-in statuses: %v", err)
	}

	b.refreshPresence()
}
