package lumenbot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lucasb-eyer/go-colorful"

	log "github.com/sirupsen/logrus"
)

func fastHappyColorInt64() (int64, error) {
	return strconv.ParseInt(strings.Replace(colorful.FastHappyColor().Hex(), "#", "", -1), 16, 32)
}

func (b *Bot) aboutCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	hexColor, err := fastHappyColorInt64()
	if err != nil {
		log.Error(err)
		hexColor = 0
	}

	embed := &discordgo.MessageEmbed{
		Title: s.State.User.Username,
		URL:   b.cfg.Website,
		Color: int(hexColor),
		Description: fmt.Sprintf(
			"Hello! I'm %s. I keep myself busy rotating my status line. Try `%sstatus` or visit %s.",
			s.State.User.Username, b.cfg.Prefix, b.cfg.Website,
		),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Servers", Value: strconv.Itoa(b.GuildCount()), Inline: true},
			{Name: "Users", Value: strconv.Itoa(b.UserCount()), Inline: true},
			{Name: "Channels", Value: strconv.Itoa(b.ChannelCount()), Inline: true},
			{Name: "Current status", Value: orNone(b.lastPresence.Load()), Inline: false},
			{Name: "Uptime", Value: time.Since(b.startedAt).Round(time.Second).String(), Inline: false},
		},
	}

	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		log.Error(err)
	}
}

func orNone(s string) string {
	if s == "" {
		return "none yet"
	}
	return s
}
