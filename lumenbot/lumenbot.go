package lumenbot

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
	"github.com/go-co-op/gocron"
	"go.uber.org/atomic"

	"lumen-bot/lumenbot/config"
	"lumen-bot/lumenbot/status"
	"lumen-bot/lumenbot/vars"
	"lumen-bot/lumenbot/weblog"
)

type botConfig struct {
	Prefix                string        `json:"prefix"`
	Website               string        `json:"website"`
	StatusIntervalMinutes int           `json:"status-interval-minutes"`
	Status                status.Config `json:"status"`
}

// Bot owns the Discord session and the collaborators that keep the
// rotating presence fresh. One instance is constructed at startup and
// passed by reference to whatever needs it.
type Bot struct {
	Session *discordgo.Session

	parser  *vars.Parser
	updater *status.Updater

	cfg          botConfig
	startedAt    time.Time
	lastPresence *atomic.String
	scheduler    *gocron.Scheduler
}

// New builds a bot from the JSON config at configPath. The gateway
// session is not opened until Run is called.
func New(configPath string) (*Bot, error) {
	jsonCfg, err := config.NewJsonConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg := botConfig{Prefix: "!", StatusIntervalMinutes: 1}
	if err := json.Unmarshal(jsonCfg.Raw, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", configPath, err)
	}

	dgs, err := discordgo.New("Bot " + getBotToken())
	if err != nil {
		return nil, err
	}

	b := &Bot{
		Session:      dgs,
		parser:       vars.NewParser(),
		cfg:          cfg,
		lastPresence: atomic.NewString(""),
	}
	b.parser.UpdateData(map[string]any{
		"prefix":  cfg.Prefix,
		"website": cfg.Website,
	})

	b.updater, err = status.NewUpdater(b, b.parser, cfg.Status)
	if err != nil {
		return nil, err
	}

	if webhookURL := getLogWebhook(); webhookURL != "" {
		hook, err := weblog.NewHook(webhookURL, log.WarnLevel)
		if err != nil {
			return nil, err
		}
		log.AddHook(hook)
	}

	b.Session.Identify.Intents = Intents
	b.Session.SyncEvents = false
	b.Session.ShouldReconnectOnError = true
	b.Session.StateEnabled = true
	b.Session.AddHandler(b.onReady)
	b.Session.AddHandler(b.onMessageCreate)

	return b, nil
}

// Run opens the gateway session and starts the refresh schedule.
func (b *Bot) Run() error {
	b.startedAt = time.Now()
	if err := b.Session.Open(); err != nil {
		return err
	}
	b.startScheduler()
	log.Print("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Block the current goroutine until a terminating signal is received.
func Block() {
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}

// Stop shuts down the scheduler and closes the session.
func (b *Bot) Stop() {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	_ = b.Session.Close()
}

// UserCount reports the total member count across all known guilds.
func (b *Bot) UserCount() int {
	total := 0
	for _, g := range b.Session.State.Guilds {
		total += g.MemberCount
	}
	return total
}

func (b *Bot) GuildCount() int {
	return len(b.Session.State.Guilds)
}

func (b *Bot) ChannelCount() int {
	total := 0
	for _, g := range b.Session.State.Guilds {
		total += len(g.Channels)
	}
	return total
}

// ApplyPresence pushes the resolved activity to the gateway. A shard id
// on the presence is informational here; this host runs one session.
func (b *Bot) ApplyPresence(p status.Presence) error {
	if p.ShardID != nil {
		log.Debugf("Presence targets shard %d", *p.ShardID)
	}
	err := b.Session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: string(discordgo.StatusOnline),
		Activities: []*discordgo.Activity{{
			Name: p.Name,
			Type: p.Type,
			URL:  p.URL,
		}},
	})
	if err != nil {
		return err
	}
	b.lastPresence.Store(p.Name)
	return nil
}
