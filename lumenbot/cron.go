package lumenbot

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	log "github.com/sirupsen/logrus"
)

func (b *Bot) startScheduler() {
	s := gocron.NewScheduler(time.Local)
	if s == nil {
		log.Fatal("Could not create scheduler")
	}

	interval := b.cfg.StatusIntervalMinutes
	if interval < 1 {
		interval = 1
	}
	if _, err := s.Every(interval).Minutes().Do(b.refreshPresence); err != nil {
		log.Error(err)
	}

	s.StartAsync()
	b.scheduler = s
}

// refreshPresence is the scheduled entry point for status rotation.
func (b *Bot) refreshPresence() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, err := b.updater.UpdateStatus(ctx, nil, nil)
	if err != nil {
		log.Errorf("Could not refresh presence: %v", err)
		return
	}
	log.Debugf("Presence set to %q", p.Name)
}
