package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"lumen-bot/lumenbot"
	"lumen-bot/lumenbot/config"

	// For runtime profiling if enabled in config
	"net/http"
	_ "net/http/pprof"
)

const MainConfigFile = "config/setup.json"

type pprofConfig struct {
	Enabled              bool   `json:"enabled"`
	Address              string `json:"address"`
	BlockProfileRate     int    `json:"block-profile-rate"`
	MutexProfileFraction int    `json:"mutex-profile-fraction"`
}

// pprofServe starts an http server exposing profiling data when enabled
// in config, and is a no-op otherwise.
// See https://pkg.go.dev/net/http/pprof
var pprofServe = func() {
	log.Info("pprof not enabled (this is normal)")
}

func init() {
	log.SetReportCaller(true)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.UnixDate,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			split := strings.Split(f.File, "lumen-bot/")
			filename := "lumen-bot/" + split[len(split)-1]
			return "", fmt.Sprintf("%s:%d", filename, f.Line)
		},
	})

	cfg := struct {
		DefaultLogLvl string      `json:"default-log-level"`
		Pprof         pprofConfig `json:"pprof"`
	}{DefaultLogLvl: "info"}

	jsonCfg, err := config.NewJsonConfig(MainConfigFile)
	if err != nil {
		log.Fatal(err)
	}
	if err := json.Unmarshal(jsonCfg.Raw, &cfg); err != nil {
		log.Fatal(err)
	}

	if lvl, err := log.ParseLevel(cfg.DefaultLogLvl); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(log.InfoLevel)
		log.Warnf(`Could not read default log level from config (%s). Defaulting to "%s".`, cfg.DefaultLogLvl, log.InfoLevel)
	}

	if !cfg.Pprof.Enabled {
		return
	}
	if cfg.Pprof.Address == "" {
		log.Warn("pprof is enabled but address is not set, not starting pprof server")
		return
	}

	runtime.SetBlockProfileRate(cfg.Pprof.BlockProfileRate)
	runtime.SetMutexProfileFraction(cfg.Pprof.MutexProfileFraction)

	addr := cfg.Pprof.Address
	pprofServe = func() {
		log.Infof("Starting pprof server at %s/debug/pprof/", addr)
		log.Info(http.ListenAndServe(addr, nil))
	}
}

func main() {
	go pprofServe()

	bot, err := lumenbot.New(MainConfigFile)
	if err != nil {
		log.Fatal(err)
	}
	if err := bot.Run(); err != nil {
		log.Fatal(err)
	}
	defer bot.Stop()

	lumenbot.Block()
}
