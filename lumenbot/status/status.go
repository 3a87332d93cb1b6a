package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"

	log "github.com/sirupsen/logrus"

	"lumen-bot/lumenbot/vars"
)

var (
	// ErrInvalidArgument is returned by NewUpdater when the template
	// source is neither a valid URL, an inline list, nor empty.
	ErrInvalidArgument = errors.New("status: invalid template source")

	// ErrFetchFailed is returned by Init when the remote template pool
	// could not be retrieved or decoded.
	ErrFetchFailed = errors.New("status: could not fetch templates")
)

// Template is an unresolved activity: a kind tag plus a display name
// that may contain {token} placeholders. Templates are immutable once
// loaded.
type Template struct {
	Type    string `json:"type,omitempty"`
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	ShardID *int   `json:"shardID,omitempty"`
}

// Presence is a fully resolved activity, ready to hand to the host.
type Presence struct {
	Type    discordgo.ActivityType
	Name    string
	URL     string
	ShardID *int
}

// Counters exposes the live totals interpolated into status templates.
type Counters interface {
	UserCount() int
	GuildCount() int
	ChannelCount() int
}

// Host is the client the updater reads counters from and pushes
// resolved presences to.
type Host interface {
	Counters
	ApplyPresence(Presence) error
}

// Config selects the template pool. At most one of URL and Templates
// may be set; with neither set the built-in pool is used.
type Config struct {
	URL       string     `json:"url,omitempty"`
	Templates []Template `json:"statuses,omitempty"`
}

const (
	fetchTimeout = 5 * time.Second

	// Shown when a template renders to the empty string.
	fallbackName = "a game"
)

// The gateway allows 5 presence updates per minute per session.
var presenceUpdateEvery = rate.Every(12 * time.Second)

var defaultTemplates = []Template{
	{Type: "PLAYING", Name: "with {users} users"},
	{Type: "WATCHING", Name: "over {guilds} servers"},
	{Type: "LISTENING", Name: "{prefix}help"},
	{Type: "WATCHING", Name: "{channels} channels"},
	{Type: "PLAYING", Name: "on {website}"},
	{Type: "LISTENING", Name: "your every command"},
	{Type: "COMPETING", Name: "the status game"},
}

// Updater owns the pool of presence templates and periodically produces
// a ready-to-apply activity for its host.
type Updater struct {
	host   Host
	parser *vars.Parser

	pool      []Template
	url       string
	ready     *atomic.Bool
	attempted *atomic.Bool
	limiter   *rate.Limiter
	client    *http.Client

	// rng returns a value in [0, 1). Swappable so that selection can be
	// pinned in tests.
	rng func() float64
}

// NewUpdater validates the template source and returns an updater.
// A URL-backed pool is not resolved here; call Init for that. Inline and
// default pools are usable immediately.
func NewUpdater(host Host, parser *vars.Parser, cfg Config) (*Updater, error) {
	u := &Updater{
		host:      host,
		parser:    parser,
		pool:      defaultTemplates,
		ready:     atomic.NewBool(false),
		attempted: atomic.NewBool(false),
		limiter:   rate.NewLimiter(presenceUpdateEvery, 1),
		client:    &http.Client{Timeout: fetchTimeout},
		rng:       rand.Float64,
	}

	switch {
	case cfg.URL != "" && len(cfg.Templates) > 0:
		return nil, fmt.Errorf("%w: both a URL and an inline list were given", ErrInvalidArgument)
	case cfg.URL != "":
		parsed, err := url.ParseRequestURI(cfg.URL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("%w: %q is not a valid URL", ErrInvalidArgument, cfg.URL)
		}
		u.url = cfg.URL
	case len(cfg.Templates) > 0:
		u.pool = cfg.Templates
		u.ready.Store(true)
	default:
		u.ready.Store(true)
	}
	return u, nil
}

// Init resolves a URL-backed template pool. Exactly one fetch attempt is
// ever made: on failure the updater stays on the built-in pool for the
// rest of the process lifetime, and the error is returned for the host
// to record. A no-op for inline and default pools.
func (u *Updater) Init(ctx context.Context) error {
	if u.url == "" || !u.attempted.CAS(false, true) {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected response %s", ErrFetchFailed, resp.Status)
	}
	var fetched []Template
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if len(fetched) == 0 {
		return fmt.Errorf("%w: remote pool is empty", ErrFetchFailed)
	}

	u.pool = fetched
	u.ready.Store(true)
	log.Infof("Loaded %d status templates from %s", len(fetched), u.url)
	return nil
}

// Statuses returns the active template pool. Until the updater is ready
// the built-in pool is returned, so callers never see an empty pool
// while a fetch is outstanding or after one has failed.
func (u *Updater) Statuses() []Template {
	if !u.ready.Load() {
		return defaultTemplates
	}
	return u.pool
}

// UpdateStatus refreshes the live counters, resolves an activity, and
// asks the host to apply it. The explicit template, when given, is used
// verbatim; otherwise one is drawn at random from the active pool. A
// shard id, when given, is attached to the activity before it is
// applied. Errors from the host are returned unchanged alongside the
// presence that was attempted.
func (u *Updater) UpdateStatus(ctx context.Context, explicit *Template, shardID *int) (Presence, error) {
	u.parser.UpdateData(map[string]any{
		"users":    u.host.UserCount(),
		"guilds":   u.host.GuildCount(),
		"channels": u.host.ChannelCount(),
	})

	var p Presence
	if explicit != nil {
		p = Presence{
			Type:    activityType(explicit.Type),
			Name:    explicit.Name,
			URL:     explicit.URL,
			ShardID: explicit.ShardID,
		}
	} else {
		p = u.chooseActivity()
	}
	if shardID != nil {
		p.ShardID = shardID
	}

	if err := u.limiter.Wait(ctx); err != nil {
		return p, err
	}
	return p, u.host.ApplyPresence(p)
}

func (u *Updater) chooseActivity() Presence {
	pool := u.Statuses()
	tpl := pool[int(u.rng()*float64(len(pool)))]

	name := u.parser.Parse(tpl.Name)
	if name == "" {
		name = fallbackName
	}
	return Presence{
		Type:    activityType(tpl.Type),
		Name:    name,
		URL:     tpl.URL,
		ShardID: tpl.ShardID,
	}
}

func activityType(kind string) discordgo.ActivityType {
	switch strings.ToUpper(kind) {
	case "", "PLAYING":
		return discordgo.ActivityTypeGame
	case "STREAMING":
		return discordgo.ActivityTypeStreaming
	case "LISTENING":
		return discordgo.ActivityTypeListening
	case "WATCHING":
		return discordgo.ActivityTypeWatching
	case "COMPETING":
		return discordgo.ActivityTypeCompeting
	default:
		log.Warnf("Unknown activity type %q, defaulting to playing", kind)
		return discordgo.ActivityTypeGame
	}
}
