package persist

import (
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"procflow/internal/diagram"
)

const (
	DefaultKey    = "process_flow_state"
	DefaultTTL    = 30 * 24 * time.Hour
	DefaultMaxAge = 7 * 24 * time.Hour
)

// Options tunes an Adapter. Zero fields take the defaults above.
type Options struct {
	Key    string
	TTL    time.Duration
	MaxAge time.Duration
	Now    func() time.Time
	Logger *slog.Logger
}

// Adapter serialises diagram.State into one KV entry. All of its
// operations are best effort: failures are logged and swallowed so the
// in-memory model stays authoritative.
type Adapter struct {
	kv     KV
	key    string
	ttl    time.Duration
	maxAge time.Duration
	now    func() time.Time
	log    *slog.Logger
}

var _ diagram.Persister = (*Adapter)(nil)

func NewAdapter(kv KV, opts Options) *Adapter {
	a := &Adapter{
		kv:     kv,
		key:    opts.Key,
		ttl:    opts.TTL,
		maxAge: opts.MaxAge,
		now:    opts.Now,
		log:    opts.Logger,
	}
	if a.key == "" {
		a.key = DefaultKey
	}
	if a.ttl <= 0 {
		a.ttl = DefaultTTL
	}
	if a.maxAge <= 0 {
		a.maxAge = DefaultMaxAge
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.log == nil {
		a.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a
}

func (a *Adapter) Save(state diagram.State) {
	data, err := json.Marshal(encodeState(state))
	if err != nil {
		a.log.Error("failed to encode saved state", "error", err)
		return
	}
	if err := a.kv.Set(a.key, string(data), a.ttl); err != nil {
		a.log.Error("failed to save state", "key", a.key, "error", err)
		return
	}
	a.log.Debug("state saved", "key", a.key, "bytes", len(data), "history_index", state.HistoryIndex)
}

// Load returns the saved state. Corrupt or stale entries are deleted and
// reported as absent.
func (a *Adapter) Load() (diagram.State, bool) {
	raw, ok, err := a.kv.Get(a.key)
	if err != nil {
		a.log.Error("failed to read saved state", "key", a.key, "error", err)
		return diagram.State{}, false
	}
	if !ok {
		a.log.Debug("no saved state", "key", a.key)
		return diagram.State{}, false
	}

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		a.log.Warn("saved state is not valid JSON, clearing", "error", err)
		a.Clear()
		return diagram.State{}, false
	}
	if err := p.validate(); err != nil {
		a.log.Warn("invalid saved state, clearing", "error", err)
		a.Clear()
		return diagram.State{}, false
	}

	saved := time.UnixMilli(p.Timestamp)
	if age := a.now().Sub(saved); age > a.maxAge {
		a.log.Info("saved state is too old, clearing", "age", age.Round(time.Minute), "max_age", a.maxAge)
		a.Clear()
		return diagram.State{}, false
	}

	return p.decode(), true
}

func (a *Adapter) Clear() {
	if err := a.kv.Delete(a.key); err != nil {
		a.log.Error("failed to clear saved state", "key", a.key, "error", err)
		return
	}
	a.log.Debug("saved state cleared", "key", a.key)
}
