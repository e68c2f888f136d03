// Package app wires together configuration, the API client, and the local
// cache into a single Deps struct that commands receive at runtime.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/derickschaefer/forecast/internal/config"
	"github.com/derickschaefer/forecast/internal/forecast"
	"github.com/derickschaefer/forecast/internal/store"
)

// Deps holds all runtime dependencies injected into command Run functions.
// Store is nil until RequireStore is called.
type Deps struct {
	Config *config.Config
	Client *forecast.Client
	Store  *store.Store
	Now    func() time.Time
}

// New builds a Deps from resolved config.
func New(cfg *config.Config) *Deps {
	client := forecast.NewClient(
		cfg.APIKey,
		cfg.BaseURL,
		cfg.Units,
		cfg.Timeout,
		cfg.Rate,
		cfg.Debug,
	)
	return &Deps{
		Config: cfg,
		Client: client,
		Now:    time.Now,
	}
}

// RequireStore opens the cache database at Config.DBPath if it is not open.
func (d *Deps) RequireStore() error {
	if d.Store != nil {
		return nil
	}
	if d.Config.DBPath == "" {
		return fmt.Errorf("no cache database path configured (set db_path or %s)", config.EnvDBPath)
	}
	s, err := store.Open(d.Config.DBPath)
	if err != nil {
		return err
	}
	d.Store = s
	return nil
}

// Close releases the cache database, if open.
func (d *Deps) Close() error {
	if d.Store == nil {
		return nil
	}
	err := d.Store.Close()
	d.Store = nil
	return err
}

// Fetch returns the raw forecast document for the configured location.
//
// A cached copy younger than max_cache_age is returned without a request.
// Refresh skips the cache read but stores the new document; NoCache skips
// the cache altogether. A cache that cannot be opened or written only costs
// a warning.
func (d *Deps) Fetch(ctx context.Context) ([]byte, error) {
	loc := d.Config.Location
	key := store.Key(loc.Latitude, loc.Longitude)

	useCache := !d.Config.NoCache
	if useCache {
		if err := d.RequireStore(); err != nil {
			slog.Warn("cache unavailable", "err", err)
			useCache = false
		}
	}

	if useCache && !d.Config.Refresh {
		e, ok, err := d.Store.GetForecast(key)
		switch {
		case err != nil:
			slog.Warn("reading cache", "key", key, "err", err)
		case ok && e.Fresh(d.Config.MaxCacheAge, d.Now()):
			slog.Debug("cache hit", "key", key, "fetched_at", e.FetchedAt)
			return e.Body, nil
		case ok:
			slog.Debug("cache stale", "key", key, "fetched_at", e.FetchedAt)
		}
	}

	body, err := d.Client.Get(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := d.Store.PutForecast(key, body); err != nil {
			slog.Warn("writing cache", "key", key, "err", err)
		}
	}
	return body, nil
}
