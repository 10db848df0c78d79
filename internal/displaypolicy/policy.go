// Package displaypolicy customizes list-view presentation (placeholder text,
// badge caps) from an operator-managed YAML file that reloads on change.
package displaypolicy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/faciam-dev/gridbase/internal/fieldtype"
)

// Policy overrides how rendered cells are presented.
type Policy struct {
	// Placeholder replaces the default "-" for absent values.
	Placeholder string `yaml:"placeholder"`
	// BadgeLimit caps the badges shown per cell; the rest collapse into a
	// "+n" badge. Zero means unlimited.
	BadgeLimit int `yaml:"badgeLimit"`
}

func (p *Policy) normalize() {
	if p.BadgeLimit < 0 {
		p.BadgeLimit = 0
	}
}

// Apply rewrites one display according to the policy.
func (p *Policy) Apply(d fieldtype.Display) fieldtype.Display {
	if p.Placeholder != "" && d.Text == fieldtype.Placeholder {
		d.Text = p.Placeholder
	}
	if p.BadgeLimit > 0 && len(d.Badges) > p.BadgeLimit {
		hidden := len(d.Badges) - p.BadgeLimit
		badges := make([]string, p.BadgeLimit, p.BadgeLimit+1)
		copy(badges, d.Badges[:p.BadgeLimit])
		d.Badges = append(badges, fmt.Sprintf("+%d", hidden))
	}
	return d
}

// Store holds the current policy behind an atomic snapshot.
type Store struct {
	path   string
	cur    atomic.Value // *Policy
	logger *slog.Logger
}

// NewStore creates a store for the given file; an empty path yields a
// permanent zero policy.
func NewStore(path string, logger *slog.Logger) *Store {
	s := &Store{path: path, logger: logger}
	s.cur.Store(&Policy{})
	return s
}

// Load reads and replaces the current policy.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read policy: %w", err)
	}
	var p Policy
	if err := yaml.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	p.normalize()
	s.cur.Store(&p)
	s.logger.Info("display policy loaded", "path", s.path)
	return nil
}

// Watch reloads the policy whenever the file changes, until ctx is done.
func (s *Store) Watch(ctx context.Context) {
	if s.path == "" {
		return
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Error("watcher", "err", err)
		return
	}
	defer w.Close()
	_ = w.Add(s.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-w.Events:
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				time.Sleep(200 * time.Millisecond)
				if err := s.Load(); err != nil {
					s.logger.Error("reload failed", "err", err)
				}
			}
		case err := <-w.Errors:
			s.logger.Error("watch error", "err", err)
		}
	}
}

// Get returns the current snapshot.
func (s *Store) Get() *Policy {
	return s.cur.Load().(*Policy)
}
