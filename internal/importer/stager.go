package importer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/balkashynov/logbook/internal/taxonomy"
)

// FamilyLookup reports whether a family is already stored.
type FamilyLookup func(ctx context.Context, key string) (bool, error)

// Options configures a Stager.
type Options struct {
	// TTL is how long a staged import stays committable. Zero never expires.
	TTL time.Duration
	// ReapInterval is how often StartReaper evicts expired entries.
	ReapInterval time.Duration
	// FamilyLookup refines IsNewFamily against stored families. Optional.
	FamilyLookup FamilyLookup
	Logger       *log.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Stager caches staged imports under opaque tokens until they are committed
// or expire.
type Stager struct {
	tax  *taxonomy.Taxonomy
	opts Options

	mu     sync.Mutex
	staged map[string]*Staged

	cron *cron.Cron
}

// NewStager creates a stager classifying families with tax.
func NewStager(tax *taxonomy.Taxonomy, opts Options) *Stager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ReapInterval <= 0 {
		opts.ReapInterval = time.Minute
	}
	return &Stager{
		tax:    tax,
		opts:   opts,
		staged: make(map[string]*Staged),
	}
}

// Stage parses the tables and caches the result. Nothing is cached when
// parsing fails.
func (s *Stager) Stage(ctx context.Context, primary Source, text *Source) (*Preview, error) {
	staged, err := Parse(primary, text, s.tax)
	if err != nil {
		return nil, err
	}

	if s.opts.FamilyLookup != nil {
		if err := s.markNewFamilies(ctx, staged); err != nil {
			return nil, err
		}
	}

	staged.Token = uuid.NewString()
	staged.CreatedAt = s.opts.Now()

	s.mu.Lock()
	s.staged[staged.Token] = staged
	s.mu.Unlock()

	for _, w := range staged.Warnings {
		s.opts.Logger.Warn("import", "file", primary.Name, "warning", w)
	}
	s.opts.Logger.Debug("import staged", "token", staged.Token, "session", staged.Label,
		"days", len(staged.Days), "categories", len(staged.Categories))

	preview := staged.Preview()
	if s.opts.TTL > 0 {
		exp := staged.CreatedAt.Add(s.opts.TTL)
		preview.ExpiresAt = &exp
	}
	return preview, nil
}

// markNewFamilies flags a category's family as new only if it is not stored
// and no earlier category in the file already introduces it.
func (s *Stager) markNewFamilies(ctx context.Context, staged *Staged) error {
	stored := make(map[string]bool)
	introduced := make(map[string]bool)
	for i := range staged.Categories {
		c := &staged.Categories[i]
		if c.FamilyKey == "" {
			continue
		}
		exists, ok := stored[c.FamilyKey]
		if !ok {
			var err error
			exists, err = s.opts.FamilyLookup(ctx, c.FamilyKey)
			if err != nil {
				return fmt.Errorf("look up family %q: %w", c.FamilyKey, err)
			}
			stored[c.FamilyKey] = exists
		}
		c.IsNewFamily = !exists && !introduced[c.FamilyKey]
		introduced[c.FamilyKey] = true
	}
	return nil
}

// Get returns a staged import that has not expired.
func (s *Stager) Get(token string) (*Staged, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged, ok := s.staged[token]
	if !ok || s.expired(staged) {
		return nil, false
	}
	return staged, true
}

// take removes and returns a staged import. An expired entry is removed and
// reported as unknown.
func (s *Stager) take(token string) (*Staged, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged, ok := s.staged[token]
	if !ok {
		return nil, false
	}
	delete(s.staged, token)
	if s.expired(staged) {
		s.opts.Logger.Warn("staged import expired", "token", token, "session", staged.Label)
		return nil, false
	}
	return staged, true
}

// Discard drops a staged import. It reports whether the token was present.
func (s *Stager) Discard(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.staged[token]
	delete(s.staged, token)
	return ok
}

// Len returns the number of cached imports, expired or not.
func (s *Stager) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged)
}

// Reap evicts expired entries and returns how many were removed.
func (s *Stager) Reap() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, staged := range s.staged {
		if s.expired(staged) {
			delete(s.staged, token)
			removed++
			s.opts.Logger.Warn("staged import expired", "token", token, "session", staged.Label)
		}
	}
	return removed
}

func (s *Stager) expired(staged *Staged) bool {
	return s.opts.TTL > 0 && s.opts.Now().Sub(staged.CreatedAt) >= s.opts.TTL
}

// StartReaper evicts expired entries every ReapInterval until Stop.
// Without a TTL there is nothing to reap and no job is scheduled.
func (s *Stager) StartReaper() error {
	if s.opts.TTL <= 0 || s.cron != nil {
		return nil
	}

	seconds := int(s.opts.ReapInterval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %ds", seconds), func() { s.Reap() }); err != nil {
		return fmt.Errorf("schedule reaper: %w", err)
	}
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the reaper and waits for a running reap to finish.
func (s *Stager) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron = nil
}
