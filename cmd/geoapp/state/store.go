package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/manzanit0/geoapp/pkg/adresse"
	"github.com/manzanit0/geoapp/pkg/geo"
)

type session struct {
	state        State
	lastSeen     time.Time
	cancelSearch context.CancelFunc
}

// Store keeps the state of every live session in memory. Sessions idle for
// longer than the ttl are dropped by Sweep.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*session

	regions []geo.Region

	// catalogErr is shown to every session when the regions could not be
	// loaded.
	catalogErr string
}

func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, now: time.Now, sessions: map[string]*session{}}
}

func (s *Store) Get(id string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session(id).state
}

func (s *Store) Dispatch(id string, a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(id)
	sess.state = Reduce(sess.state, a)
	return sess.state
}

// SetRegions publishes the region catalog to every session, current and
// future.
func (s *Store) SetRegions(regions []geo.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.regions = regions
	s.catalogErr = ""
	for _, sess := range s.sessions {
		sess.state = Reduce(sess.state, RegionsLoaded{Regions: regions})
	}
}

// FailRegions records that the region catalog could not be loaded.
func (s *Store) FailRegions(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalogErr = message
	for _, sess := range s.sessions {
		sess.state = Reduce(sess.state, Failed{Widget: WidgetRegions, Message: message})
	}
}

func (s *Store) Regions() []geo.Region {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.regions
}

// BeginSearch dispatches SearchIssued. When the query is long enough it
// cancels the search still in flight for the session and returns a context
// for the new one along with its generation.
func (s *Store) BeginSearch(ctx context.Context, id, query string) (context.Context, context.CancelFunc, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(id)
	sess.state = Reduce(sess.state, SearchIssued{Query: query})
	if !adresse.ShouldSearch(query) {
		return ctx, func() {}, 0, false
	}

	if sess.cancelSearch != nil {
		sess.cancelSearch()
	}

	searchCtx, cancel := context.WithCancel(ctx)
	sess.cancelSearch = cancel
	return searchCtx, cancel, sess.state.SearchGeneration, true
}

// BeginCommunes dispatches CommunesRequested and returns the generation the
// response must carry.
func (s *Store) BeginCommunes(id, departement string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(id)
	sess.state = Reduce(sess.state, CommunesRequested{Departement: departement})
	return sess.state.CommunesGeneration
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Sweep drops the sessions idle for longer than the ttl and returns how many
// were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			if sess.cancelSearch != nil {
				sess.cancelSearch()
			}

			delete(s.sessions, id)
			n++
		}
	}

	return n
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Info("expired sessions dropped", "count", n, "live", s.Len())
			}
		}
	}
}

// session must be called with mu held.
func (s *Store) session(id string) *session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{state: State{Regions: s.regions}}
		if s.catalogErr != "" {
			sess.state = Reduce(sess.state, Failed{Widget: WidgetRegions, Message: s.catalogErr})
		}

		s.sessions[id] = sess
	}

	sess.lastSeen = s.now()
	return sess
}
