package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"frontend-go/config"

	"github.com/google/uuid"
)

var ErrPageNotFound = errors.New("page not found")

type entry struct {
	owner string
	page  Page
	seen  time.Time
}

// Registry tracks mounted pages per browser session. Pages idle for longer
// than the ttl are unmounted by Sweep.
type Registry struct {
	mu    sync.Mutex
	pages map[string]*entry
	ttl   time.Duration
	now   func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		pages: make(map[string]*entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Mount registers p for owner and returns its page id.
func (r *Registry) Mount(owner string, p Page) string {
	id := uuid.NewString()
	p.setID(id)

	r.mu.Lock()
	r.pages[id] = &entry{owner: owner, page: p, seen: r.now()}
	r.mu.Unlock()
	return id
}

// Get returns the page if it exists and belongs to owner.
func (r *Registry) Get(owner, id string) (Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pages[id]
	if !ok || e.owner != owner {
		return nil, ErrPageNotFound
	}
	e.seen = r.now()
	return e.page, nil
}

// Touch marks the page as active without looking it up. Long-lived traffic
// that bypasses Get, such as a chat bridge, keeps its page alive this way.
func (r *Registry) Touch(owner, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pages[id]
	if !ok || e.owner != owner {
		return false
	}
	e.seen = r.now()
	return true
}

// Lookup is Get narrowed to a concrete view type.
func Lookup[T Page](r *Registry, owner, id string) (T, error) {
	var zero T
	p, err := r.Get(owner, id)
	if err != nil {
		return zero, err
	}
	t, ok := p.(T)
	if !ok {
		return zero, ErrPageNotFound
	}
	return t, nil
}

func (r *Registry) Unmount(owner, id string) error {
	r.mu.Lock()
	e, ok := r.pages[id]
	if !ok || e.owner != owner {
		r.mu.Unlock()
		return ErrPageNotFound
	}
	delete(r.pages, id)
	r.mu.Unlock()

	e.page.Unmount()
	return nil
}

// Len reports how many pages are mounted.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Sweep unmounts idle pages and returns how many were released.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var stale []Page
	for id, e := range r.pages {
		if e.seen.Before(cutoff) {
			stale = append(stale, e.page)
			delete(r.pages, id)
		}
	}
	r.mu.Unlock()

	for _, p := range stale {
		p.Unmount()
	}
	return len(stale)
}

// Run sweeps every minute until ctx is done, then unmounts everything.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				config.Log.WithField("pages", n).Debug("unmounted idle pages")
			}
		}
	}
}

// Close unmounts every page.
func (r *Registry) Close() {
	r.mu.Lock()
	pages := r.pages
	r.pages = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range pages {
		e.page.Unmount()
	}
}
