package tenant_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/yanizio/tenantgate/internal/tenant"
)

// memStore is an in-memory tenant.Lookup that counts queries and can be
// told to fail or to block until released.
type memStore struct {
	mu      sync.RWMutex
	byHost  map[string][]tenant.Tenant
	err     error
	gate    chan struct{}
	queries atomic.Int64
}

func newMemStore(ts ...tenant.Tenant) *memStore {
	s := &memStore{byHost: make(map[string][]tenant.Tenant)}
	for _, t := range ts {
		s.add(t)
	}
	return s
}

func (s *memStore) add(t tenant.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHost[t.Domain] = append(s.byHost[t.Domain], t)
}

func (s *memStore) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *memStore) ByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	s.queries.Add(1)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	rows := s.byHost[domain]
	switch len(rows) {
	case 0:
		return nil, tenant.ErrNotFound
	case 1:
		t := rows[0]
		return &t, nil
	default:
		return nil, tenant.ErrDuplicateDomain
	}
}

var (
	tenantA = tenant.Tenant{ID: 1, Domain: "a.example.com", Name: "Alpha", Color: "red"}
	tenantB = tenant.Tenant{ID: 2, Domain: "b.example.com", Name: "Bravo"}
)
