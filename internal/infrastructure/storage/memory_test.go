package storage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prg-tools/dispatch-backend/internal/application/service"
	"github.com/prg-tools/dispatch-backend/internal/domain/normalizer"
	"github.com/prg-tools/dispatch-backend/internal/infrastructure/config"
)

func newTestSession(t *testing.T, store *SessionStore) *Session {
	t.Helper()

	cfg := &config.Config{
		Allocation: config.AllocationConfig{Strategy: "sequential-priority", DefaultPriority: "regular"},
	}
	svc, err := service.New(cfg, nil)
	require.NoError(t, err)

	orders := normalizer.Dataset{
		Columns: []string{"Product", "Client", "Qty"},
		Rows: [][]string{
			{"P1", "Acme", "8"},
			{"P1", "Bolt", "8"},
		},
	}
	stock := normalizer.Dataset{
		Columns: []string{"Product", "Qty"},
		Rows:    [][]string{{"P1", "10"}},
	}
	_, err = svc.Run(orders, stock,
		normalizer.OrdersMapping{Product: "Product", Client: "Client", Quantity: "Qty"},
		normalizer.StockMapping{Product: "Product", Quantity: "Qty"})
	require.NoError(t, err)

	return store.Create(svc)
}

func TestSessionStore_CreateGetDelete(t *testing.T) {
	store := NewSessionStore()
	assert.Equal(t, 0, store.Len())

	session := newTestSession(t, store)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, 1, store.Len())

	got, ok := store.Get(session.ID)
	require.True(t, ok)
	assert.Same(t, session, got)

	_, ok = store.Get("missing")
	assert.False(t, ok)

	store.Delete(session.ID)
	assert.Equal(t, 0, store.Len())
	store.Delete(session.ID) // no-op
}

func TestSessionStore_DistinctIDs(t *testing.T) {
	store := NewSessionStore()
	a := newTestSession(t, store)
	b := newTestSession(t, store)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, store.Len())
}

func TestSession_OverrideAndSummary(t *testing.T) {
	store := NewSessionStore()
	session := newTestSession(t, store)

	records := session.Records()
	require.Len(t, records, 2)
	assert.Equal(t, 8, records[0].ToGive)
	assert.Equal(t, 2, records[1].ToGive)

	rec, err := session.Override(records[1].Line.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, 8, rec.ToGive)

	summary := session.Summary()
	assert.Equal(t, 16, summary.TotalGiven)
	assert.Equal(t, -6, summary.Audit[0].Unallocated)
}

func TestSession_ConcurrentOverrides(t *testing.T) {
	store := NewSessionStore()
	session := newTestSession(t, store)
	lineID := session.Records()[0].Line.ID

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(qty int) {
			defer wg.Done()
			_, err := session.Override(lineID, qty)
			assert.NoError(t, err)
			session.Summary()
		}(i)
	}
	wg.Wait()

	rec := session.Records()[0]
	assert.GreaterOrEqual(t, rec.ToGive, 0)
	assert.LessOrEqual(t, rec.ToGive, rec.Line.Requested)
}
