package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdsposter/internal/domain"
	"sdsposter/internal/session"
)

func record(name string) domain.HazardRecord {
	return domain.AssembleRecord(&domain.HazardRecord{
		BasicInfo: domain.BasicInfo{ProductName: domain.MultilingualText{EN: name}},
	})
}

func TestStore_CommitAndCurrent(t *testing.T) {
	s := session.NewStore(time.Hour, time.Minute)

	_, ok := s.Current("s1")
	assert.False(t, ok)

	ticket := s.Begin("s1")
	_, ok = s.Current("s1")
	assert.False(t, ok, "no record before commit")

	require.True(t, s.Commit(ticket, record("Acetone")))

	snap, ok := s.Current("s1")
	require.True(t, ok)
	assert.Equal(t, "Acetone", snap.Record.BasicInfo.ProductName.EN)
	assert.Equal(t, ticket.Generation, snap.Generation)
	assert.False(t, snap.UpdatedAt.IsZero())
}

func TestStore_StaleCommitRejected(t *testing.T) {
	s := session.NewStore(time.Hour, time.Minute)

	first := s.Begin("s1")
	second := s.Begin("s1")
	assert.Greater(t, second.Generation, first.Generation)

	require.True(t, s.Commit(second, record("Second")))
	assert.False(t, s.Commit(first, record("First")), "older response must not overwrite newer upload")

	snap, ok := s.Current("s1")
	require.True(t, ok)
	assert.Equal(t, "Second", snap.Record.BasicInfo.ProductName.EN)
}

func TestStore_SlowFirstResponseCannotWin(t *testing.T) {
	s := session.NewStore(time.Hour, time.Minute)

	first := s.Begin("s1")
	second := s.Begin("s1")

	// the first response arrives before the second one
	assert.False(t, s.Commit(first, record("First")))
	assert.True(t, s.Commit(second, record("Second")))
}

func TestStore_FailedExtractionKeepsPriorRecord(t *testing.T) {
	s := session.NewStore(time.Hour, time.Minute)

	require.True(t, s.Commit(s.Begin("s1"), record("Prior")))
	_ = s.Begin("s1") // extraction that fails and never commits

	snap, ok := s.Current("s1")
	require.True(t, ok)
	assert.Equal(t, "Prior", snap.Record.BasicInfo.ProductName.EN)
}

func TestStore_Reset(t *testing.T) {
	s := session.NewStore(time.Hour, time.Minute)

	require.True(t, s.Commit(s.Begin("s1"), record("Prior")))
	inFlight := s.Begin("s1")

	s.Reset("s1")

	_, ok := s.Current("s1")
	assert.False(t, ok)
	assert.False(t, s.Commit(inFlight, record("Late")), "reset invalidates in-flight extraction")

	s.Reset("unknown")
	_, ok = s.Current("unknown")
	assert.False(t, ok)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := session.NewStore(time.Hour, time.Minute)

	a := s.Begin("a")
	b := s.Begin("b")
	require.True(t, s.Commit(a, record("A")))
	require.True(t, s.Commit(b, record("B")))

	snapA, _ := s.Current("a")
	snapB, _ := s.Current("b")
	assert.Equal(t, "A", snapA.Record.BasicInfo.ProductName.EN)
	assert.Equal(t, "B", snapB.Record.BasicInfo.ProductName.EN)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Expiry(t *testing.T) {
	s := session.NewStore(30*time.Millisecond, time.Hour)

	ticket := s.Begin("s1")
	time.Sleep(60 * time.Millisecond)

	assert.False(t, s.Commit(ticket, record("Late")), "expired slot cannot be committed")

	require.True(t, s.Commit(s.Begin("s1"), record("Fresh")))
	time.Sleep(60 * time.Millisecond)
	_, ok := s.Current("s1")
	assert.False(t, ok)
}

func TestStore_ExpiredTicketCannotCommitToNewSlot(t *testing.T) {
	s := session.NewStore(30*time.Millisecond, time.Hour)

	old := s.Begin("s1")
	time.Sleep(60 * time.Millisecond)
	fresh := s.Begin("s1")

	assert.NotEqual(t, old.Generation, fresh.Generation)
	assert.False(t, s.Commit(old, record("Old")))
	assert.True(t, s.Commit(fresh, record("Fresh")))
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := session.NewStore(time.Hour, time.Minute)
	require.True(t, s.Commit(s.Begin("s1"), record("Acetone")))

	snap, _ := s.Current("s1")
	snap.Record.BasicInfo.ProductName.EN = "changed"

	again, _ := s.Current("s1")
	assert.Equal(t, "Acetone", again.Record.BasicInfo.ProductName.EN)
}

func TestStore_ConcurrentBegins(t *testing.T) {
	s := session.NewStore(time.Hour, time.Minute)

	const n = 50
	tickets := make(chan session.Ticket, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tickets <- s.Begin("s1")
		}()
	}
	wg.Wait()
	close(tickets)

	committed := 0
	seen := map[uint64]bool{}
	for ticket := range tickets {
		assert.False(t, seen[ticket.Generation], "generations are unique")
		seen[ticket.Generation] = true
		if s.Commit(ticket, record("x")) {
			committed++
		}
	}
	assert.Equal(t, 1, committed, "only the latest ticket commits")
}
