package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory() *Memory {
	m := NewMemory()
	m.Now = func() time.Time {
		return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	}
	return m
}

func TestCreateResolvesServerTimestamps(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	id, err := m.Create(ctx, "facultyAvailability", Fields{
		"userId":    "fac-1",
		"startedAt": ServerTimestamp,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	docs, err := m.Query(ctx, "facultyAvailability", Query{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "2025-03-10T09:00:00.000000000Z", docs[0].Fields["startedAt"])
}

func TestQueryFilters(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	_, err := m.Create(ctx, "c", Fields{"userId": "a", "state": "Available"})
	require.NoError(t, err)
	_, err = m.Create(ctx, "c", Fields{"userId": "a", "state": "Unavailable"})
	require.NoError(t, err)
	_, err = m.Create(ctx, "c", Fields{"userId": "b", "state": "Available"})
	require.NoError(t, err)

	docs, err := m.Query(ctx, "c", Query{Filters: []Filter{
		{Field: "userId", Value: "a"},
		{Field: "state", Value: "Available"},
	}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].Fields["userId"])
}

// A nil filter value means "field absent", which is how open intervals are
// distinguished from closed ones.
func TestQueryNilValueMeansAbsent(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	openID, err := m.Create(ctx, "c", Fields{"userId": "a"})
	require.NoError(t, err)
	_, err = m.Create(ctx, "c", Fields{"userId": "a", "endedAt": "2025-03-10T09:00:00.000000000Z"})
	require.NoError(t, err)

	docs, err := m.Query(ctx, "c", Query{Filters: []Filter{
		{Field: "endedAt", Value: nil},
	}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, openID, docs[0].ID)
}

func TestQueryOrderDescAndLimit(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	for _, stamp := range []string{
		"2025-03-10T09:00:00.000000000Z",
		"2025-03-10T11:00:00.000000000Z",
		"2025-03-10T10:00:00.000000000Z",
	} {
		_, err := m.Create(ctx, "c", Fields{"startedAt": stamp})
		require.NoError(t, err)
	}

	docs, err := m.Query(ctx, "c", Query{OrderBy: "startedAt", Desc: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "2025-03-10T11:00:00.000000000Z", docs[0].Fields["startedAt"])
	assert.Equal(t, "2025-03-10T10:00:00.000000000Z", docs[1].Fields["startedAt"])
}

func TestUpdateMergesPartial(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	id, err := m.Create(ctx, "c", Fields{"userId": "a", "state": "Available"})
	require.NoError(t, err)

	err = m.Update(ctx, "c", id, Fields{"responded": true, "respondedAt": ServerTimestamp})
	require.NoError(t, err)

	docs, err := m.Query(ctx, "c", Query{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].Fields["userId"])
	assert.Equal(t, true, docs[0].Fields["responded"])
	assert.Equal(t, "2025-03-10T09:00:00.000000000Z", docs[0].Fields["respondedAt"])
}

func TestUpdateMissingDoc(t *testing.T) {
	m := newTestMemory()
	err := m.Update(context.Background(), "c", "no-such-id", Fields{"x": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	id, err := m.Create(ctx, "c", Fields{"userId": "a"})
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, "c", id))

	docs, err := m.Query(ctx, "c", Query{})
	require.NoError(t, err)
	assert.Empty(t, docs)

	assert.ErrorIs(t, m.Delete(ctx, "c", id), ErrNotFound)
}

func TestQueryReturnsClones(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	_, err := m.Create(ctx, "c", Fields{"userId": "a"})
	require.NoError(t, err)

	docs, err := m.Query(ctx, "c", Query{})
	require.NoError(t, err)
	docs[0].Fields["userId"] = "mutated"

	docs, err = m.Query(ctx, "c", Query{})
	require.NoError(t, err)
	assert.Equal(t, "a", docs[0].Fields["userId"])
}

func TestTimeRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 123456789, time.UTC)
	parsed, err := ParseTime(FormatTime(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(parsed))
}
