package promptbuild

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAppendAndLast(t *testing.T) {
	s := NewSession("s1", 0)
	_, ok := s.Last()
	require.False(t, ok)

	first := NewEntry(Result{Prompt: "one", Template: "default"})
	second := NewEntry(Result{Prompt: "two", Template: "classic", Sections: []string{"Goal"}})
	s.Append(first)
	s.Append(second)

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "two", last.Prompt)
	assert.Equal(t, 2, s.Len())

	got, ok := s.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, "one", got.Prompt)

	_, ok = s.Get("missing")
	assert.False(t, ok)

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "one", entries[0].Prompt)
	assert.Equal(t, "two", entries[1].Prompt)
}

func TestSessionEntriesIsACopy(t *testing.T) {
	s := NewSession("s1", 0)
	s.Append(NewEntry(Result{Prompt: "one"}))

	entries := s.Entries()
	entries[0].Prompt = "mutated"

	last, _ := s.Last()
	assert.Equal(t, "one", last.Prompt)
}

func TestSessionLimitDropsOldest(t *testing.T) {
	s := NewSession("s1", 2)
	for _, p := range []string{"a", "b", "c"} {
		s.Append(NewEntry(Result{Prompt: p}))
	}
	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Prompt)
	assert.Equal(t, "c", entries[1].Prompt)
}

func TestSessionClear(t *testing.T) {
	s := NewSession("s1", 0)
	s.Append(NewEntry(Result{Prompt: "a"}))
	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, ok := s.Last()
	assert.False(t, ok)
}

func TestSessionIdleSince(t *testing.T) {
	s := NewSession("s1", 0)
	assert.False(t, s.IdleSince(time.Now().Add(-time.Minute)))
	assert.True(t, s.IdleSince(time.Now().Add(time.Minute)))
}

func TestSessionConcurrentAppend(t *testing.T) {
	s := NewSession("s1", 0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(NewEntry(Result{Prompt: "p"}))
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, s.Len())
}

func TestNewEntryAssignsIDAndTime(t *testing.T) {
	e := NewEntry(Result{Prompt: "p", Template: "default", Sections: []string{"Goal"}})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, []string{"Goal"}, e.Sections)
}

func TestWriteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", DefaultExportName)
	doc := "### Goal\n\nCiao è così"
	require.NoError(t, WriteExport(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, string(data))
}
