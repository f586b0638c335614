package handle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoncreds/pkg/anoncreds/apperr"
)

type widget struct {
	Name string `json:"name"`
}

func TestCreateLoadRemove(t *testing.T) {
	s := NewStore()
	h := Create(s, "widget", widget{Name: "gear"})
	assert.False(t, h.IsNone())

	got, err := Load[widget](s, h, "widget")
	require.NoError(t, err)
	assert.Equal(t, "gear", got.Name)

	Remove(s, h)
	_, err = Load[widget](s, h, "widget")
	assert.Equal(t, apperr.InvalidState, apperr.KindOf(err))
}

func TestLoadNoneHandle(t *testing.T) {
	s := NewStore()
	_, err := Load[widget](s, None, "widget")
	assert.Equal(t, apperr.Input, apperr.KindOf(err))
}

func TestOptLoadNoneHandle(t *testing.T) {
	s := NewStore()
	got, err := OptLoad[widget](s, None, "widget")
	require.NoError(t, err)
	assert.Equal(t, widget{}, got)
}

func TestLoadTypeMismatch(t *testing.T) {
	s := NewStore()
	h := Create(s, "widget", widget{Name: "gear"})
	_, err := Load[widget](s, h, "gadget")
	assert.Equal(t, apperr.Input, apperr.KindOf(err))
}

func TestHandlesAreMonotonicAndUnique(t *testing.T) {
	s := NewStore()
	h1 := Create(s, "widget", widget{Name: "a"})
	h2 := Create(s, "widget", widget{Name: "b"})
	assert.NotEqual(t, h1, h2)
	assert.Less(t, h1, h2)
}

func TestToJSONFromJSONRoundTrip(t *testing.T) {
	s := NewStore()
	h := Create(s, "widget", widget{Name: "gear"})
	data, err := ToJSON[widget](s, h, "widget")
	require.NoError(t, err)

	h2, err := FromJSON[widget](s, "widget", data)
	require.NoError(t, err)
	got, err := Load[widget](s, h2, "widget")
	require.NoError(t, err)
	assert.Equal(t, "gear", got.Name)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := NewStore()
	h := Create(s, "widget", widget{Name: "gear"})
	Remove(s, h)
	assert.NotPanics(t, func() { Remove(s, h) })
	assert.NotPanics(t, func() { Remove(s, None) })
}

// TestConcurrentCreateLoadRemoveIsAtomic drives many goroutines through
// Create/Load/Remove on one shared store to catch data races and confirm
// each handle is only ever visible as fully-formed or fully-gone, never a
// torn intermediate state.
func TestConcurrentCreateLoadRemoveIsAtomic(t *testing.T) {
	s := NewStore()
	const goroutines = 50
	const perGoroutine = 40

	var wg sync.WaitGroup
	handles := make(chan Handle, goroutines*perGoroutine)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				h := Create(s, "widget", widget{Name: "gear"})
				got, err := Load[widget](s, h, "widget")
				require.NoError(t, err)
				assert.Equal(t, "gear", got.Name)
				handles <- h
			}
		}(g)
	}
	wg.Wait()
	close(handles)

	seen := make(map[Handle]bool, goroutines*perGoroutine)
	for h := range handles {
		assert.False(t, seen[h], "handle %s issued twice under concurrent Create", h)
		seen[h] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)

	var removeWg sync.WaitGroup
	for h := range seen {
		removeWg.Add(1)
		go func(h Handle) {
			defer removeWg.Done()
			Remove(s, h)
		}(h)
	}
	removeWg.Wait()

	for h := range seen {
		_, err := Load[widget](s, h, "widget")
		assert.Equal(t, apperr.InvalidState, apperr.KindOf(err))
	}
}
