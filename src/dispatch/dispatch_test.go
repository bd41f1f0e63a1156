package dispatch

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testDispatcher() *Dispatcher {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		require.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func TestRegisterNilHandler(t *testing.T) {
	d := testDispatcher()
	_, err := d.Register("message_create", nil)
	require.ErrorIs(t, err, ErrNilHandler)
}

func TestFireInvokesAllHandlers(t *testing.T) {
	d := testDispatcher()
	calls := make(chan string, 4)
	_, err := d.Register("message_create", func(event string, data json.RawMessage) {
		calls <- "first:" + string(data)
	})
	require.NoError(t, err)
	_, err = d.Register("message_create", func(event string, data json.RawMessage) {
		calls <- "second:" + string(data)
	})
	require.NoError(t, err)

	d.Fire("message_create", json.RawMessage(`{"content":"hi"}`))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case c := <-calls:
			got[c] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for handlers")
		}
	}
	require.True(t, got[`first:{"content":"hi"}`])
	require.True(t, got[`second:{"content":"hi"}`])
}

func TestFireUnknownEventIsNoop(t *testing.T) {
	d := testDispatcher()
	d.Fire("nobody_listens", nil)
}

func TestPanickingHandlerIsIsolated(t *testing.T) {
	d := testDispatcher()
	calls := make(chan string, 4)
	_, err := d.Register("ready", func(event string, data json.RawMessage) {
		panic("handler bug")
	})
	require.NoError(t, err)
	_, err = d.Register("ready", func(event string, data json.RawMessage) {
		calls <- "survivor"
	})
	require.NoError(t, err)

	d.Fire("ready", nil)
	waitFor(t, calls, "survivor")

	// The dispatcher stays usable after a panic.
	d.Fire("ready", nil)
	waitFor(t, calls, "survivor")
}

func TestRemoveFunctionRemovesOnlyItsHandler(t *testing.T) {
	d := testDispatcher()
	calls := make(chan string, 4)
	remove, err := d.Register("guild_create", func(event string, data json.RawMessage) {
		calls <- "removed"
	})
	require.NoError(t, err)
	_, err = d.Register("guild_create", func(event string, data json.RawMessage) {
		calls <- "kept"
	})
	require.NoError(t, err)

	remove()
	d.Fire("guild_create", nil)
	waitFor(t, calls, "kept")
	require.Empty(t, calls)
}

func TestUnregisterRemovesAllHandlers(t *testing.T) {
	d := testDispatcher()
	_, err := d.Register("ready", func(event string, data json.RawMessage) {})
	require.NoError(t, err)
	_, err = d.Register("ready", func(event string, data json.RawMessage) {})
	require.NoError(t, err)
	require.Equal(t, []string{"ready"}, d.EventNames())

	d.Unregister("ready")
	require.Empty(t, d.EventNames())
}

func TestEventNames(t *testing.T) {
	d := testDispatcher()
	_, err := d.Register("ready", func(event string, data json.RawMessage) {})
	require.NoError(t, err)
	remove, err := d.Register("message_create", func(event string, data json.RawMessage) {})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ready", "message_create"}, d.EventNames())

	remove()
	require.ElementsMatch(t, []string{"ready"}, d.EventNames())
}

func TestConcurrentRegisterAndFire(t *testing.T) {
	d := testDispatcher()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			remove, err := d.Register("message_create", func(event string, data json.RawMessage) {})
			if err != nil {
				t.Error(err)
				return
			}
			remove()
		}
	}()
	for i := 0; i < 100; i++ {
		d.Fire("message_create", nil)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent registration did not finish")
	}
}
