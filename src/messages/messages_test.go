package message

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shrikebot/shrike/src/rest"
)

func TestCreateMessage(t *testing.T) {
	var gotPath string
	var gotBody CreateMessageData
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"m1","channel_id":"c1","content":"hello"}`))
	}))
	defer server.Close()

	api := New(rest.NewREST(server.URL, "token"))
	msg, err := api.CreateMessage(context.Background(), "c1", CreateMessageData{Content: "hello"})
	require.NoError(t, err)
	require.Equal(t, "/channels/c1/messages", gotPath)
	require.Equal(t, "hello", gotBody.Content)
	require.Equal(t, "m1", msg.ID)
	require.Equal(t, "c1", msg.ChannelID)
}

func TestCreateMessageForwardsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Missing Access","code":50001}`))
	}))
	defer server.Close()

	api := New(rest.NewREST(server.URL, "token"))
	_, err := api.CreateMessage(context.Background(), "c1", CreateMessageData{Content: "hello"})
	require.ErrorIs(t, err, rest.ErrForbidden)
}

func TestDeleteMessage(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	api := New(rest.NewREST(server.URL, "token"))
	err := api.DeleteMessage(context.Background(), "c1", "m1", nil)
	require.NoError(t, err)
	require.Equal(t, "/channels/c1/messages/m1", gotPath)
	require.Equal(t, http.MethodDelete, gotMethod)
}
