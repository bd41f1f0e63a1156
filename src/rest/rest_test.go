package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoSendsMandatoryHeaders(t *testing.T) {
	var gotAuth, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id":"42","username":"shrike"}`))
	}))
	defer server.Close()

	r := NewREST(server.URL, "secret-token")
	data, err := r.Get(context.Background(), "/users/@me", nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"42","username":"shrike"}`, string(data))
	require.Equal(t, "Bot secret-token", gotAuth)
	require.Equal(t, "application/json; charset=UTF-8", gotContentType)
}

func TestDoEncodesBody(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	r := NewREST(server.URL, "secret-token")
	_, err := r.Post(context.Background(), "/channels/1/messages",
		map[string]string{"content": "hello"}, nil)
	require.NoError(t, err)
	require.Equal(t, "hello", gotBody["content"])
}

func TestStatusCodeTranslation(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		wantErr error
	}{
		{http.StatusBadRequest, `{"message":"Invalid Form Body","code":50035}`, ErrBadRequest},
		{http.StatusUnauthorized, `{"message":"401: Unauthorized","code":0}`, ErrUnauthorized},
		{http.StatusForbidden, `{"message":"Missing Access","code":50001}`, ErrForbidden},
		{http.StatusNotFound, `{"message":"Unknown Channel","code":10003}`, ErrNotFound},
		{http.StatusTooManyRequests, `{"message":"You are being rate limited.","code":0}`, ErrRateLimited},
		{http.StatusBadGateway, `{"message":"Bad Gateway","code":0}`, ErrServer},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(tt.body))
		}))
		r := NewREST(server.URL, "secret-token")
		_, err := r.Get(context.Background(), "/anything", nil)
		require.ErrorIs(t, err, tt.wantErr, "status %d", tt.status)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, tt.status, apiErr.StatusCode)
		server.Close()
	}
}

func TestForbiddenCarriesAPIErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Missing Access","code":50001}`))
	}))
	defer server.Close()

	r := NewREST(server.URL, "secret-token")
	_, err := r.Get(context.Background(), "/guilds/1", nil)
	require.ErrorIs(t, err, ErrForbidden)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Missing Access", apiErr.Message)
	require.Equal(t, APIErrorMissingAccess, apiErr.Code)
}

func TestExtraHeaders(t *testing.T) {
	var gotReason string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReason = r.Header.Get("X-Audit-Log-Reason")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	r := NewREST(server.URL, "secret-token")
	_, err := r.Delete(context.Background(), "/channels/1",
		&Options{Headers: map[string]string{"X-Audit-Log-Reason": "cleanup"}})
	require.NoError(t, err)
	require.Equal(t, "cleanup", gotReason)
}
