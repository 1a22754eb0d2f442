// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON_DecodesBody(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"results":[{"id":7}]}`))
	}))
	defer ts.Close()

	var body struct {
		Results []struct {
			ID int `json:"id"`
		} `json:"results"`
	}
	status, err := GetJSON(context.Background(), ts.Client(), ts.URL, "forage-engine/test", &body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "forage-engine/test", gotUA)
	require.Len(t, body.Results, 1)
	assert.Equal(t, 7, body.Results[0].ID)
}

func TestGetJSON_Non200LeavesOutUntouched(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	body := map[string]any{"sentinel": true}
	status, err := GetJSON(context.Background(), ts.Client(), ts.URL, "", &body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, map[string]any{"sentinel": true}, body)
}

func TestGetJSON_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	ts.Close()

	var body map[string]any
	_, err := GetJSON(context.Background(), http.DefaultClient, ts.URL, "", &body)
	assert.Error(t, err)
}

func TestGetJSON_MalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results": [`))
	}))
	defer ts.Close()

	var body map[string]any
	_, err := GetJSON(context.Background(), ts.Client(), ts.URL, "", &body)
	assert.ErrorContains(t, err, "parsing response")
}
