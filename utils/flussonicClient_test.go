package utils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlussonicPut(t *testing.T) {
	var (
		path, contentType, body string
		user, pass              string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		path = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		user, pass, _ = r.BasicAuth()
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewFlussonicClient(FlussonicConfig{URL: server.URL, User: "admin", Password: "pw", VODName: "vod"})
	require.True(t, client.Configured())

	url, err := client.Put(context.Background(), "abc.mp4", "video/mp4", strings.NewReader("frames"))
	require.NoError(t, err)

	assert.Equal(t, "/streamer/api/v3/vods/vod/storages/0/files/abc.mp4", path)
	assert.Equal(t, "video/mp4", contentType)
	assert.Equal(t, "frames", body)
	assert.Equal(t, "admin", user)
	assert.Equal(t, "pw", pass)
	assert.Equal(t, server.URL+"/vod/abc.mp4/index.m3u8", url)
}

func TestFlussonicPutFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewFlussonicClient(FlussonicConfig{URL: server.URL, User: "admin", Password: "pw", VODName: "vod"})
	_, err := client.Put(context.Background(), "abc.mp4", "video/mp4", strings.NewReader("frames"))
	assert.Error(t, err)
}

func TestFlussonicConfigured(t *testing.T) {
	assert.False(t, NewFlussonicClient(FlussonicConfig{URL: "http://vod", User: "u", Password: "p"}).Configured())
}

func TestFlussonicConfigureCORS(t *testing.T) {
	var payload map[string]map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/streamer/api/v3/vods/vod", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	}))
	defer server.Close()

	client := NewFlussonicClient(FlussonicConfig{URL: server.URL, User: "admin", Password: "pw", VODName: "vod"})
	require.NoError(t, client.ConfigureCORS(context.Background(), []string{"https://lms.corp.com"}))
	assert.Equal(t, []interface{}{"https://lms.corp.com"}, payload["cors"]["domains"])
}
