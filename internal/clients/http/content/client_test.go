package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averost/commerce-api/internal/shared/fault"
)

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ", nil)
	require.Error(t, err)
}

func TestGetPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/posts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Post{
			{UserID: 1, ID: 1, Title: "first", Body: "hello"},
			{UserID: 2, ID: 2, Title: "second", Body: "world"},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	posts, err := client.GetPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "first", posts[0].Title)
}

func TestCreatePost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in NewPost
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Post{UserID: in.UserID, ID: 101, Title: in.Title, Body: in.Body})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	created, err := client.CreatePost(context.Background(), NewPost{UserID: 7, Title: "draft", Body: "text"})
	require.NoError(t, err)
	assert.Equal(t, 101, created.ID)
	assert.Equal(t, "draft", created.Title)
}

func TestCreatePost_RequiresTitle(t *testing.T) {
	client, err := NewClient("http://content.invalid", nil)
	require.NoError(t, err)

	_, err = client.CreatePost(context.Background(), NewPost{UserID: 1})
	require.Error(t, err)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
}

func TestGetPosts_UpstreamErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.GetPosts(context.Background())
	require.Error(t, err)
	assert.True(t, fault.IsTransient(err))
}