package server

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentThreadResponse struct {
	Comments []struct {
		models.Comment
		Replies []models.Comment `json:"replies"`
	} `json:"comments"`
}

func TestCreateComment(t *testing.T) {
	s, app, db := newTestServer(t)
	user := createTestUser(t, db, "jamie@example.com", models.RoleUser)
	post := seedPost(t, db, "Commented Post", "commented-post", models.StatusPublished)
	path := fmt.Sprintf("/api/posts/%d/comments", post.ID)

	t.Run("requires authentication", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, path, "", map[string]string{"content": "hi"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("snapshots the author identity", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, path, tokenFor(t, s, user.ID),
			map[string]string{"content": "Great pacing advice."})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment models.Comment
		decodeBody(t, resp, &comment)
		assert.Equal(t, user.DisplayName, comment.AuthorName)
		assert.Equal(t, post.ID, comment.PostID)
	})

	t.Run("rejects oversized content", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, path, tokenFor(t, s, user.ID),
			map[string]string{"content": strings.Repeat("x", models.MaxCommentLen+1)})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects unknown post", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/posts/9999/comments",
			tokenFor(t, s, user.ID), map[string]string{"content": "hello"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCommentOwnership(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleUser)
	stranger := createTestUser(t, db, "stranger@example.com", models.RoleUser)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	post := seedPost(t, db, "Moderated Post", "moderated-post", models.StatusPublished)

	createPath := fmt.Sprintf("/api/posts/%d/comments", post.ID)
	resp := doRequest(t, app, http.MethodPost, createPath, tokenFor(t, s, owner.ID),
		map[string]string{"content": "original"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment models.Comment
	decodeBody(t, resp, &comment)
	itemPath := fmt.Sprintf("/api/posts/%d/comments/%d", post.ID, comment.ID)

	t.Run("non-owner cannot edit", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, itemPath, tokenFor(t, s, stranger.ID),
			map[string]string{"content": "hijacked"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var stored models.Comment
		require.NoError(t, db.First(&stored, comment.ID).Error)
		assert.Equal(t, "original", stored.Content)
	})

	t.Run("owner edit marks the comment edited", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, itemPath, tokenFor(t, s, owner.ID),
			map[string]string{"content": "revised"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.Comment
		decodeBody(t, resp, &updated)
		assert.Equal(t, "revised", updated.Content)
		assert.NotNil(t, updated.EditedAt)
	})

	t.Run("admin can delete someone else's comment", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodDelete, itemPath, tokenFor(t, s, admin.ID), nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestCommentThreading(t *testing.T) {
	s, app, db := newTestServer(t)
	user := createTestUser(t, db, "jamie@example.com", models.RoleUser)
	post := seedPost(t, db, "Threaded Post", "threaded-post", models.StatusPublished)
	createPath := fmt.Sprintf("/api/posts/%d/comments", post.ID)

	resp := doRequest(t, app, http.MethodPost, createPath, tokenFor(t, s, user.ID),
		map[string]string{"content": "top level"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var parent models.Comment
	decodeBody(t, resp, &parent)

	resp = doRequest(t, app, http.MethodPost, createPath, tokenFor(t, s, user.ID),
		map[string]any{"content": "a reply", "parentId": parent.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, createPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var thread commentThreadResponse
	decodeBody(t, resp, &thread)
	require.Len(t, thread.Comments, 1)
	assert.Equal(t, "top level", thread.Comments[0].Content)
	require.Len(t, thread.Comments[0].Replies, 1)
	assert.Equal(t, "a reply", thread.Comments[0].Replies[0].Content)
}

func TestDeleteComment_CascadesToReplies(t *testing.T) {
	s, app, db := newTestServer(t)
	user := createTestUser(t, db, "jamie@example.com", models.RoleUser)
	post := seedPost(t, db, "Cascade Post", "cascade-post", models.StatusPublished)
	createPath := fmt.Sprintf("/api/posts/%d/comments", post.ID)

	resp := doRequest(t, app, http.MethodPost, createPath, tokenFor(t, s, user.ID),
		map[string]string{"content": "parent"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var parent models.Comment
	decodeBody(t, resp, &parent)

	resp = doRequest(t, app, http.MethodPost, createPath, tokenFor(t, s, user.ID),
		map[string]any{"content": "child", "parentId": parent.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/posts/%d/comments/%d", post.ID, parent.ID),
		tokenFor(t, s, user.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)
}
