package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wishModel "github.com/zhouzirui/wish-santa/backend/internal/model/wish"
	"github.com/zhouzirui/wish-santa/backend/internal/service/assignment"
	"github.com/zhouzirui/wish-santa/backend/internal/storage"
)

func TestRouterServesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assignments.json")
	store := storage.NewAssignmentStore(path, nil)
	pool := []wishModel.Wish{{Name: "A", Trigram: "AAA", Wish: "W1"}}
	router := NewRouter(assignment.NewService(pool, store.Load(), store), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "W1")
	assert.Equal(t, map[string]wishModel.Wish{"1.2.3.4": pool[0]}, storage.NewAssignmentStore(path, nil).Load())
}

func TestRouterUnknownPath(t *testing.T) {
	router := NewRouter(assignment.NewService(nil, nil, nil), nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/other", nil))

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
