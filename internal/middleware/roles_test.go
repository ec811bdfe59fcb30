package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"piata/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func requestWithRole(userID int, role string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/my-shops", nil)
	ctx := context.WithValue(r.Context(), ContextUserID, userID)
	ctx = context.WithValue(ctx, ContextRole, role)
	return r.WithContext(ctx)
}

func TestOnlyRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := OnlyRole(models.RoleProducer)(ok)

	t.Run("нужная роль проходит", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, requestWithRole(10, models.RoleProducer))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("чужая роль отклоняется", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, requestWithRole(2, models.RoleUser))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("админ проходит через фастлейн", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain := AdminFastLane(guard)
		chain.ServeHTTP(rec, requestWithRole(99, models.RoleAdmin))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAnyRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := AnyRole(models.RoleUser, models.RoleProducer)(ok)

	t.Run("роль из списка проходит", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, requestWithRole(2, models.RoleUser))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("без роли в контексте — forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/my-shops", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestPrincipalFromCtx(t *testing.T) {
	r := requestWithRole(10, models.RoleProducer)
	principal, ok := PrincipalFromCtx(r.Context())
	assert.True(t, ok)
	assert.Equal(t, models.Principal{ID: 10, Role: models.RoleProducer}, principal)

	_, ok = PrincipalFromCtx(context.Background())
	assert.False(t, ok)
}
