package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolmanager/internal/config"
	"github.com/yigit/schoolmanager/internal/pkg/cache"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.MemoryStore = true
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.JWT.Issuer = "schoolmanager.test"
	return cfg
}

func TestMemoryStoreServesSeededSchool(t *testing.T) {
	cfg := memoryConfig()
	deps, err := BuildDependencies(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer deps.Close()

	assert.Nil(t, deps.DBPool)
	assert.IsType(t, &cache.Memory{}, deps.Cache)

	router := SetupRouter(cfg, deps, zerolog.Nop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/school/all", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body struct {
		View string `json:"view"`
		Data struct {
			Schools []struct {
				Name string `json:"name"`
			} `json:"schools"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "school/all_schools", body.View)
	require.Len(t, body.Data.Schools, 1)
	assert.Equal(t, "Lincoln High", body.Data.Schools[0].Name)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestNewJWTServiceRejectsBadExpiration(t *testing.T) {
	cfg := memoryConfig()
	cfg.JWT.AccessTokenExpiration = "soon"
	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}

func TestSetupCacheWithoutRedis(t *testing.T) {
	cfg := memoryConfig()
	cfg.Server.MemoryStore = false
	c, closeFn, err := SetupCache(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, cache.Noop{}, c)
}
