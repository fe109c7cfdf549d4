package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warlock/server/internal/catalog"
)

func testHandler(t *testing.T, origins ...string) http.Handler {
	t.Helper()
	cat, err := catalog.LoadDir("../../data/yaml")
	require.NoError(t, err)
	if origins == nil {
		origins = []string{"*"}
	}
	return NewServer(cat, origins, zap.NewNop()).Handler()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestConfigEndpoint(t *testing.T) {
	rec := get(t, testHandler(t), "/config")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc struct {
		Races           []map[string]any    `json:"races"`
		Classes         []map[string]any    `json:"classes"`
		Compatibility   map[string][]string `json:"compatibility"`
		RacialAbilities []map[string]any    `json:"racialAbilities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.NotEmpty(t, doc.Races)
	require.NotEmpty(t, doc.Classes)
	require.NotEmpty(t, doc.RacialAbilities)

	// The lich/warrior pairing is blocked in the shipped data.
	require.NotContains(t, doc.Compatibility["lich"], "warrior")
	require.Contains(t, doc.Compatibility["lich"], "wizard")
}

func TestClassAbilitiesEndpoint(t *testing.T) {
	h := testHandler(t)

	rec := get(t, h, "/config/abilities/warrior")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc struct {
		Abilities []struct {
			ID       string `json:"id"`
			UnlockAt int    `json:"unlockAt"`
		} `json:"abilities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	ids := make([]string, 0, len(doc.Abilities))
	for _, a := range doc.Abilities {
		ids = append(ids, a.ID)
	}
	require.Contains(t, ids, "slash")

	rec = get(t, h, "/config/abilities/bard")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubresourceEndpoints(t *testing.T) {
	h := testHandler(t)
	for _, path := range []string{
		"/config/races",
		"/config/classes",
		"/config/compatibility",
		"/config/racial-abilities",
	} {
		rec := get(t, h, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestCORS(t *testing.T) {
	h := testHandler(t, "https://play.example")

	req := httptest.NewRequest(http.MethodOptions, "/config", nil)
	req.Header.Set("Origin", "https://play.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://play.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/config", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(t, testHandler(t), "/config")
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), "wildcard default")
}
