package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lancehub/lancecli/internal/config"
	"github.com/lancehub/lancecli/internal/types"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, nil), srv
}

func TestFetchFeed(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.APIBasePath+"/feed", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("telegram_id"))
		json.NewEncoder(w).Encode([]types.Order{
			{Hash: "abc", Source: "kwork", Title: "Парсер каталога"},
			{Hash: "def", Source: "habr", Title: "Лендинг"},
		})
	}))
	defer srv.Close()

	orders, ok := c.FetchFeed(42)
	require.True(t, ok)
	require.Len(t, orders, 2)
	assert.Equal(t, "abc", orders[0].Hash)
	assert.Equal(t, "habr", orders[1].Source)
}

func TestFetchFeedServerError(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	orders, ok := c.FetchFeed(42)
	assert.False(t, ok)
	assert.Nil(t, orders)
}

func TestFetchFeedUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", nil)

	_, ok := c.FetchFeed(42)
	assert.False(t, ok)
}

func TestFetchFeedMalformedPayload(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, ok := c.FetchFeed(42)
	assert.False(t, ok)
}

func TestFetchProfile(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.Profile{
			TelegramID:   42,
			FullName:     "Ivan",
			Categories:   []string{"python", "web"},
			ParserActive: true,
			TotalEarned:  15000,
		})
	}))
	defer srv.Close()

	profile, ok := c.FetchProfile(42)
	require.True(t, ok)
	assert.Equal(t, "Ivan", profile.FullName)
	assert.True(t, profile.ParserActive)
	assert.Equal(t, []string{"python", "web"}, profile.Categories)
}

func TestUpdateStatus(t *testing.T) {
	var got map[string]any
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.APIBasePath+"/orders/7/status", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	assert.True(t, c.UpdateStatus(7, types.StatusCompleted))
	assert.Equal(t, "completed", got["status"])
}

func TestUpdateNoteNilPrice(t *testing.T) {
	var got map[string]any
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	assert.True(t, c.UpdateNote(7, "созвон в пятницу", nil))
	assert.Equal(t, "созвон в пятницу", got["notes"])
	assert.Nil(t, got["my_price"])
}

func TestGenerateResponse(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"response": "Здравствуйте! Готов взяться."})
	}))
	defer srv.Close()

	resp, errText, ok := c.GenerateResponse(42, "Лендинг", "Нужен лендинг")
	assert.True(t, ok)
	assert.Empty(t, errText)
	assert.Equal(t, "Здравствуйте! Готов взяться.", resp)
}

func TestGenerateResponseBackendError(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": "Нужна активная подписка"})
	}))
	defer srv.Close()

	resp, errText, ok := c.GenerateResponse(42, "Лендинг", "")
	assert.False(t, ok)
	assert.Empty(t, resp)
	assert.Equal(t, "Нужна активная подписка", errText)
}

func TestCalculatePrice(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"result": "5000-8000 ₽"})
	}))
	defer srv.Close()

	result, ok := c.CalculatePrice("парсер сайта", "general")
	assert.True(t, ok)
	assert.Equal(t, "5000-8000 ₽", result)
}

func TestCalculatePriceMissingField(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"something": "else"})
	}))
	defer srv.Close()

	_, ok := c.CalculatePrice("парсер сайта", "general")
	assert.False(t, ok)
}

func TestToggleParser(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "parser_active": true})
	}))
	defer srv.Close()

	active, ok := c.ToggleParser(42)
	assert.True(t, ok)
	assert.True(t, active)
}

func TestUpdateCategories(t *testing.T) {
	var got map[string]any
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	assert.True(t, c.UpdateCategories(42, []string{"python", "data"}))
	assert.Equal(t, []any{"python", "data"}, got["categories"])
}

func TestSaveOrder(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.APIBasePath+"/orders/save", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	assert.True(t, c.SaveOrder(42, "deadbeef"))
}
