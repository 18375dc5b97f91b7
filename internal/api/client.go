// Package api wraps the backend's JSON-over-HTTP endpoints. Every failure
// (unreachable server, non-2xx status, undecodable payload) collapses into a
// single absence sentinel: the boolean return is false and the caller shows
// its generic error. Details land in the log, never in the return value.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lancehub/lancecli/internal/config"
	"github.com/lancehub/lancecli/internal/types"
)

// Client talks to the aggregator backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *zap.Logger
}

// New creates a Client against baseURL.
func New(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
		Log: logger,
	}
}

// Get issues a GET against the API base path and returns the raw body.
// ok is false on any failure.
func (c *Client) Get(path string) ([]byte, bool) {
	url := c.BaseURL + config.APIBasePath + path

	resp, err := c.HTTP.Get(url)
	if err != nil {
		c.Log.Warn("api get failed", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Log.Warn("api get non-2xx", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Log.Warn("api get read failed", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	return body, true
}

// Post issues a POST with a JSON body and returns the raw response body.
// ok is false on any failure.
func (c *Client) Post(path string, payload any) ([]byte, bool) {
	url := c.BaseURL + config.APIBasePath + path

	data, err := json.Marshal(payload)
	if err != nil {
		c.Log.Warn("api post marshal failed", zap.String("path", path), zap.Error(err))
		return nil, false
	}

	resp, err := c.HTTP.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		c.Log.Warn("api post failed", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Log.Warn("api post non-2xx", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Log.Warn("api post read failed", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	return body, true
}

func decode[T any](c *Client, body []byte) (T, bool) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		c.Log.Warn("api decode failed", zap.Error(err))
		var zero T
		return zero, false
	}
	return out, true
}

// FetchProfile loads the user record.
func (c *Client) FetchProfile(telegramID int64) (*types.Profile, bool) {
	body, ok := c.Get(fmt.Sprintf("/user?telegram_id=%d", telegramID))
	if !ok {
		return nil, false
	}
	profile, ok := decode[types.Profile](c, body)
	if !ok {
		return nil, false
	}
	return &profile, true
}

// FetchFeed loads the full feed order list.
func (c *Client) FetchFeed(telegramID int64) ([]types.Order, bool) {
	body, ok := c.Get(fmt.Sprintf("/feed?telegram_id=%d", telegramID))
	if !ok {
		return nil, false
	}
	return decode[[]types.Order](c, body)
}

// FetchOrders loads the user's persisted CRM orders.
func (c *Client) FetchOrders(telegramID int64) ([]types.Order, bool) {
	body, ok := c.Get(fmt.Sprintf("/orders?telegram_id=%d", telegramID))
	if !ok {
		return nil, false
	}
	return decode[[]types.Order](c, body)
}

// UpdateStatus sets a CRM order's workflow status.
func (c *Client) UpdateStatus(orderID int64, status string) bool {
	_, ok := c.Post(fmt.Sprintf("/orders/%d/status", orderID), map[string]any{
		"status": status,
	})
	return ok
}

// UpdateNote sets a CRM order's notes and price. A nil price leaves the
// stored price untouched, matching the backend's merge semantics.
func (c *Client) UpdateNote(orderID int64, notes string, myPrice *float64) bool {
	payload := map[string]any{
		"notes":    notes,
		"my_price": myPrice,
	}
	_, ok := c.Post(fmt.Sprintf("/orders/%d/note", orderID), payload)
	return ok
}

// SaveOrder copies a feed order, identified by hash, into the user's CRM.
func (c *Client) SaveOrder(telegramID int64, hash string) bool {
	_, ok := c.Post("/orders/save", map[string]any{
		"telegram_id": telegramID,
		"hash":        hash,
	})
	return ok
}

// CalculatePrice asks the assistant for a price estimate of a task description.
func (c *Client) CalculatePrice(description, category string) (string, bool) {
	body, ok := c.Post("/calculate-price", map[string]any{
		"description": description,
		"category":    category,
	})
	if !ok {
		return "", false
	}
	out, ok := decode[struct {
		Result string `json:"result"`
	}](c, body)
	if !ok || out.Result == "" {
		return "", false
	}
	return out.Result, true
}

// GenerateResponse asks the assistant to draft a reply to an order. When the
// backend declines it sends an error text instead of a response; that text is
// returned as errText with ok false.
func (c *Client) GenerateResponse(telegramID int64, title, description string) (response, errText string, ok bool) {
	body, posted := c.Post("/generate-response", map[string]any{
		"telegram_id": telegramID,
		"title":       title,
		"description": description,
	})
	if !posted {
		return "", "", false
	}
	out, decoded := decode[struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}](c, body)
	if !decoded || out.Response == "" {
		return "", out.Error, false
	}
	return out.Response, "", true
}

// CheckClient vets a client by free-form info.
func (c *Client) CheckClient(info string) (string, bool) {
	body, ok := c.Post("/check-client", map[string]any{
		"info": info,
	})
	if !ok {
		return "", false
	}
	out, ok := decode[struct {
		Result string `json:"result"`
	}](c, body)
	if !ok || out.Result == "" {
		return "", false
	}
	return out.Result, true
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	TelegramID      int64   `json:"telegram_id"`
	FullName        string  `json:"full_name"`
	Bio             string  `json:"bio"`
	PortfolioURL    string  `json:"portfolio_url"`
	HourlyRate      float64 `json:"hourly_rate"`
	ExperienceYears float64 `json:"experience_years"`
}

// UpdateProfile persists the editable profile fields in one call.
func (c *Client) UpdateProfile(update ProfileUpdate) bool {
	body, ok := c.Post("/profile/update", update)
	if !ok {
		return false
	}
	out, ok := decode[struct {
		OK bool `json:"ok"`
	}](c, body)
	return ok && out.OK
}

// UpdateCategories persists the full category set.
func (c *Client) UpdateCategories(telegramID int64, categories []string) bool {
	body, ok := c.Post("/profile/update", map[string]any{
		"telegram_id": telegramID,
		"categories":  categories,
	})
	if !ok {
		return false
	}
	out, ok := decode[struct {
		OK bool `json:"ok"`
	}](c, body)
	return ok && out.OK
}

// ToggleParser flips the parser-active flag and returns the state the server
// confirmed.
func (c *Client) ToggleParser(telegramID int64) (active bool, ok bool) {
	body, posted := c.Post("/parser/toggle", map[string]any{
		"telegram_id": telegramID,
	})
	if !posted {
		return false, false
	}
	out, decoded := decode[struct {
		OK           bool `json:"ok"`
		ParserActive bool `json:"parser_active"`
	}](c, body)
	if !decoded || !out.OK {
		return false, false
	}
	return out.ParserActive, true
}
