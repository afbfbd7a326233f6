// Package hass reads entity states from Home Assistant (or a stand-in) and
// turns them into overlay Readings.
package hass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/weather-overlay/pkg/config"
)

// ErrNotFound reports that the store has no such entity.
var ErrNotFound = errors.New("entity not found")

// StateStore answers "what is the state of entity X".
type StateStore interface {
	State(ctx context.Context, entityID string) (string, error)
}

// EntityState is the subset of /api/states/<id> the overlay reads.
type EntityState struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	LastChanged time.Time      `json:"last_changed"`
}

// DefaultTimeout bounds a single state request.
const DefaultTimeout = 10 * time.Second

// Client queries the Home Assistant REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the instance at baseURL using a long-lived
// access token. A nil httpClient gets one with DefaultTimeout.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// Entity fetches the full state object of an entity.
func (c *Client) Entity(ctx context.Context, entityID string) (*EntityState, error) {
	endpoint := c.baseURL + "/api/states/" + url.PathEscape(entityID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", entityID, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", entityID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", entityID, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("query %s: unexpected status %d: %s", entityID, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var state EntityState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode state of %s: %w", entityID, err)
	}
	return &state, nil
}

// State implements StateStore.
func (c *Client) State(ctx context.Context, entityID string) (string, error) {
	st, err := c.Entity(ctx, entityID)
	if err != nil {
		return "", err
	}
	return st.State, nil
}

// FileStore reads entity states from a YAML map of entity id to state.
// The file is re-read on every query so edits apply on the next poll.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// State implements StateStore.
func (s *FileStore) State(_ context.Context, entityID string) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read state file %s: %w", s.path, err)
	}

	var states map[string]string
	if err := yaml.Unmarshal(data, &states); err != nil {
		return "", fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}

	state, ok := states[entityID]
	if !ok {
		return "", fmt.Errorf("%s: %w", entityID, ErrNotFound)
	}
	return state, nil
}

// StaticStore is a fixed in-memory store.
type StaticStore map[string]string

// State implements StateStore.
func (s StaticStore) State(_ context.Context, entityID string) (string, error) {
	state, ok := s[entityID]
	if !ok {
		return "", fmt.Errorf("%s: %w", entityID, ErrNotFound)
	}
	return state, nil
}

// NewStore picks the store a config asks for: the state file when set,
// otherwise the Home Assistant API.
func NewStore(cfg *config.OverlayConfig) StateStore {
	if cfg.StateFile != "" {
		log.Printf("[Hass] Reading states from file %s", cfg.StateFile)
		return NewFileStore(cfg.StateFile)
	}
	log.Printf("[Hass] Reading states from %s", cfg.Hass.URL)
	return NewClient(cfg.Hass.URL, cfg.Hass.Token, nil)
}
