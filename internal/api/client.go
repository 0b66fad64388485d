package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tmejia/predibet/internal/pkg/config"
	"github.com/tmejia/predibet/internal/pkg/storage"
)

// ErrQuotaExceeded means the persisted daily counter reached the configured
// limit; no network call was attempted and no further progress is possible
// until the next accounting day.
var ErrQuotaExceeded = errors.New("daily request quota exceeded")

// UpstreamPayloadError is returned when the API answered (even with HTTP 200)
// but embedded a non-empty error list in the payload body.
type UpstreamPayloadError struct {
	Path   string
	Errors json.RawMessage
}

func (e *UpstreamPayloadError) Error() string {
	return fmt.Sprintf("upstream error in %q response: %s", e.Path, string(e.Errors))
}

const (
	usageFileName = "api-limits.json"
	restartGuard  = 60 * time.Second
	quotaSleep    = 90 * time.Second
)

// Client is the only component that talks to the network. Every call goes
// through a persisted daily-quota counter and an in-process per-minute
// throttle; the counter file survives restarts so two back-to-back runs share
// one daily budget.
type Client struct {
	cfg        *config.APIConfig
	httpClient *http.Client
	store      *storage.FileStore

	usage         usageFile
	dailyCounter  int // -1 until the first call of the process
	minuteCounter int

	now   func() time.Time
	sleep func(time.Duration)
}

type usageFile struct {
	DailyRequests        map[string]int  `json:"daily-requests"`
	LastRequestExecution int64           `json:"last-request-execution"` // epoch millis
	Bills                map[string]Bill `json:"bills"`
}

func NewClient(cfg *config.APIConfig, store *storage.FileStore) (*Client, error) {
	c := &Client{
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		store:        store,
		dailyCounter: -1,
		now:          time.Now,
		sleep:        time.Sleep,
	}

	if store.Exists("util", usageFileName) {
		if err := store.ReadJSON(&c.usage, "util", usageFileName); err != nil {
			return nil, fmt.Errorf("failed to load usage stats: %w", err)
		}
	}
	if c.usage.DailyRequests == nil {
		c.usage.DailyRequests = make(map[string]int)
	}
	if c.usage.Bills == nil {
		c.usage.Bills = make(map[string]Bill)
	}

	return c, nil
}

// Get performs one GET request against the upstream API, enforcing the daily
// quota and the per-minute throttle first.
func (c *Client) Get(path string, query url.Values) ([]byte, error) {
	if c.dailyCounter == -1 {
		c.guardAgainstRestartBurst()
		c.dailyCounter = c.usage.DailyRequests[c.businessDay()]
	}

	if c.dailyCounter >= c.cfg.DailyLimit {
		return nil, fmt.Errorf("%w: %q %q", ErrQuotaExceeded, path, query.Encode())
	}

	c.dailyCounter++
	c.minuteCounter++
	slog.Info("Fetching from API", "n", c.dailyCounter, "path", path, "query", query.Encode())
	if err := c.persistCounter(); err != nil {
		return nil, err
	}

	if c.minuteCounter >= c.cfg.PerMinuteLimit {
		slog.Info("Per-minute request limit reached, sleeping", "sleep", quotaSleep)
		c.sleep(quotaSleep)
		c.minuteCounter = 0
	}

	body, err := c.doRequest(path, query)
	if err != nil {
		return nil, err
	}

	if err := checkPayloadErrors(path, body); err != nil {
		return nil, err
	}

	return body, nil
}

func (c *Client) doRequest(path string, query url.Values) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.URL.RawQuery = query.Encode()

	req.Header.Set("X-RapidAPI-Host", c.cfg.Host)
	req.Header.Set("X-RapidAPI-Key", c.cfg.Key)
	for key, value := range c.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// guardAgainstRestartBurst sleeps once per process when the previous request
// (possibly from another process) happened less than a minute ago.
func (c *Client) guardAgainstRestartBurst() {
	if c.usage.LastRequestExecution == 0 {
		return
	}
	last := time.UnixMilli(c.usage.LastRequestExecution)
	if c.now().Sub(last) < restartGuard {
		slog.Info("Last request was less than a minute ago, sleeping before first call", "sleep", quotaSleep)
		c.sleep(quotaSleep)
	}
}

func (c *Client) persistCounter() error {
	c.usage.DailyRequests[c.businessDay()] = c.dailyCounter
	c.usage.LastRequestExecution = c.now().UnixMilli()

	if err := c.store.WriteJSON(c.usage, "util", usageFileName); err != nil {
		return fmt.Errorf("failed to persist quota counter: %w", err)
	}
	return nil
}

// businessDay returns the quota-accounting day key. The day rolls over at the
// configured cutoff instead of midnight, so requests made shortly after
// midnight still count against the previous day.
func (c *Client) businessDay() string {
	now := c.now()
	if now.Format("15:04") < c.cfg.DayCutoff {
		now = now.AddDate(0, 0, -1)
	}
	return now.Format("2006-01-02") + "T" + c.cfg.DayCutoff
}

// checkPayloadErrors rejects responses whose body embeds a non-empty
// "errors" value. The upstream reports request problems this way even on
// HTTP 200.
func checkPayloadErrors(path string, body []byte) error {
	var envelope struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode %q response: %w", path, err)
	}

	trimmed := string(envelope.Errors)
	if trimmed == "" || trimmed == "null" || trimmed == "[]" || trimmed == "{}" {
		return nil
	}
	return &UpstreamPayloadError{Path: path, Errors: envelope.Errors}
}
