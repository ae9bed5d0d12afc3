package telegram

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"booking_relay/internal/adapters/observability"
	"booking_relay/internal/domain"
)

const DefaultBaseURL = "https://api.telegram.org"

type Config struct {
	BaseURL    string
	Token      string
	ChatID     string
	Timeout    time.Duration
	RPS        int
	MaxRetries int
}

// Client posts messages to one chat through the Bot API sendMessage method.
type Client struct {
	base       string
	token      string
	chatID     string
	hc         *http.Client
	rl         *rate.Limiter
	maxRetries int
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		base:       strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		chatID:     cfg.ChatID,
		hc:         &http.Client{Timeout: cfg.Timeout},
		rl:         rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS),
		maxRetries: cfg.MaxRetries,
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.token != "" && c.chatID != ""
}

func (c *Client) ChatID() string { return c.chatID }

// UpstreamError is a non-success answer from the Bot API.
type UpstreamError struct {
	Status      int
	Code        int
	Description string
	RetryAfter  time.Duration
}

func (e *UpstreamError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram: status %d", e.Status)
	}
	return fmt.Sprintf("telegram: status %d: %s", e.Status, e.Description)
}

func (e *UpstreamError) retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

var ErrNotConfigured = errors.Mark(errors.New("telegram: bot token or chat id missing"), domain.ErrConfiguration)

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	ErrorCode   int    `json:"error_code"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
	Parameters struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// Send delivers msg. Every failure is marked with domain.ErrUpstreamDelivery,
// except missing credentials which are marked domain.ErrConfiguration.
// 429 and 5xx answers are retried up to MaxRetries times.
func (c *Client) Send(ctx context.Context, msg domain.Message) (domain.Delivery, error) {
	if !c.Configured() {
		return domain.Delivery{}, ErrNotConfigured
	}
	body, err := json.Marshal(sendMessageRequest{ChatID: c.chatID, Text: msg.Text, ParseMode: msg.ParseMode})
	if err != nil {
		return domain.Delivery{}, errors.Wrap(err, "encode sendMessage")
	}

	if err := c.rl.Wait(ctx); err != nil {
		return domain.Delivery{}, errors.Mark(err, domain.ErrUpstreamDelivery)
	}

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		d, wait, err := c.post(ctx, "sendMessage", body)
		if err == nil {
			return d, nil
		}
		lastErr = err
		if wait < 0 || i == c.maxRetries {
			break
		}
		if wait == 0 {
			wait = backoff(i)
		}
		if !sleepCtx(ctx, wait) {
			lastErr = ctx.Err()
			break
		}
	}
	return domain.Delivery{}, errors.Mark(lastErr, domain.ErrUpstreamDelivery)
}

// post performs one attempt. wait < 0 means the failure is permanent.
func (c *Client) post(ctx context.Context, method string, body []byte) (domain.Delivery, time.Duration, error) {
	endpoint := c.base + "/bot" + c.token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Delivery{}, -1, c.redact(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "booking-relay/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("telegram", method, 0, time.Since(start))
		if ctx.Err() != nil {
			return domain.Delivery{}, -1, ctx.Err()
		}
		// network error
		return domain.Delivery{}, 0, c.redact(err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("telegram", method, resp.StatusCode, time.Since(start))

	var out apiResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode/100 == 2 && decodeErr == nil && out.OK {
		return domain.Delivery{MessageID: out.Result.MessageID}, 0, nil
	}

	ue := &UpstreamError{Status: resp.StatusCode, Code: out.ErrorCode, Description: out.Description}
	if ue.Description == "" && decodeErr != nil {
		ue.Description = strings.TrimSpace(string(raw))
		if len(ue.Description) > 200 {
			ue.Description = ue.Description[:200]
		}
	}
	if out.Parameters.RetryAfter > 0 {
		ue.RetryAfter = time.Duration(out.Parameters.RetryAfter) * time.Second
	} else {
		ue.RetryAfter = retryAfter(resp)
	}
	if !ue.retryable() {
		return domain.Delivery{}, -1, ue
	}
	return domain.Delivery{}, ue.RetryAfter, ue
}

// redact strips the bot token from transport errors, which embed the URL.
func (c *Client) redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return &url.Error{Op: uerr.Op, URL: strings.ReplaceAll(uerr.URL, c.token, "<redacted>"), Err: uerr.Err}
	}
	return err
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses the Retry-After header (seconds or HTTP-date).
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
