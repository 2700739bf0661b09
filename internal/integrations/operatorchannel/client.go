package operatorchannel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const apiVersion = "5.199"

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config параметры чата операторов
type Config struct {
	URL           string
	Token         string
	PeerID        int64
	Timeout       time.Duration
	RatePerSecond float64
}

// Client отправляет сообщения в беседу операторов (метод messages.send)
type Client struct {
	url        string
	token      string
	peerID     int64
	httpClient *http.Client
	limiter    *rate.Limiter
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(cfg Config, log Logger) *Client {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Client{
		url:    cfg.URL,
		token:  cfg.Token,
		peerID: cfg.PeerID,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}
}

// Send отправляет текст в беседу операторов
func (c *Client) Send(ctx context.Context, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	form := url.Values{}
	form.Set("peer_id", strconv.FormatInt(c.peerID, 10))
	form.Set("message", text)
	form.Set("random_id", strconv.FormatInt(rand.Int63n(1<<31), 10))
	form.Set("access_token", c.token)
	form.Set("v", apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var parsed sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if parsed.Error != nil {
		c.log.Warn("Operator channel rejected message: code=%d msg=%s", parsed.Error.Code, parsed.Error.Message)
		return fmt.Errorf("%w: code=%d %s", ErrAPI, parsed.Error.Code, parsed.Error.Message)
	}

	return nil
}

// NoopClient используется, когда чат операторов выключен
type NoopClient struct{}

func (NoopClient) Send(context.Context, string) error { return nil }
