package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"tienda.shop/app/internal/shared/apperr"
)

const msgUnreachable = "No hay conexión con el servidor. Intenta más tarde."

// maxErrorText bounds how much of an error body is surfaced to users.
const maxErrorText = 512

type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Contract Contract

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to the remote storefront API. It performs no retries, no
// caching and no request deduplication.
type Client struct {
	baseURL    string
	httpClient *http.Client
	contract   Contract
	log        *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	contract := cfg.Contract
	if contract == "" {
		contract = ContractFullName
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: hc,
		contract:   contract,
		log:        logger,
	}
}

type response struct {
	Status int
	Body   []byte
}

func (r response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// text returns the trimmed body, or fallback when the body is empty.
func (r response) text(fallback string) string {
	s := strings.TrimSpace(string(r.Body))
	if s == "" {
		return fallback
	}
	if len(s) > maxErrorText {
		cut := maxErrorText
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

// do sends one request. Transport failures come back as apperr.Unavailable;
// any HTTP answer, whatever its status, is returned to the caller to interpret.
func (c *Client) do(ctx context.Context, method, path string, body any) (response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return response{}, apperr.Wrap(fmt.Errorf("marshal %s %s: %w", method, path, err))
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return response{}, apperr.Wrap(fmt.Errorf("build %s %s: %w", method, path, err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.LogAttrs(ctx, slog.LevelWarn, "storeapi_unreachable",
			slog.String("method", method),
			slog.String("path", path),
			slog.Duration("latency", time.Since(start)),
			slog.Any("err", err),
		)
		return response{}, apperr.UnavailableErr(msgUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, apperr.UnavailableErr(msgUnreachable, fmt.Errorf("read %s %s: %w", method, path, err))
	}

	c.log.LogAttrs(ctx, slog.LevelDebug, "storeapi_call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)
	return response{Status: resp.StatusCode, Body: raw}, nil
}

// decode unmarshals a JSON body; an empty or null body leaves dst untouched.
func decode(r response, dst any) error {
	b := bytes.TrimSpace(r.Body)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return apperr.Wrap(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
