package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"branakids/navigation/internal/config"
	"branakids/navigation/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

type StorefrontClient interface {
	ListCategories(ctx context.Context) ([]domain.CategoryRecord, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]domain.Product, error)
}

type storefrontClient struct {
	rl         ratelimit.Limiter
	baseURL    string
	httpClient *resty.Client

	// Circuit breaker for upstream throttling
	circuitBreakerMutex sync.RWMutex
	throttledUntil      time.Time
	circuitBreakerDelay time.Duration
}

func NewStorefrontClient(cfg config.StorefrontConfig) StorefrontClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "branakids-navigation/1.0")

	return &storefrontClient{
		rl:                  ratelimit.New(cfg.MaxRequestsPerSecond),
		baseURL:             strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:          client,
		circuitBreakerDelay: time.Duration(cfg.CircuitBreakerDelay) * time.Second,
	}
}

func (c *storefrontClient) ListCategories(ctx context.Context) ([]domain.CategoryRecord, error) {
	url := fmt.Sprintf("%s/api/categories", c.baseURL)

	body, err := c.fetchJSON(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	var records []domain.CategoryRecord
	if err := json.Unmarshal([]byte(body), &records); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	log.Debugf("Fetched %d categories", len(records))
	return records, nil
}

func (c *storefrontClient) SearchProducts(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	url := fmt.Sprintf("%s/api/products", c.baseURL)

	body, err := c.fetchJSON(ctx, url, map[string]string{
		"search": query,
		"limit":  strconv.Itoa(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search products for %q: %w", query, err)
	}

	var payload domain.ProductSearchResponse
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode products for %q: %w", query, err)
	}

	log.Debugf("Search %q returned %d products", query, len(payload.Products))
	return payload.Products, nil
}

func (c *storefrontClient) isCircuitBreakerOpen() bool {
	c.circuitBreakerMutex.RLock()
	now := time.Now()
	wasOpen := now.Before(c.throttledUntil)
	wasTriggered := !c.throttledUntil.IsZero()
	c.circuitBreakerMutex.RUnlock()

	if !wasOpen && wasTriggered {
		c.circuitBreakerMutex.Lock()
		if !c.throttledUntil.IsZero() && now.After(c.throttledUntil) {
			c.throttledUntil = time.Time{}
			log.Infof("✅ Storefront circuit breaker closed - requests are allowed again")
		}
		c.circuitBreakerMutex.Unlock()
	}

	return wasOpen
}

func (c *storefrontClient) triggerCircuitBreaker() {
	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.throttledUntil = time.Now().Add(c.circuitBreakerDelay)
	log.Warnf("🚫 Storefront throttled us, pausing requests until %v",
		c.throttledUntil.Format("15:04:05"))
}

func (c *storefrontClient) getRemainingCircuitBreakerTime() time.Duration {
	c.circuitBreakerMutex.RLock()
	defer c.circuitBreakerMutex.RUnlock()

	remaining := time.Until(c.throttledUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *storefrontClient) fetchJSON(ctx context.Context, url string, params map[string]string) (string, error) {
	if c.isCircuitBreakerOpen() {
		remaining := c.getRemainingCircuitBreakerTime()
		return "", fmt.Errorf("circuit breaker is open - requests disabled for %v more", remaining.Round(time.Second))
	}

	c.rl.Take()

	req := c.httpClient.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests && c.circuitBreakerDelay > 0 {
		c.triggerCircuitBreaker()
	}

	if resp.IsError() {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return resp.String(), nil
}
