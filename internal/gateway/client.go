package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout     = 60 * time.Second
	DefaultDialTimeout = 60 * time.Second
)

type Config struct {
	UsersURL    string
	ProductsURL string
	SalesURL    string

	Timeout     time.Duration
	DialTimeout time.Duration

	// BreakerFailures consecutive transport failures open a service's breaker
	// for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration

	// HTTPClient replaces the default instrumented client when set.
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Client talks to the users, products and sales services. It holds no state
// besides the connection pool and breakers and is safe for concurrent use.
type Client struct {
	http     *http.Client
	users    *service
	products *service
	sales    *service
	log      logrus.FieldLogger
}

type service struct {
	base    string
	breaker *circuitbreaker.Breaker[reply]
}

type reply struct {
	status int
	body   []byte
}

func New(cfg Config) (*Client, error) {
	if cfg.UsersURL == "" || cfg.ProductsURL == "" || cfg.SalesURL == "" {
		return nil, errors.New("gateway: users, products and sales URLs are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(cfg.Timeout, cfg.DialTimeout)
	}

	c := &Client{http: httpClient, log: log}
	c.users = c.newService("users", cfg.UsersURL, cfg)
	c.products = c.newService("products", cfg.ProductsURL, cfg)
	c.sales = c.newService("sales", cfg.SalesURL, cfg)
	return c, nil
}

func newHTTPClient(timeout, dialTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext

	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(transport),
	}
}

func (c *Client) newService(name, base string, cfg Config) *service {
	bc := circuitbreaker.DefaultConfig(name)
	if cfg.BreakerFailures > 0 {
		bc.ConsecutiveFailures = cfg.BreakerFailures
	}
	if cfg.BreakerTimeout > 0 {
		bc.Timeout = cfg.BreakerTimeout
	}
	// A caller giving up is not the service's fault.
	bc.IsFailure = func(err error) bool {
		return !errors.Is(err, context.Canceled)
	}
	bc.Logger = c.log
	return &service{
		base:    strings.TrimRight(base, "/"),
		breaker: circuitbreaker.New[reply](bc),
	}
}

// op names a gateway operation and the message shown when the server gives
// no better one.
type op struct {
	name     string
	fallback string
}

// call performs one round trip and decodes a 2xx body into T.
func call[T any](ctx context.Context, c *Client, svc *service, o op, method, path string, in any) (T, error) {
	var out T

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return out, &Error{Op: o.name, Kind: KindTransport, Message: err.Error(), Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, svc.base+path, body)
	if err != nil {
		return out, &Error{Op: o.name, Kind: KindTransport, Message: err.Error(), Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	rep, err := svc.breaker.Execute(func() (reply, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return reply{}, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return reply{}, fmt.Errorf("read body: %w", err)
		}
		return reply{status: resp.StatusCode, body: data}, nil
	})

	entry := logger.WithContext(ctx, c.log).WithFields(logrus.Fields{
		"op":          o.name,
		"method":      method,
		"path":        path,
		"request_id":  requestID,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if err != nil {
		entry.WithError(err).Debug("gateway call failed")
		return out, &Error{Op: o.name, Kind: KindTransport, Message: err.Error(), Err: err}
	}
	entry.WithField("status", rep.status).Debug("gateway call")

	if rep.status < 200 || rep.status > 299 {
		return out, &Error{
			Op:         o.name,
			Kind:       KindProtocol,
			StatusCode: rep.status,
			Message:    serverMessage(rep.body, o.fallback),
			Err:        fmt.Errorf("%s: unexpected status %d", o.name, rep.status),
		}
	}
	if isEmptyBody(rep.body) {
		return out, &Error{
			Op:         o.name,
			Kind:       KindEmptyResponse,
			StatusCode: rep.status,
			Message:    o.fallback,
			Err:        ErrEmptyResponse,
		}
	}
	if err := json.Unmarshal(rep.body, &out); err != nil {
		return out, &Error{
			Op:         o.name,
			Kind:       KindTransport,
			StatusCode: rep.status,
			Message:    err.Error(),
			Err:        fmt.Errorf("decode %s response: %w", o.name, err),
		}
	}
	return out, nil
}

// Status is the free-form acknowledgement some endpoints return,
// e.g. {"message": "Carrito limpiado"}.
type Status map[string]any

func (s Status) Message() string {
	msg, _ := s["message"].(string)
	return msg
}
