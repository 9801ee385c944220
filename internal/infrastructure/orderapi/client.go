// Package orderapi talks to the remote order service, the system of record for
// orders and payments.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/config"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/apperror"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/money"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// RestaurantHeader carries the active restaurant on every order service call.
const RestaurantHeader = "X-Restaurant-ID"

const maxBodySize = 1 << 20

// RejectedError is returned when the order service refuses a payment commit,
// e.g. because the amount exceeds what is owed or the order is already settled.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("order service rejected payment (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("order service rejected payment (status %d): %s", e.StatusCode, e.Message)
}

// Client is an HTTP client for the order service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

// NewClient builds a client authenticated with OAuth2 client credentials when
// a client id is configured, a static bearer token when one is set, and no
// authentication otherwise.
func NewClient(cfg config.OrderAPIConfig, log *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	base := &http.Client{Timeout: timeout}
	httpClient := base

	// oauth2 picks the underlying client up from the context
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	switch {
	case cfg.ClientID != "":
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		httpClient = cc.Client(ctx)
		httpClient.Timeout = timeout
	case cfg.Token != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = timeout
	}

	return NewClientWithHTTP(cfg.BaseURL, httpClient, log)
}

// NewClientWithHTTP builds a client around an existing http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client, log *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// FetchTicket returns the raw ticket document of an order. The body is not
// interpreted here; its layout varies between backend versions.
func (c *Client) FetchTicket(ctx context.Context, restaurantID, orderID string) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, restaurantID, c.orderURL(orderID, "ticket"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch ticket: %v", apperror.ErrOrderServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read ticket: %v", apperror.ErrOrderServiceUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperror.NewNotFoundError("Order")
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.log.WithFields(logrus.Fields{
			"order_id":      orderID,
			"restaurant_id": restaurantID,
			"status":        resp.StatusCode,
		}).Warn("order service refused ticket access")
		return nil, apperror.NewForbiddenError("Order service refused access to this order")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: fetch ticket: status %d", apperror.ErrOrderServiceUnavailable, resp.StatusCode)
	}

	return json.RawMessage(body), nil
}

type commitRequest struct {
	Method string      `json:"method"`
	Amount json.Number `json:"amount"`
}

// CommitPayment records a payment against an order. A non-2xx answer is a
// *RejectedError; transport failures wrap apperror.ErrOrderServiceUnavailable.
func (c *Client) CommitPayment(ctx context.Context, commit entity.PaymentCommit) (*entity.PaymentConfirmation, error) {
	payload, err := json.Marshal(commitRequest{
		Method: commit.Method.String(),
		Amount: json.Number(money.Format(commit.Amount)),
	})
	if err != nil {
		return nil, fmt.Errorf("encode payment: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, commit.RestaurantID, c.orderURL(commit.OrderID, "payments"), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: commit payment: %v", apperror.ErrOrderServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	fields := map[string]any{}
	_ = json.Unmarshal(body, &fields)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RejectedError{StatusCode: resp.StatusCode, Message: firstString(fields, "message", "detail", "error")}
	}

	return &entity.PaymentConfirmation{
		Reference: firstString(fields, "id", "reference", "payment_id"),
		Status:    firstString(fields, "status"),
	}, nil
}

// Ping checks that the order service answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrOrderServiceUnavailable, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", apperror.ErrOrderServiceUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, restaurantID, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if restaurantID != "" {
		req.Header.Set(RestaurantHeader, restaurantID)
	}
	return req, nil
}

func (c *Client) orderURL(orderID, resource string) string {
	return fmt.Sprintf("%s/orders/%s/%s", c.baseURL, url.PathEscape(orderID), resource)
}

// IsRejected reports whether err is a payment rejection from the order service.
func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}

func firstString(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
