// Package client is a Go client for the storefront API. It mirrors the
// browser behavior: a session cart token for anonymous calls, a bearer
// token once signed in, and a local cart that is reconciled with the
// server on login.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"eshop-api/internal/domain"
	"eshop-api/internal/identity"
)

type Client struct {
	baseURL      string
	httpClient   *http.Client
	accessToken  string
	sessionToken string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetAccessToken switches the client to authenticated calls.
func (c *Client) SetAccessToken(token string) { c.accessToken = token }

// SetSessionToken pins the anonymous cart token sent with every call.
func (c *Client) SetSessionToken(token string) { c.sessionToken = token }

func (c *Client) SessionToken() string { return c.sessionToken }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	if c.sessionToken != "" {
		req.Header.Set(identity.HeaderName, c.sessionToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response (%d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if out != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// AuthResult is the payload of signup, login and refresh.
type AuthResult struct {
	User         domain.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Login signs in and switches the client to the returned access token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.accessToken = result.AccessToken
	return &result, nil
}

// Signup registers an account and switches the client to it.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": name, "email": email, "password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.accessToken = result.AccessToken
	return &result, nil
}

func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, productID string, qty int) (*domain.Cart, error) {
	var cart domain.Cart
	err := c.do(ctx, http.MethodPost, "/api/cart/items", map[string]any{
		"productId": productID, "qty": qty,
	}, &cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, productID string, qty int) (*domain.Cart, error) {
	var cart domain.Cart
	err := c.do(ctx, http.MethodPut, "/api/cart/items/"+productID, map[string]any{"qty": qty}, &cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, productID string) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.do(ctx, http.MethodDelete, "/api/cart/items/"+productID, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/cart", nil, nil)
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
