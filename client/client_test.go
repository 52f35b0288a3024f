package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"eshop-api/internal/domain"
	"eshop-api/internal/identity"
)

// fakeServer imitates the cart endpoints with the API envelope.
type fakeServer struct {
	mu       sync.Mutex
	items    []domain.CartItem
	failIDs  map[string]bool
	sessions []string
	bearers  []string
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/cart/items", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.record(r)

		var req struct {
			ProductID string `json:"productId"`
			Qty       int    `json:"qty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeEnvelope(w, http.StatusBadRequest, false, "bad payload", nil)
			return
		}
		if f.failIDs[req.ProductID] {
			writeEnvelope(w, http.StatusBadRequest, false, "Not enough stock", nil)
			return
		}
		for i := range f.items {
			if f.items[i].ProductID == req.ProductID {
				f.items[i].Qty += req.Qty
				writeEnvelope(w, http.StatusOK, true, "", f.cart())
				return
			}
		}
		f.items = append(f.items, domain.CartItem{ProductID: req.ProductID, Qty: req.Qty})
		writeEnvelope(w, http.StatusCreated, true, "", f.cart())
	})
	mux.HandleFunc("GET /api/cart", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.record(r)
		writeEnvelope(w, http.StatusOK, true, "", f.cart())
	})
	return mux
}

func (f *fakeServer) record(r *http.Request) {
	if tok := r.Header.Get(identity.HeaderName); tok != "" {
		f.sessions = append(f.sessions, tok)
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		f.bearers = append(f.bearers, auth)
	}
}

func (f *fakeServer) cart() *domain.Cart {
	items := make([]domain.CartItem, len(f.items))
	copy(items, f.items)
	return &domain.Cart{ID: "cart-1", Items: items}
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, msg string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": msg,
		"data":    data,
	})
}

func TestClientSendsSessionAndBearer(t *testing.T) {
	srv := &fakeServer{}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	c := New(ts.URL)
	c.SetSessionToken("sess-1")
	c.SetAccessToken("acc-1")

	if _, err := c.GetCart(context.Background()); err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(srv.sessions) != 1 || srv.sessions[0] != "sess-1" {
		t.Fatalf("session header missing: %v", srv.sessions)
	}
	if len(srv.bearers) != 1 || srv.bearers[0] != "Bearer acc-1" {
		t.Fatalf("bearer header missing: %v", srv.bearers)
	}
}

func TestClientAPIError(t *testing.T) {
	srv := &fakeServer{failIDs: map[string]bool{"p1": true}}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.AddCartItem(context.Background(), "p1", 3)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Not enough stock" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestLocalCartRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")

	cart, err := OpenLocalCart(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	shirt := domain.Product{ID: "p1", Name: "Shirt", Slug: "shirt", Price: "60.00", Images: []string{"/i.jpg"}}
	if err := cart.Add(shirt, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := cart.Add(shirt, 1); err != nil {
		t.Fatalf("second add: %v", err)
	}

	reloaded, err := OpenLocalCart(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Items) != 1 || reloaded.Items[0].Qty != 2 {
		t.Fatalf("same product must merge into one line: %+v", reloaded.Items)
	}

	totals, err := reloaded.Totals()
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.ItemsPrice != "120.00" || totals.TotalPrice != "138.00" {
		t.Fatalf("local totals must match server pricing: %+v", totals)
	}
}

func TestLocalCartDeletesFileWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")

	cart, err := OpenLocalCart(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p := domain.Product{ID: "p1", Name: "Shirt", Price: "10.00"}
	if err := cart.Add(p, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file must exist after add: %v", err)
	}

	if err := cart.Remove("p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file must be gone after the last remove, got %v", err)
	}
}

func TestLocalCartSetQtyMissing(t *testing.T) {
	cart, err := OpenLocalCart(filepath.Join(t.TempDir(), "cart.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := cart.SetQty("nope", 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReconcilerSync(t *testing.T) {
	srv := &fakeServer{
		items:   []domain.CartItem{{ProductID: "p1", Qty: 1}},
		failIDs: map[string]bool{"p3": true},
	}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "cart.json")
	local, err := OpenLocalCart(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, p := range []domain.Product{
		{ID: "p1", Name: "Shirt", Price: "10.00"},
		{ID: "p2", Name: "Mug", Price: "5.00"},
		{ID: "p3", Name: "Gone", Price: "1.00"},
	} {
		if err := local.Add(p, 2); err != nil {
			t.Fatalf("local add: %v", err)
		}
	}

	c := New(ts.URL)
	rec := NewReconciler(local, c, nil)

	cart, err := rec.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	// p1 merged onto the server line, p2 appended, p3 skipped.
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %+v", cart.Items)
	}
	if cart.Items[0].ProductID != "p1" || cart.Items[0].Qty != 3 {
		t.Fatalf("overlap must sum quantities: %+v", cart.Items[0])
	}
	if cart.Items[1].ProductID != "p2" || cart.Items[1].Qty != 2 {
		t.Fatalf("new line must carry local qty: %+v", cart.Items[1])
	}

	if len(local.Items) != 0 {
		t.Fatalf("local cart must be discarded after sync")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("local cart file must be deleted, got %v", err)
	}
}
