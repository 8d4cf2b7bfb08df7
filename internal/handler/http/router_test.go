package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/account"
	adminpkg "github.com/Ahmed-Mansy/shoe-zone-online/internal/admin"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/auth"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/cart"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/catalog"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/checkout"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/checkout/provider/mock"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/config"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/event"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/orders"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/reviews"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/upstream"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/health"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/httpclient"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/logger"
)

// fakeUpstream imitates the slice of the commerce API the tests walk
// through: login, cart, order creation, and order history.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	accessToken := unsignedToken(t, map[string]any{
		"user_id": float64(41),
		"email":   "jill@example.com",
	})

	cartCleared := false

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login/", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "hunter2" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Invalid email or password."}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access": accessToken, "refresh": "refresh-1",
			"id": 41, "email": "jill@example.com", "is_staff": false,
		})
	})
	mux.HandleFunc("GET /cart/view/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+accessToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
			return
		}
		if cartCleared {
			_, _ = w.Write([]byte(`{"message":"Your cart is empty!"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"items":[{"id":11,"product_id":7,"product_name":"Trail Runner","product_price":100.0,"quantity":2,"stock_quantity":9,"total":200.0,"product_image":null}],
			"total_price":200.0
		}`))
	})
	mux.HandleFunc("POST /orders/create/", func(w http.ResponseWriter, r *http.Request) {
		var req upstream.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 200.0, req.TotalAmount)
		assert.Equal(t, "cod", req.PaymentStatus)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"order":{"id":501,"user":"jill","total_price":"200.00","status":"pending","is_paid":false,"payment_status":"cod","created_at":"2026-08-29T10:00:00Z"},
			"message":"Order created with Cash on Delivery."
		}`))
	})
	mux.HandleFunc("DELETE /cart/clear/", func(w http.ResponseWriter, r *http.Request) {
		cartCleared = true
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /cart/item/11/", func(w http.ResponseWriter, r *http.Request) {
		cartCleared = true
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /orders/my-orders/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":501,"user":"jill","total_price":"200.00","status":"pending","is_paid":false,"payment_status":"cod","created_at":"2026-08-29T10:00:00Z","items":[]}]`))
	})
	mux.HandleFunc("GET /products/home/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":7,"name":"Trail Runner","price":"100.00","stock_quantity":9}]`))
	})

	return httptest.NewServer(mux)
}

func unsignedToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

// newTestRouter wires the full stack against the fake upstream, the way
// the app container does in production.
func newTestRouter(t *testing.T, upstreamURL string) (http.Handler, session.Store) {
	t.Helper()

	log := logger.NewWithWriter("storefront-test", "error", testWriter{t})

	cfg := &config.Config{
		Environment:          "development",
		HTTPPort:             8080,
		APIBaseURL:           upstreamURL,
		SessionStore:         "memory",
		PaymentProvider:      "mock",
		SuccessRedirectDelay: 2 * time.Second,
		RateLimitRPS:         1000,
		RateLimitBurst:       1000,
		CORSAllowedOrigins:   []string{"*"},
	}

	httpClient := httpclient.New(httpclient.DefaultConfig())
	api := upstream.New(upstreamURL, httpClient, log)

	sessions := session.NewMemoryStore(time.Hour)
	t.Cleanup(sessions.Close)

	carts := cart.NewService(api, cart.NewMemoryStore(), log)
	events := event.NewProducer(nil, log)
	checkoutSvc := checkout.NewService(api, mock.NewProvider(), sessions, carts, events, log, cfg.SuccessRedirectDelay)
	attempts := checkout.NewAttempts(30 * time.Minute)
	t.Cleanup(attempts.Close)

	authorizer := auth.NewAuthorizer()
	adminProxy, err := adminpkg.NewProxy(upstreamURL, authorizer, log)
	require.NoError(t, err)

	h := Handlers{
		Account:  NewAccountHandler(account.NewService(api, sessions, log), carts, sessions, log),
		Catalog:  NewCatalogHandler(catalog.NewService(api, log), log),
		Cart:     NewCartHandler(carts, sessions, log),
		Checkout: NewCheckoutHandler(checkoutSvc, attempts, log),
		Orders:   NewOrdersHandler(orders.NewService(api, log), sessions, log),
		Reviews:  NewReviewsHandler(reviews.NewService(api, log), sessions, log),
		Admin:    NewAdminHandler(adminpkg.NewDashboard(api, authorizer, log), log),
	}

	return NewRouter(cfg, h, adminProxy, sessions, health.NewHandler(), log), sessions
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func doJSON(t *testing.T, router http.Handler, method, path, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "",
		`{"email":"jill@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			SessionID string `json:"session_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.SessionID)
	return resp.Data.SessionID
}

func TestLoginAndCheckoutFlow(t *testing.T) {
	server := fakeUpstream(t)
	defer server.Close()

	router, _ := newTestRouter(t, server.URL)
	sessionID := login(t, router)

	// Begin checkout: the cart snapshot is frozen into the attempt.
	rec := doJSON(t, router, http.MethodPost, "/api/checkout", sessionID, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var begin struct {
		Data checkout.Attempt `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &begin))
	assert.Equal(t, checkout.StateReady, begin.Data.State)
	assert.Equal(t, 200.0, begin.Data.Total)

	// Submit with cash on delivery.
	rec = doJSON(t, router, http.MethodPost, "/api/checkout/submit", sessionID, `{
		"first_name":"Jill","last_name":"Doe","email":"jill@example.com",
		"address":"12 High St","city":"Cairo","zip_code":"11511","country":"Egypt",
		"payment_method":"cod"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var submit struct {
		Data checkout.Attempt `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submit))
	assert.Equal(t, checkout.StateSuccess, submit.Data.State)
	assert.Equal(t, 501, submit.Data.OrderID)
	assert.Equal(t, "/orders", submit.Data.RedirectTo)

	// The order shows up in the history.
	rec = doJSON(t, router, http.MethodGet, "/api/orders", sessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":501`)
}

func TestRequireSessionRedirectsToLogin(t *testing.T) {
	server := fakeUpstream(t)
	defer server.Close()

	router, _ := newTestRouter(t, server.URL)

	rec := doJSON(t, router, http.MethodGet, "/api/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/login"`)
}

func TestCheckoutSubmitRejectsInvalidShippingForm(t *testing.T) {
	server := fakeUpstream(t)
	defer server.Close()

	router, _ := newTestRouter(t, server.URL)
	sessionID := login(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/checkout", sessionID, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// A malformed email and a missing country are caught before any order
	// call, as field-level validation detail.
	rec = doJSON(t, router, http.MethodPost, "/api/checkout/submit", sessionID, `{
		"first_name":"Jill","last_name":"Doe","email":"not-an-email",
		"address":"12 High St","city":"Cairo","zip_code":"11511",
		"payment_method":"cod"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, rec.Body.String(), "Email")
	assert.Contains(t, rec.Body.String(), "Country")
}

func TestExpiredUpstreamTokenClearsSession(t *testing.T) {
	server := fakeUpstream(t)
	defer server.Close()

	router, sessions := newTestRouter(t, server.URL)

	sess := &session.Session{
		ID:          "sess-stale",
		UserID:      "41",
		Role:        session.RoleUser,
		AccessToken: "token-revoked",
	}
	require.NoError(t, sessions.Set(context.Background(), sess))

	rec := doJSON(t, router, http.MethodPost, "/api/cart/refresh", "sess-stale", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/login"`)

	// The stale session was dropped from the store, not just rejected.
	_, err := sessions.Get(context.Background(), "sess-stale")
	assert.Error(t, err)
}

func TestStaleSessionIDBehavesLikeNoSession(t *testing.T) {
	server := fakeUpstream(t)
	defer server.Close()

	router, _ := newTestRouter(t, server.URL)

	rec := doJSON(t, router, http.MethodGet, "/api/cart", "sess-gone", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesForbiddenForShoppers(t *testing.T) {
	server := fakeUpstream(t)
	defer server.Close()

	router, _ := newTestRouter(t, server.URL)
	sessionID := login(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/admin/dashboard", sessionID, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPublicBrowsingNeedsNoSession(t *testing.T) {
	server := fakeUpstream(t)
	defer server.Close()

	router, _ := newTestRouter(t, server.URL)

	rec := doJSON(t, router, http.MethodGet, "/api/home", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Trail Runner")
}

func TestLogoutClearsSessionAndMirror(t *testing.T) {
	server := fakeUpstream(t)
	defer server.Close()

	router, sessions := newTestRouter(t, server.URL)
	sessionID := login(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", sessionID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err := sessions.Get(context.Background(), sessionID)
	assert.Error(t, err)

	rec = doJSON(t, router, http.MethodGet, "/api/cart", sessionID, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
