package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"merchline/internal/http/handlers"
	applog "merchline/internal/log"
	"merchline/internal/payment"
	"merchline/internal/repos"
)

// newTestApp wires the API the same way main does, against an in-memory DB
// and the mock payment provider.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// one connection so the in-memory DB is shared across requests
	db.SetMaxOpenConns(1)
	deps := handlers.NewDeps(db, payment.NewMockProvider())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if fe, ok := err.(*fiber.Error); ok && fe.Code < 500 {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
		},
	})
	app.Use(requestid.New())

	api := app.Group("/api/v1")
	api.Post("/auth/login", deps.AuthHandler.Login)
	api.Get("/auth/me", handlers.RequireUser(deps.Auth), deps.AuthHandler.Me)
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)

	cart := api.Group("/cart", handlers.RequireUser(deps.Auth))
	cart.Get("/", deps.CartHandler.View)
	cart.Post("/add", deps.CartHandler.Add)

	api.Post("/coupons/validate", handlers.RequireUser(deps.Auth), deps.CouponHandler.Validate)

	orders := api.Group("/orders", handlers.RequireUser(deps.Auth))
	orders.Post("/create-payment-intent", deps.OrderHandler.CreatePaymentIntent)
	orders.Post("/create", deps.OrderHandler.Create)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "Passw0rd!",
	})
	if resp.StatusCode != 200 {
		t.Fatalf("login failed: %d %v", resp.StatusCode, body)
	}
	tok, _ := body["token"].(string)
	if tok == "" {
		t.Fatal("no token in login response")
	}
	return tok
}

func TestBearerAuthFlow(t *testing.T) {
	app := newTestApp(t)

	// No token
	resp, _ := doJSON(t, app, "GET", "/api/v1/auth/me", "", nil)
	if resp.StatusCode != 401 {
		t.Fatalf("want 401 without token, got %d", resp.StatusCode)
	}

	// Bad credentials
	resp, _ = doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": "alice@merchline.test", "password": "WrongPass1",
	})
	if resp.StatusCode != 401 {
		t.Fatalf("want 401 on bad password, got %d", resp.StatusCode)
	}

	tok := login(t, app, "alice@merchline.test")
	resp, body := doJSON(t, app, "GET", "/api/v1/auth/me", tok, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("want 200 with token, got %d", resp.StatusCode)
	}
	if body["email"] != "alice@merchline.test" {
		t.Fatalf("wrong user: %v", body)
	}
}

func TestCartEndpointValidation(t *testing.T) {
	app := newTestApp(t)
	tok := login(t, app, "alice@merchline.test")

	// Missing productId
	resp, _ := doJSON(t, app, "POST", "/api/v1/cart/add", tok, map[string]any{
		"size": "M", "color": "Black", "qty": 1,
	})
	if resp.StatusCode != 400 {
		t.Fatalf("want 400 for missing productId, got %d", resp.StatusCode)
	}

	// Unknown product
	resp, _ = doJSON(t, app, "POST", "/api/v1/cart/add", tok, map[string]any{
		"productId": "ghost-001", "size": "M", "color": "Black", "qty": 1,
	})
	if resp.StatusCode != 404 {
		t.Fatalf("want 404 for unknown product, got %d", resp.StatusCode)
	}

	// Happy path echoes the cart with a subtotal
	resp, body := doJSON(t, app, "POST", "/api/v1/cart/add", tok, map[string]any{
		"productId": "tee-logo", "size": "M", "color": "Black", "qty": 2,
	})
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["subtotal"].(float64) != 59.98 {
		t.Fatalf("want subtotal 59.98, got %v", body["subtotal"])
	}
}

func TestCouponValidateEndpoint(t *testing.T) {
	app := newTestApp(t)
	tok := login(t, app, "alice@merchline.test")

	resp, _ := doJSON(t, app, "POST", "/api/v1/coupons/validate", tok, map[string]any{
		"code": "NOPE99", "orderAmount": 1000,
	})
	if resp.StatusCode != 404 {
		t.Fatalf("want 404 for unknown code, got %d", resp.StatusCode)
	}

	// BIG20 needs a 100.00 order; preview is strict and says so
	resp, _ = doJSON(t, app, "POST", "/api/v1/coupons/validate", tok, map[string]any{
		"code": "BIG20", "orderAmount": 50,
	})
	if resp.StatusCode != 400 {
		t.Fatalf("want 400 for inapplicable coupon, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "POST", "/api/v1/coupons/validate", tok, map[string]any{
		"code": "SAVE10", "orderAmount": 1000,
	})
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if body["discount"].(float64) != 100 {
		t.Fatalf("want discount 100, got %v", body["discount"])
	}
}

func TestCheckoutOverHTTP(t *testing.T) {
	app := newTestApp(t)
	tok := login(t, app, "bob@merchline.test")

	resp, _ := doJSON(t, app, "POST", "/api/v1/orders/create-payment-intent", tok, nil)
	if resp.StatusCode != 400 {
		t.Fatalf("want 400 for empty cart, got %d", resp.StatusCode)
	}

	if resp, body := doJSON(t, app, "POST", "/api/v1/cart/add", tok, map[string]any{
		"productId": "cap-snap", "size": "OS", "color": "Black", "qty": 1,
	}); resp.StatusCode != 200 {
		t.Fatalf("add to cart failed: %d %v", resp.StatusCode, body)
	}

	resp, body := doJSON(t, app, "POST", "/api/v1/orders/create-payment-intent", tok, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("intent failed: %d %v", resp.StatusCode, body)
	}
	intentID, _ := body["paymentIntentId"].(string)
	if !strings.HasPrefix(intentID, "pi_mock_") {
		t.Fatalf("expected mock intent, got %q", intentID)
	}

	// Missing intent id
	resp, _ = doJSON(t, app, "POST", "/api/v1/orders/create", tok, map[string]any{
		"shippingAddress": map[string]string{"name": "Bob", "line1": "2 Side St", "city": "X", "state": "Y", "postalCode": "10001", "country": "US"},
	})
	if resp.StatusCode != 400 {
		t.Fatalf("want 400 for missing intent id, got %d", resp.StatusCode)
	}

	resp, body = doJSON(t, app, "POST", "/api/v1/orders/create", tok, map[string]any{
		"paymentIntentId": intentID,
		"shippingAddress": map[string]string{"name": "Bob", "line1": "2 Side St", "city": "X", "state": "Y", "postalCode": "10001", "country": "US"},
	})
	if resp.StatusCode != 201 {
		t.Fatalf("create order failed: %d %v", resp.StatusCode, body)
	}
}

// Internal failures surface as a generic message, never the underlying error.
func TestErrorHandlerHidesInternals(t *testing.T) {
	app := newTestApp(t)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})

	resp, body := doJSON(t, app, "GET", "/boom", "", nil)
	if resp.StatusCode != 500 {
		t.Fatalf("want 500, got %d", resp.StatusCode)
	}
	msg, _ := body["error"].(string)
	if strings.Contains(msg, "secret") || strings.Contains(msg, "db timeout") {
		t.Fatalf("internal details leaked: %q", msg)
	}
	if !strings.Contains(msg, "Something went wrong") {
		t.Fatalf("friendly message missing: %q", msg)
	}
}
