package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"merchline/internal/config"
	"merchline/internal/http/handlers"
	applog "merchline/internal/log"
	"merchline/internal/payment"
	"merchline/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Payment provider: live Stripe behind a mock fallback, or pure mock when
	// no usable key is configured.
	var provider payment.Provider
	if cfg.StripeConfigured() {
		provider = &payment.Fallback{
			Primary: payment.NewStripeProvider(cfg.StripeKey),
			Mock:    payment.NewMockProvider(),
		}
		log.Println("[payment] live processor configured")
	} else {
		provider = payment.NewMockProvider()
		log.Println("[payment] no processor credentials, using mock intents")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and return a generic failure without leaking internals
			applog.Error(c, "server.error", err, nil)
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok && fe.Code < 500 {
				code = fe.Code
				return c.Status(code).JSON(fiber.Map{"error": fe.Message})
			}
			return c.Status(code).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/media/")
		},
	}))

	// ---------- Static product images ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /media -> %s", mediaDir)

	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		full := filepath.Join(mediaDir, clean)
		return c.SendFile(full, true)
	})

	// ---------- API ----------
	deps := handlers.NewDeps(db, provider)
	api := app.Group("/api/v1")

	// Auth (login throttled)
	auth := api.Group("/auth")
	auth.Post("/register", deps.AuthHandler.Register)
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	auth.Post("/logout", handlers.RequireUser(deps.Auth), deps.AuthHandler.Logout)
	auth.Get("/me", handlers.RequireUser(deps.Auth), deps.AuthHandler.Me)

	// Catalog (public)
	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)

	// Cart
	cart := api.Group("/cart", handlers.RequireUser(deps.Auth))
	cart.Get("/", deps.CartHandler.View)
	cart.Post("/add", deps.CartHandler.Add)
	cart.Patch("/update/:id", deps.CartHandler.Update)
	cart.Delete("/remove/:id", deps.CartHandler.Remove)
	cart.Delete("/clear", deps.CartHandler.Clear)

	// Coupons
	api.Post("/coupons/validate", handlers.RequireUser(deps.Auth), deps.CouponHandler.Validate)

	// Orders
	orders := api.Group("/orders", handlers.RequireUser(deps.Auth))
	orders.Post("/create-payment-intent", deps.OrderHandler.CreatePaymentIntent)
	orders.Post("/create", deps.OrderHandler.Create)
	orders.Get("/", deps.OrderHandler.List)
	orders.Get("/:id", deps.OrderHandler.Detail)

	// Favorites
	favs := api.Group("/favorites", handlers.RequireUser(deps.Auth))
	favs.Get("/", deps.FavoriteHandler.List)
	favs.Post("/", deps.FavoriteHandler.Add)
	favs.Delete("/:id", deps.FavoriteHandler.Remove)

	// Admin
	admin := api.Group("/admin", handlers.RequireAdmin(deps.Auth))
	admin.Get("/orders", deps.AdminHandler.ListOrders)
	admin.Patch("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Put("/products/:id/stock", deps.AdminHandler.UpsertStock)
	admin.Post("/coupons", deps.AdminHandler.CreateCoupon)
	admin.Get("/coupons", deps.AdminHandler.ListCoupons)
	admin.Patch("/coupons/:id/deactivate", deps.AdminHandler.DeactivateCoupon)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
