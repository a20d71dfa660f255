package repos

import (
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog/coupons if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  sale_price NUMERIC CHECK (sale_price IS NULL OR sale_price >= 0),
  colors_json TEXT,
  images_json TEXT,
  rating_avg NUMERIC NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Per-size stock
CREATE TABLE IF NOT EXISTS product_sizes(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  size TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  updated_at TEXT,
  PRIMARY KEY(product_id, size)
);

-- Cart lines, one per (user, product, size, color)
CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  size TEXT NOT NULL,
  color TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  UNIQUE(user_id, product_id, size, color)
);
CREATE INDEX IF NOT EXISTS idx_cart_items_user ON cart_items(user_id);

-- Coupons
CREATE TABLE IF NOT EXISTS coupons(
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  type TEXT NOT NULL CHECK (type IN ('PERCENTAGE','FIXED')),
  value NUMERIC NOT NULL CHECK (value >= 0),
  min_order_amount NUMERIC NOT NULL DEFAULT 0,
  max_discount NUMERIC,
  starts_at TEXT NOT NULL,
  expires_at TEXT NOT NULL,
  usage_limit INTEGER,
  usage_count INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code_nocase ON coupons(LOWER(code));

-- Orders: one per payment intent, items are a frozen snapshot
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  payment_intent_id TEXT NOT NULL,
  payment_status TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  coupon_code TEXT,
  subtotal NUMERIC NOT NULL,
  discount NUMERIC NOT NULL DEFAULT 0,
  shipping NUMERIC NOT NULL DEFAULT 0,
  tax NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'PROCESSING',
  ship_name TEXT, ship_line1 TEXT, ship_line2 TEXT,
  ship_city TEXT, ship_state TEXT, ship_postal_code TEXT, ship_country TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_intent ON orders(payment_intent_id);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  price NUMERIC NOT NULL,
  qty INTEGER NOT NULL,
  size TEXT NOT NULL,
  color TEXT NOT NULL,
  PRIMARY KEY (order_id, product_id, size, color)
);

-- Favorites
CREATE TABLE IF NOT EXISTS favorites(
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(user_id, product_id)
);

-- Users & bearer sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the bearer token
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products/stock/coupons")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  ('tees','T-Shirts'),
	  ('hoodies','Hoodies'),
	  ('caps','Caps'),
	  ('stickers','Stickers')`)

	tx.MustExec(`INSERT INTO products(id,category_id,name,description,price,sale_price,colors_json,images_json,rating_avg,rating_count) VALUES
	  ('tee-logo','tees','Logo Tee','Heavyweight cotton tee with the classic logo','29.99',NULL,'["Black","White","Navy"]','["products/tee-logo/main.jpg"]',4.6,128),
	  ('tee-retro','tees','Retro Wave Tee','Soft-washed tee, 90s wave print','34.99','24.99','["Black","Sand"]','["products/tee-retro/main.jpg"]',4.2,54),
	  ('hoodie-box','hoodies','Box Logo Hoodie','Fleece-lined hoodie, embroidered box logo','79.00',NULL,'["Black","Grey"]','["products/hoodie-box/main.jpg"]',4.8,201),
	  ('cap-snap','caps','Snapback Cap','Flat-brim snapback, stitched patch','24.50','19.50','["Black"]','["products/cap-snap/main.jpg"]',4.0,33)`)

	tx.MustExec(`INSERT INTO product_sizes(product_id,size,stock) VALUES
	  ('tee-logo','S',12),('tee-logo','M',20),('tee-logo','L',15),('tee-logo','XL',6),
	  ('tee-retro','S',4),('tee-retro','M',2),('tee-retro','L',0),
	  ('hoodie-box','M',9),('hoodie-box','L',7),('hoodie-box','XL',3),
	  ('cap-snap','OS',40)`)

	now := time.Now().UTC()
	starts := now.Add(-24 * time.Hour).Format(time.RFC3339)
	expires := now.Add(90 * 24 * time.Hour).Format(time.RFC3339)
	tx.MustExec(`INSERT INTO coupons(id,code,type,value,min_order_amount,max_discount,starts_at,expires_at,usage_limit) VALUES
	  ('cp-save10','SAVE10','PERCENTAGE',10,0,NULL,?,?,NULL),
	  ('cp-flat500','FLAT500','FIXED',500,0,NULL,?,?,NULL),
	  ('cp-big20','BIG20','PERCENTAGE',20,100,25,?,?,500)`,
		starts, expires, starts, expires, starts, expires)

	return tx.Commit()
}

// seedUsers ensures two USERs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-alice", "alice@merchline.test", "Alice", "USER", "Passw0rd!"),
		mk("u-bob", "bob@merchline.test", "Bob", "USER", "Passw0rd!"),
		mk("u-admin", "admin@merchline.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
