package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	content := `
server:
  name: bookshop
  host: 127.0.0.1
  port: 9090

mysql:
  host: db.internal
  port: 3306
  username: shop
  password: secret
  database: bookshop

redis:
  addr: localhost:6379
  item_ttl: 10m

gateways:
  midtrans:
    base_url: https://app.sandbox.midtrans.com
    server_key: SB-Mid-server-abc
    timeout: 20s
  xendit:
    base_url: https://api.xendit.co
    secret_key: xnd_development_abc

simulator:
  interval: 30s
  max_quantity: 5
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bookshop", cfg.Server.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Minute, cfg.Redis.ItemTTL)
	assert.Equal(t, "SB-Mid-server-abc", cfg.Gateways.Midtrans.ServerKey)
	assert.Equal(t, 20*time.Second, cfg.Gateways.Midtrans.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Simulator.Interval)
	assert.Equal(t, 5, cfg.Simulator.MaxQuantity)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	cfg := MySQLConfig{
		Host:     "db.internal",
		Port:     3306,
		Username: "shop",
		Password: "secret",
		Database: "bookshop",
	}
	assert.Equal(t,
		"shop:secret@tcp(db.internal:3306)/bookshop?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DSN())
}
