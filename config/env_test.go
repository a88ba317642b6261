package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// override sets key for one test and clears it afterwards.
func override(t *testing.T, key, value string) {
	t.Helper()
	Set(key, value)
	t.Cleanup(func() { Set(key, "") })
}

func TestSupplierPolicy(t *testing.T) {
	assert.Equal(t, SupplierPolicyReject, SupplierPolicy())

	override(t, "SUPPLY_SUPPLIER_POLICY", "REUSE")
	assert.Equal(t, SupplierPolicyReuse, SupplierPolicy())

	Set("SUPPLY_SUPPLIER_POLICY", "whatever")
	assert.Equal(t, SupplierPolicyReject, SupplierPolicy())
}

func TestHydrateMode(t *testing.T) {
	for in, want := range map[string]string{"": "keep", "NULL": "null", "strict": "strict", "bogus": "keep"} {
		override(t, "HYDRATE_MODE", in)
		assert.Equal(t, want, HydrateMode(), in)
	}
}

func TestNumericSettings(t *testing.T) {
	max, window := RateLimit()
	assert.Equal(t, 200, max)
	assert.Equal(t, time.Minute, window)
	assert.Equal(t, 4, ImportWorkers())
	assert.Equal(t, 5, LowStockThreshold())

	override(t, "RATE_LIMIT_WINDOW", "30s")
	override(t, "IMPORT_WORKERS", "-2")
	override(t, "LOW_STOCK_THRESHOLD", "nope")
	_, window = RateLimit()
	assert.Equal(t, 30*time.Second, window)
	assert.Equal(t, 1, ImportWorkers())
	assert.Equal(t, 5, LowStockThreshold())
}

func TestDatabaseDSNFollowsDriver(t *testing.T) {
	override(t, "DB_DRIVER", "postgres")
	assert.Equal(t, "postgres", DatabaseDriver())
	assert.Contains(t, DatabaseDSN(), "dbname=stockpile")

	override(t, "DATABASE_DSN", "file:other.db")
	assert.Equal(t, "file:other.db", DatabaseDSN())
}

func TestMergeJSONConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	body := `{"app_port": "9090", "inventory_require_auth": true, "ignored": {"a": 1}}`
	assert.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	out := map[string]string{}
	assert.NoError(t, mergeJSONConfig(path, out))
	assert.Equal(t, map[string]string{"APP_PORT": "9090", "INVENTORY_REQUIRE_AUTH": "true"}, out)
}
