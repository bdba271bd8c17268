package postgres

import (
	"context"
	"testing"
	"time"
)

func tableExists(t *testing.T, store *Store, table string) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var exists bool
	if err := store.DB().QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, "public."+table).Scan(&exists); err != nil {
		t.Fatalf("check table %s: %v", table, err)
	}
	return exists
}

func requireMigrationStatus(t *testing.T, store *Store, wantVersion int64, wantCount int) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("migration status: %v", err)
	}
	if version != wantVersion || count != wantCount {
		t.Fatalf("unexpected status: version=%d count=%d, want version=%d count=%d", version, count, wantVersion, wantCount)
	}
}

func TestMigrator_CatalogAndOrderTables(t *testing.T) {
	store := openRawPostgresStoreForIntegrationTest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := store.MigrateDown(ctx, 100); err != nil {
		t.Fatalf("reset migrations: %v", err)
	}
	requireMigrationStatus(t, store, 0, 0)
	if tableExists(t, store, "products") || tableExists(t, store, "orders") {
		t.Fatal("tables must be absent after full rollback")
	}

	// Шаг за шагом: сначала каталог, затем заказы.
	if err := store.MigrateUp(ctx, 1); err != nil {
		t.Fatalf("migrate up products: %v", err)
	}
	requireMigrationStatus(t, store, 1, 1)
	if !tableExists(t, store, "products") || tableExists(t, store, "orders") {
		t.Fatal("expected only products table after first step")
	}

	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("migrate up rest: %v", err)
	}
	requireMigrationStatus(t, store, 2, 2)
	if !tableExists(t, store, "orders") {
		t.Fatal("expected orders table after full migration")
	}

	// Статус заказа ограничен перечнем из домена.
	_, err := store.DB().ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, customer_phone, customer_address, product_name, size, total_price, status, created_at, updated_at)
		VALUES ('bad-status', 'Ann', '+7999', 'Moscow', 'Tee', 'M', 10, 'lost', now(), now())
	`)
	if err == nil {
		t.Fatal("expected check constraint to reject unknown order status")
	}

	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("repeated migrate up: %v", err)
	}
	requireMigrationStatus(t, store, 2, 2)

	if err := store.MigrateDown(ctx, 0); err != nil {
		t.Fatalf("migrate down default step: %v", err)
	}
	requireMigrationStatus(t, store, 1, 1)
	if tableExists(t, store, "orders") || !tableExists(t, store, "products") {
		t.Fatal("default down step must drop only orders")
	}

	if err := store.MigrateDown(ctx, 5); err != nil {
		t.Fatalf("migrate down remaining: %v", err)
	}
	requireMigrationStatus(t, store, 0, 0)
	if err := store.MigrateDown(ctx, 1); err != nil {
		t.Fatalf("down on empty state should be a no-op: %v", err)
	}

	// EnsureSchema возвращает схему для остальных тестов пакета.
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	requireMigrationStatus(t, store, 2, 2)
}

func TestMigrator_NilStoreAndUnknownDirection(t *testing.T) {
	var nilStore *Store
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := nilStore.MigrateUp(ctx, 0); err == nil {
		t.Fatal("expected error for nil store MigrateUp")
	}
	if err := nilStore.MigrateDown(ctx, 1); err == nil {
		t.Fatal("expected error for nil store MigrateDown")
	}
	if _, _, err := nilStore.MigrationStatus(ctx); err == nil {
		t.Fatal("expected error for nil store MigrationStatus")
	}

	store := openRawPostgresStoreForIntegrationTest(t)
	if err := store.migrate(ctx, migrationDirection("sideways"), 0); err == nil {
		t.Fatal("expected unsupported direction error")
	}
}
