//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/apexretail/catalog-server/internal/domains/catalog/domain"
	"github.com/apexretail/catalog-server/internal/domains/catalog/ports"
	"github.com/apexretail/catalog-server/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("catalog_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestStoreRepository_SaveAndExists(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewStoreRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Store{Name: "Downtown", Address: "12 Main St"})
	require.NoError(t, err)
	assert.Positive(t, saved.ID)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Downtown", fetched.Name)

	exists, err := repo.Exists(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, saved.ID+100)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductRepository_SKUConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewProductRepository(db)
	ctx := context.Background()

	_, err := repo.Save(ctx, &domain.Product{Name: "Espresso Beans", Category: "Coffee", Price: 12.5, SKU: "SKU-1001"})
	require.NoError(t, err)

	_, err = repo.Save(ctx, &domain.Product{Name: "Decaf Blend", Category: "Coffee", Price: 9, SKU: "SKU-1001"})
	require.ErrorIs(t, err, ports.ErrProductConflict)
}

func TestInventoryRepository_PairConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	stores := NewStoreRepository(db)
	products := NewProductRepository(db)
	inventory := NewInventoryRepository(db)
	ctx := context.Background()

	store, err := stores.Save(ctx, &domain.Store{Name: "Downtown", Address: "12 Main St"})
	require.NoError(t, err)
	product, err := products.Save(ctx, &domain.Product{Name: "Espresso Beans", Category: "Coffee", Price: 12.5, SKU: "SKU-1001"})
	require.NoError(t, err)

	_, err = inventory.Save(ctx, &domain.Inventory{ProductID: product.ID, StoreID: store.ID, StockLevel: 10})
	require.NoError(t, err)

	_, err = inventory.Save(ctx, &domain.Inventory{ProductID: product.ID, StoreID: store.ID, StockLevel: 4})
	require.ErrorIs(t, err, ports.ErrInventoryConflict)
}

func TestProductRepository_StoreFilters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	stores := NewStoreRepository(db)
	products := NewProductRepository(db)
	inventory := NewInventoryRepository(db)
	ctx := context.Background()

	store, err := stores.Save(ctx, &domain.Store{Name: "Downtown", Address: "12 Main St"})
	require.NoError(t, err)

	stock := func(name, category, sku string) *domain.Product {
		product, err := products.Save(ctx, &domain.Product{Name: name, Category: category, Price: 5, SKU: sku})
		require.NoError(t, err)
		_, err = inventory.Save(ctx, &domain.Inventory{ProductID: product.ID, StoreID: store.ID, StockLevel: 3})
		require.NoError(t, err)
		return product
	}
	stock("Espresso Beans", "Coffee", "SKU-1")
	stock("Decaf Blend", "Coffee", "SKU-2")
	stock("Green Tea", "Tea", "SKU-3")

	all, err := products.FindByStore(ctx, store.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	coffee := "Coffee"
	filtered, err := products.FindByStoreFiltered(ctx, store.ID, ports.ProductFilter{Category: &coffee})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	// Substring match is case-sensitive.
	lower := "espresso"
	filtered, err = products.FindByStoreFiltered(ctx, store.ID, ports.ProductFilter{Name: &lower})
	require.NoError(t, err)
	assert.Empty(t, filtered)

	upper := "Espresso"
	filtered, err = products.FindByStoreFiltered(ctx, store.ID, ports.ProductFilter{Name: &upper, Category: &coffee})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Espresso Beans", filtered[0].Name)
}

func TestInventoryRepository_DeleteByProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	stores := NewStoreRepository(db)
	products := NewProductRepository(db)
	inventory := NewInventoryRepository(db)
	ctx := context.Background()

	product, err := products.Save(ctx, &domain.Product{Name: "Espresso Beans", Category: "Coffee", Price: 12.5, SKU: "SKU-1001"})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		store, err := stores.Save(ctx, &domain.Store{Name: "Store", Address: "Addr"})
		require.NoError(t, err)
		_, err = inventory.Save(ctx, &domain.Inventory{ProductID: product.ID, StoreID: store.ID, StockLevel: 1})
		require.NoError(t, err)
	}

	require.NoError(t, inventory.DeleteByProduct(ctx, product.ID))

	_, err = inventory.FindByProductAndStore(ctx, product.ID, 1)
	assert.ErrorIs(t, err, ports.ErrInventoryNotFound)
}
