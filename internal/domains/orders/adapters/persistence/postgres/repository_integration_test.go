//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/apexretail/catalog-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/apexretail/catalog-server/internal/domains/catalog/domain"
	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
	"github.com/apexretail/catalog-server/internal/domains/orders/ports"
	"github.com/apexretail/catalog-server/internal/platform/migrations"
)

func setupOrderPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func seedOrderFixtures(t *testing.T, db *gorm.DB, stock int64) (storeID, productID int64) {
	ctx := context.Background()
	stores := catalogpostgres.NewStoreRepository(db)
	products := catalogpostgres.NewProductRepository(db)
	inventory := catalogpostgres.NewInventoryRepository(db)

	store, err := stores.Save(ctx, &catalogdomain.Store{Name: "Downtown", Address: "12 Main St"})
	require.NoError(t, err)
	product, err := products.Save(ctx, &catalogdomain.Product{
		Name: "Espresso Beans", Category: "Coffee", Price: 12.5, SKU: "SKU-1001",
	})
	require.NoError(t, err)
	_, err = inventory.Save(ctx, &catalogdomain.Inventory{
		ProductID: product.ID, StoreID: store.ID, StockLevel: stock,
	})
	require.NoError(t, err)
	return store.ID, product.ID
}

func stockLevel(t *testing.T, db *gorm.DB, productID, storeID int64) int64 {
	row, err := catalogpostgres.NewInventoryRepository(db).
		FindByProductAndStore(context.Background(), productID, storeID)
	require.NoError(t, err)
	return row.StockLevel
}

func TestRepository_PlaceDecrementsStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderPostgresContainer(t)
	defer cleanup()
	storeID, productID := seedOrderFixtures(t, db, 10)

	repo := NewRepository(db)
	ctx := context.Background()

	order, err := repo.Place(ctx, &domain.Draft{
		StoreID:  storeID,
		Customer: domain.CustomerDetails{Name: "Ada", Email: "ada@example.com"},
		Lines:    []domain.Line{{ProductID: productID, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Positive(t, order.ID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 12.5, order.Items[0].UnitPrice)
	assert.Equal(t, 50.0, order.TotalPrice)
	assert.Equal(t, int64(6), stockLevel(t, db, productID, storeID))

	fetched, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.TotalPrice, fetched.TotalPrice)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, int64(4), fetched.Items[0].Quantity)
}

func TestRepository_PlaceRollsBackOnShortStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderPostgresContainer(t)
	defer cleanup()
	storeID, productID := seedOrderFixtures(t, db, 10)

	ctx := context.Background()
	products := catalogpostgres.NewProductRepository(db)
	inventory := catalogpostgres.NewInventoryRepository(db)
	scarce, err := products.Save(ctx, &catalogdomain.Product{
		Name: "Limited Roast", Category: "Coffee", Price: 20, SKU: "SKU-2002",
	})
	require.NoError(t, err)
	_, err = inventory.Save(ctx, &catalogdomain.Inventory{
		ProductID: scarce.ID, StoreID: storeID, StockLevel: 1,
	})
	require.NoError(t, err)

	repo := NewRepository(db)
	_, err = repo.Place(ctx, &domain.Draft{
		StoreID:  storeID,
		Customer: domain.CustomerDetails{Name: "Ada", Email: "ada@example.com"},
		Lines: []domain.Line{
			{ProductID: productID, Quantity: 5},
			{ProductID: scarce.ID, Quantity: 2},
		},
	})
	require.ErrorIs(t, err, ports.ErrInsufficientStock)

	// Nothing was decremented and no order escaped the transaction.
	assert.Equal(t, int64(10), stockLevel(t, db, productID, storeID))
	assert.Equal(t, int64(1), stockLevel(t, db, scarce.ID, storeID))
	var count int64
	require.NoError(t, db.Table("orders").Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepository_PlaceUpsertsCustomerByEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderPostgresContainer(t)
	defer cleanup()
	storeID, productID := seedOrderFixtures(t, db, 10)

	repo := NewRepository(db)
	ctx := context.Background()

	draft := func() *domain.Draft {
		return &domain.Draft{
			StoreID:  storeID,
			Customer: domain.CustomerDetails{Name: "Ada", Email: "ada@example.com"},
			Lines:    []domain.Line{{ProductID: productID, Quantity: 1}},
		}
	}
	first, err := repo.Place(ctx, draft())
	require.NoError(t, err)
	second, err := repo.Place(ctx, draft())
	require.NoError(t, err)
	assert.Equal(t, first.CustomerID, second.CustomerID)

	_, err = repo.Place(ctx, &domain.Draft{
		StoreID:    storeID,
		CustomerID: first.CustomerID + 100,
		Lines:      []domain.Line{{ProductID: productID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ports.ErrCustomerNotFound)
}

func TestCustomerRepository_EmailUniqueIndex(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderPostgresContainer(t)
	defer cleanup()

	repo := NewCustomerRepository(db)
	ctx := context.Background()

	_, err := repo.Save(ctx, &domain.Customer{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = repo.Save(ctx, &domain.Customer{Name: "Grace", Email: "ada@example.com"})
	require.ErrorIs(t, err, ports.ErrCustomerConflict)

	// NULL emails stay outside the index.
	_, err = repo.Save(ctx, &domain.Customer{Name: "Grace"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &domain.Customer{Name: "Linus"})
	require.NoError(t, err)
}

func TestRepository_PlaceConcurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderPostgresContainer(t)
	defer cleanup()
	storeID, productID := seedOrderFixtures(t, db, 4)

	repo := NewRepository(db)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Place(context.Background(), &domain.Draft{
				StoreID:  storeID,
				Customer: domain.CustomerDetails{Name: "Ada", Email: "ada@example.com"},
				Lines:    []domain.Line{{ProductID: productID, Quantity: 3}},
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	// Row locking admits at most one of the two 3-unit orders.
	assert.LessOrEqual(t, succeeded, 1)
	assert.Equal(t, int64(4-3*succeeded), stockLevel(t, db, productID, storeID))
}

func TestIdempotencyStore_GetAndSave(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()

	missing, err := store.Get(ctx, "order-abc")
	require.NoError(t, err)
	assert.Nil(t, missing)

	record := ports.IdempotencyRecord{
		Key:         "order-abc",
		RequestHash: "deadbeef",
		OrderID:     7,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	_, err = store.Save(ctx, record)
	require.NoError(t, err)

	fetched, err := store.Get(ctx, "order-abc")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, int64(7), fetched.OrderID)
	assert.Equal(t, "deadbeef", fetched.RequestHash)
}
