// Command stock-reporter prints inventory rows at or below a stock
// threshold, one line per (product, store) pair. Meant for cron.
package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const defaultThreshold = 5

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		log.Fatal("POSTGRES_DSN not set; cannot report stock levels")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to open postgres connection: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to reach postgres: %v", err)
	}

	threshold := thresholdFromEnv()
	rows, err := db.QueryContext(ctx, `
		SELECT p.id, p.name, p.sku, i.store_id, i.stock_level
		FROM inventories i
		JOIN products p ON p.id = i.product_id
		WHERE i.stock_level <= $1
		ORDER BY i.stock_level, p.id, i.store_id`, threshold)
	if err != nil {
		log.Fatalf("failed to query low stock rows: %v", err)
	}
	defer rows.Close()

	var reported int
	for rows.Next() {
		var (
			productID  int64
			name       string
			sku        string
			storeID    int64
			stockLevel int64
		)
		if err := rows.Scan(&productID, &name, &sku, &storeID, &stockLevel); err != nil {
			log.Fatalf("failed to scan low stock row: %v", err)
		}
		logger.Info("low stock",
			slog.Int64("product.id", productID),
			slog.String("product.name", name),
			slog.String("product.sku", sku),
			slog.Int64("store.id", storeID),
			slog.Int64("stock.level", stockLevel),
			slog.Int64("stock.threshold", threshold))
		reported++
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("failed to iterate low stock rows: %v", err)
	}
	logger.Info("stock report completed", slog.Int("rows", reported))
}

func thresholdFromEnv() int64 {
	raw := strings.TrimSpace(os.Getenv("STOCK_REPORT_THRESHOLD"))
	if raw == "" {
		return defaultThreshold
	}
	threshold, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || threshold < 0 {
		return defaultThreshold
	}
	return threshold
}
