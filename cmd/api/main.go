package main

import (
	"context"
	"log"

	"github.com/apexretail/catalog-server/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("catalog API failed: %v", err)
	}
}
