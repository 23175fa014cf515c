package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
)

type normalizedDraft struct {
	StoreID    int64            `json:"storeId"`
	CustomerID int64            `json:"customerId"`
	Name       string           `json:"customerName"`
	Email      string           `json:"customerEmail"`
	Phone      string           `json:"customerPhone"`
	Lines      []normalizedLine `json:"lines"`
}

type normalizedLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

// FingerprintDraft builds a deterministic hash of a placement request
// (excluding the idempotency key). Merged lines make the hash insensitive
// to line ordering and duplicate-line splits.
func FingerprintDraft(draft domain.Draft) (string, error) {
	lines, err := draft.Normalize()
	if err != nil {
		return "", err
	}
	normalized := normalizedDraft{
		StoreID:    draft.StoreID,
		CustomerID: draft.CustomerID,
		Name:       draft.Customer.Name,
		Email:      draft.Customer.Email,
		Phone:      draft.Customer.Phone,
		Lines:      make([]normalizedLine, 0, len(lines)),
	}
	for _, line := range lines {
		normalized.Lines = append(normalized.Lines, normalizedLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
