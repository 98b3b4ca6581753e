package domain

import "time"

// Inventory is the stock on hand for one SKU. SkuCode is unique across records.
type Inventory struct {
	ID        uint      `json:"id"`
	SkuCode   string    `json:"skuCode"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
