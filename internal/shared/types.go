package shared

// Queue names (weights are configured in cmd/worker)
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Task types processed by cmd/worker
const (
	TypeOrderPlaced             = "order:placed"
	TypeProcessBookImage        = "book:process_image"
	TypeDeleteStorageObjects    = "storage:delete_objects"
	TypeCleanupAbandonedCarts   = "cart:cleanup_abandoned"
	DefaultAbandonedCartMaxDays = 30
)

// OrderPlacedPayload is enqueued after an order transaction commits
type OrderPlacedPayload struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
}

// ProcessBookImagePayload asks the worker to render variants of an uploaded original
type ProcessBookImagePayload struct {
	BookID    string `json:"book_id"`
	ImageID   string `json:"image_id"`
	ObjectKey string `json:"object_key"`
}

// DeleteStorageObjectsPayload removes files left behind by deleted rows
type DeleteStorageObjectsPayload struct {
	Keys   []string `json:"keys,omitempty"`
	Prefix string   `json:"prefix,omitempty"`
}

// CleanupAbandonedCartsPayload removes anonymous carts untouched for OlderThanDays
type CleanupAbandonedCartsPayload struct {
	OlderThanDays int `json:"older_than_days"`
}

// Cache keys shared across domains
const (
	DashboardStatsCacheKey = "dashboard:stats"
	DashboardSalesCacheKey = "dashboard:sales:%d"
	DashboardCacheKeys     = "dashboard:*"
	StorefrontCacheKeys    = "storefront:*"
)
