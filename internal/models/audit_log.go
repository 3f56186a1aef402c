package models

// Audit actions recorded for basket operations.
const (
	AuditActionCreateBasket     = "CREATE_BASKET"
	AuditActionDeleteBasket     = "DELETE_BASKET"
	AuditActionDuplicateBasket  = "DUPLICATE_BASKET"
	AuditActionUpdateInvestment = "UPDATE_INVESTMENT"
	AuditActionUpdateWeight     = "UPDATE_ITEM_WEIGHT"
	AuditActionUpdateQuantity   = "UPDATE_ITEM_QUANTITY"
	AuditActionRemoveItem       = "REMOVE_BASKET_ITEM"
	AuditActionRefreshPrices    = "REFRESH_PRICES"
)

// Audited resource types.
const (
	AuditResourceBasket     = "basket"
	AuditResourceInstrument = "instrument"
)

// AuditLog records user operations on baskets.
type AuditLog struct {
	Base
	UserID       string `gorm:"not null;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	RequestID    string `gorm:"index" json:"request_id,omitempty"`
	Changes      string `json:"changes,omitempty"`
}
