package dto

// CreateDepotRequest entrada para crear un dépôt.
type CreateDepotRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Location     string `json:"location" validate:"max=300"`
	AssignedUser string `json:"assigned_user" validate:"max=100"`
}

// UpdateDepotRequest entrada para actualizar un dépôt; los campos nil no cambian.
type UpdateDepotRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Location     *string `json:"location" validate:"omitempty,max=300"`
	AssignedUser *string `json:"assigned_user" validate:"omitempty,max=100"`
}

// DepotResponse salida de un dépôt.
type DepotResponse struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Location            string `json:"location"`
	AssignedUser        string `json:"assigned_user,omitempty"`
	PendingNotification bool   `json:"pending_notification"`
	Catalog             bool   `json:"catalog"` // stock autoritativo en el catálogo externo
}

// StockQuery parámetros de GET /api/depots/:id/stock.
type StockQuery struct {
	Q   string `query:"q" validate:"max=200"`   // búsqueda libre por nombre o SKU
	SKU string `query:"sku" validate:"max=100"` // búsqueda exacta por SKU
}

// StockLineResponse línea de stock.
type StockLineResponse struct {
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// StockResponse stock de un dépôt.
type StockResponse struct {
	DepotID int64               `json:"depot_id"`
	Items   []StockLineResponse `json:"items"`
}
