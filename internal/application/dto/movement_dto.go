package dto

// StartDraftRequest abre el borrador de una operación.
type StartDraftRequest struct {
	DepotID     int64 `json:"depot_id" validate:"required,gt=0"`
	DestDepotID int64 `json:"dest_depot_id" validate:"omitempty,gt=0"` // solo transfer
}

// AddLineRequest agrega un SKU escaneado o tecleado.
type AddLineRequest struct {
	SKU string `json:"sku" validate:"required,min=1,max=100"`
}

// SetQuantityRequest sobrescribe la cantidad de una línea.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// SetReasonRequest elige el motivo de la operación.
type SetReasonRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// DraftLineResponse línea del borrador.
type DraftLineResponse struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Available int    `json:"available"`
}

// DraftResponse borrador en curso.
type DraftResponse struct {
	Operation   string              `json:"operation"`
	Action      string              `json:"action"`
	DepotID     int64               `json:"depot_id"`
	DestDepotID int64               `json:"dest_depot_id,omitempty"`
	Reason      string              `json:"reason"`
	Lines       []DraftLineResponse `json:"lines"`
}
