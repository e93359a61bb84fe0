package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ── Formato de cable del backend local de stock ───────────────────────────────
// Lo comparten el adaptador REST (cliente) y el servicio stockd (servidor).

// NotifFlag bandera de notificación pendiente. Se escribe como "0"/"1"; al leer
// acepta también números y booleanos.
type NotifFlag bool

// MarshalJSON implementa json.Marshaler.
func (f NotifFlag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte(`"1"`), nil
	}
	return []byte(`"0"`), nil
}

// UnmarshalJSON implementa json.Unmarshaler.
func (f *NotifFlag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	switch strings.ToLower(s) {
	case "1", "true":
		*f = true
	case "0", "false", "", "null":
		*f = false
	default:
		return fmt.Errorf("notif inválido: %s", b)
	}
	return nil
}

// DepotWire dépôt tal como lo expone GET /depots/select.
type DepotWire struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name" validate:"required,min=1,max=200"`
	Localisation    string    `json:"localisation" validate:"max=300"`
	UsernameAssocie string    `json:"username_associe,omitempty" validate:"max=100"`
	Notif           NotifFlag `json:"notif"`
}

// DepotUpdateWire cuerpo de PUT /depots/update/{id}; solo se aplican los campos presentes.
type DepotUpdateWire struct {
	Name            *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Localisation    *string    `json:"localisation,omitempty" validate:"omitempty,max=300"`
	UsernameAssocie *string    `json:"username_associe,omitempty" validate:"omitempty,max=100"`
	Notif           *NotifFlag `json:"notif,omitempty"`
}

// StockRecordWire registro de stock por dépôt; Stock es el blob (arreglo o string JSON).
type StockRecordWire struct {
	ID      int64           `json:"id"`
	DepotID int64           `json:"depot_id"`
	Stock   json.RawMessage `json:"stock"`
}

// StockCreateWire cuerpo de POST /stock_by_depot/create.
type StockCreateWire struct {
	DepotID int64           `json:"depot_id" validate:"required,gt=0"`
	Stock   json.RawMessage `json:"stock"`
}

// StockUpdateWire cuerpo de PUT /stock_by_depot/update/{depotId}. Quantite es un delta firmado.
type StockUpdateWire struct {
	SKU        string `json:"sku" validate:"required,min=1,max=100"`
	Quantite   int    `json:"quantite"`
	NomProduit string `json:"nom_produit" validate:"max=300"`
}

// LogCreateWire cuerpo de POST /logs/create. ContenuLog viaja como arreglo estructurado.
type LogCreateWire struct {
	ActionLog  string          `json:"action_log" validate:"required,max=100"`
	NomLog     string          `json:"nom_log" validate:"max=100"`
	DepotID    int64           `json:"depot_id" validate:"required,gt=0"`
	ContenuLog json.RawMessage `json:"contenu_log"`
}

// LogWire entrada del diario tal como la expone GET /logs/select.
type LogWire struct {
	ID         int64           `json:"id"`
	ActionLog  string          `json:"action_log"`
	NomLog     string          `json:"nom_log"`
	DepotID    int64           `json:"depot_id"`
	ContenuLog json.RawMessage `json:"contenu_log"`
	DateLog    time.Time       `json:"date_log"`
}

// UserWire identidad devuelta por POST /auth/login.
type UserWire struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
