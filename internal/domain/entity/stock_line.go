package entity

// StockLine cantidad de un SKU dentro del stock de un dépôt.
type StockLine struct {
	SKU         string `json:"sku"`
	ProductName string `json:"nom_produit"`
	Quantity    int    `json:"quantite"`
}

// StockRecord blob de stock de un dépôt local: todas sus líneas en un solo registro.
type StockRecord struct {
	ID      int64
	DepotID int64
	Lines   []StockLine
}
