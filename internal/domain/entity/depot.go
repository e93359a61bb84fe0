package entity

// DefaultSaintCannatID id bien conocido del dépôt cuyo stock vive en el catálogo externo.
const DefaultSaintCannatID int64 = 1

// Depot representa un dépôt (almacén) físico o lógico.
type Depot struct {
	ID                  int64
	Name                string
	Location            string
	AssignedUser        string // vacío si ningún usuario está asociado
	PendingNotification bool
}

// AssignedTo indica si el dépôt está asociado al usuario dado.
func (d *Depot) AssignedTo(username string) bool {
	return d != nil && d.AssignedUser != "" && d.AssignedUser == username
}
