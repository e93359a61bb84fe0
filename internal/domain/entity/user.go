package entity

// Roles válidos.
const (
	RoleAdmin       = "admin"
	RoleResponsable = "responsable"
	RoleVendeuse    = "vendeuse"
)

// User identidad devuelta por el proveedor de identidad.
type User struct {
	Username string
	Role     string
}

// Capabilities conjunto de permisos derivado del rol.
type Capabilities struct {
	CanSelectAnyDepot bool `json:"can_select_any_depot"`
	CanSeeReceptions  bool `json:"can_see_receptions"`
	CanExit           bool `json:"can_exit"`
	CanReturn         bool `json:"can_return"`
	CanTransfer       bool `json:"can_transfer"`
	CanSeeLogs        bool `json:"can_see_logs"`
	CanManageDepots   bool `json:"can_manage_depots"`
	CanAcknowledge    bool `json:"can_acknowledge"`
}

// CapabilitiesFor devuelve las capacidades de un rol; un rol desconocido no tiene ninguna.
func CapabilitiesFor(role string) Capabilities {
	switch role {
	case RoleAdmin:
		return Capabilities{
			CanSelectAnyDepot: true, CanSeeReceptions: true, CanExit: true, CanReturn: true,
			CanTransfer: true, CanSeeLogs: true, CanManageDepots: true, CanAcknowledge: true,
		}
	case RoleResponsable:
		return Capabilities{
			CanSelectAnyDepot: true, CanSeeReceptions: true, CanExit: true, CanReturn: true,
			CanTransfer: true, CanSeeLogs: true, CanAcknowledge: true,
		}
	case RoleVendeuse:
		return Capabilities{CanExit: true, CanReturn: true, CanTransfer: true, CanAcknowledge: true}
	default:
		return Capabilities{}
	}
}

// Allows indica si las capacidades permiten la operación.
func (c Capabilities) Allows(op Operation) bool {
	switch op {
	case OpReception:
		return c.CanSeeReceptions
	case OpExit:
		return c.CanExit
	case OpReturn:
		return c.CanReturn
	case OpTransfer:
		return c.CanTransfer
	}
	return false
}

// Session contexto explícito de la petición: quién actúa y con qué permisos.
type Session struct {
	Username     string
	Role         string
	Capabilities Capabilities
}

// NewSession construye la sesión derivando las capacidades del rol.
func NewSession(username, role string) Session {
	return Session{Username: username, Role: role, Capabilities: CapabilitiesFor(role)}
}

// CanUseDepot indica si la sesión puede operar sobre el dépôt.
func (s Session) CanUseDepot(d *Depot) bool {
	if d == nil {
		return false
	}
	return s.Capabilities.CanSelectAnyDepot || d.AssignedTo(s.Username)
}
