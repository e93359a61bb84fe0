package dto

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y capacidades de la sesión.
type LoginResponse struct {
	Token        string               `json:"token,omitempty"`
	Username     string               `json:"username"`
	Role         string               `json:"role"`
	Capabilities CapabilitiesResponse `json:"capabilities"`
}

// CapabilitiesResponse permisos derivados del rol.
type CapabilitiesResponse struct {
	CanSelectAnyDepot bool `json:"can_select_any_depot"`
	CanSeeReceptions  bool `json:"can_see_receptions"`
	CanExit           bool `json:"can_exit"`
	CanReturn         bool `json:"can_return"`
	CanTransfer       bool `json:"can_transfer"`
	CanSeeLogs        bool `json:"can_see_logs"`
	CanManageDepots   bool `json:"can_manage_depots"`
	CanAcknowledge    bool `json:"can_acknowledge"`
}
