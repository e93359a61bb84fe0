package movement

import "github.com/jhoicas/depot-stock/internal/domain/entity"

// Workflow configuración de una operación para la sesión: reemplaza las variantes de
// pantalla por rol con un solo flujo parametrizado.
type Workflow struct {
	Operation        entity.Operation `json:"operation"`
	Action           string           `json:"action"`
	RequiresReason   bool             `json:"requires_reason"`
	Reasons          []string         `json:"reasons,omitempty"`
	FixedReason      string           `json:"fixed_reason,omitempty"`
	NeedsDestination bool             `json:"needs_destination"`
	AnyDepot         bool             `json:"any_depot"`
	AdvisoryCheck    bool             `json:"advisory_check"`
}

var operations = []entity.Operation{entity.OpReception, entity.OpExit, entity.OpReturn, entity.OpTransfer}

// Workflows devuelve las operaciones disponibles para la sesión.
func Workflows(session entity.Session) []Workflow {
	out := make([]Workflow, 0, len(operations))
	for _, op := range operations {
		if !session.Capabilities.Allows(op) {
			continue
		}
		out = append(out, Workflow{
			Operation:        op,
			Action:           op.ActionLabel(),
			RequiresReason:   op.RequiresReason(),
			Reasons:          op.Reasons(),
			FixedReason:      op.FixedReason(),
			NeedsDestination: op == entity.OpTransfer,
			AnyDepot:         session.Capabilities.CanSelectAnyDepot,
			AdvisoryCheck:    op == entity.OpExit,
		})
	}
	return out
}
