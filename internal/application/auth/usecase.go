package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/depot-stock/internal/application/dto"
	"github.com/jhoicas/depot-stock/internal/application/ports"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login contra el proveedor de identidad y emisión del JWT.
type AuthUseCase struct {
	identity ports.IdentityProvider
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(identity ports.IdentityProvider, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{identity: identity, jwtCfg: jwtCfg}
}

// Login verifica credenciales en el backend local, genera el JWT y devuelve las
// capacidades de la sesión. Un rol desconocido no puede iniciar sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.identity.Login(ctx, strings.TrimSpace(in.Username), in.Password)
	if err != nil {
		return nil, err
	}
	session := entity.NewSession(user.Username, user.Role)
	if session.Capabilities == (entity.Capabilities{}) {
		return nil, fmt.Errorf("rol %q sin permisos: %w", user.Role, domain.ErrForbidden)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:        token,
		Username:     user.Username,
		Role:         user.Role,
		Capabilities: ToCapabilitiesResponse(session.Capabilities),
	}, nil
}

// ToCapabilitiesResponse convierte las capacidades al DTO de salida.
func ToCapabilitiesResponse(c entity.Capabilities) dto.CapabilitiesResponse {
	return dto.CapabilitiesResponse{
		CanSelectAnyDepot: c.CanSelectAnyDepot,
		CanSeeReceptions:  c.CanSeeReceptions,
		CanExit:           c.CanExit,
		CanReturn:         c.CanReturn,
		CanTransfer:       c.CanTransfer,
		CanSeeLogs:        c.CanSeeLogs,
		CanManageDepots:   c.CanManageDepots,
		CanAcknowledge:    c.CanAcknowledge,
	}
}
