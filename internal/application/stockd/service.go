// Package stockd contiene los casos de uso del backend local de stock: dépôts, blob
// de stock por dépôt (la fusión de deltas se hace aquí), diario e identidad.
package stockd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/repository"
	"github.com/jhoicas/depot-stock/internal/domain/stock"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(depots repository.DepotRepository, stocks repository.StockRepository) error) error
}

// DepotPatch cambios parciales de un dépôt; nil no modifica el campo.
type DepotPatch struct {
	Name         *string
	Location     *string
	AssignedUser *string
	Notif        *bool
}

// Service casos de uso de stockd.
type Service struct {
	depots repository.DepotRepository
	stocks repository.StockRepository
	logs   repository.LogRepository
	users  repository.UserRepository
	tx     TxRunner
	log    zerolog.Logger
	now    func() time.Time
}

// NewService construye el servicio.
func NewService(
	depots repository.DepotRepository,
	stocks repository.StockRepository,
	logs repository.LogRepository,
	users repository.UserRepository,
	tx TxRunner,
	log zerolog.Logger,
) *Service {
	return &Service{depots: depots, stocks: stocks, logs: logs, users: users, tx: tx, log: log, now: time.Now}
}

// ── Dépôts ────────────────────────────────────────────────────────────────────

// ListDepots lista todos los dépôts.
func (s *Service) ListDepots(ctx context.Context) ([]*entity.Depot, error) {
	return s.depots.List(ctx)
}

// CreateDepot crea un dépôt; el nombre es obligatorio.
func (s *Service) CreateDepot(ctx context.Context, d *entity.Depot) (*entity.Depot, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return nil, fmt.Errorf("nombre de dépôt vacío: %w", domain.ErrInvalidInput)
	}
	if err := s.depots.Create(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info().Int64("depot_id", d.ID).Str("name", d.Name).Msg("dépôt creado")
	return d, nil
}

// UpdateDepot aplica los campos presentes del parche.
func (s *Service) UpdateDepot(ctx context.Context, id int64, p DepotPatch) (*entity.Depot, error) {
	d, err := s.getDepot(ctx, s.depots, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, fmt.Errorf("nombre de dépôt vacío: %w", domain.ErrInvalidInput)
		}
		d.Name = name
	}
	if p.Location != nil {
		d.Location = *p.Location
	}
	if p.AssignedUser != nil {
		d.AssignedUser = strings.TrimSpace(*p.AssignedUser)
	}
	if p.Notif != nil {
		d.PendingNotification = *p.Notif
	}
	if err := s.depots.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteDepot elimina el dépôt y su stock. El diario se conserva.
func (s *Service) DeleteDepot(ctx context.Context, id int64) error {
	if err := s.depots.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("depot_id", id).Msg("dépôt eliminado")
	return nil
}

// ── Stock ─────────────────────────────────────────────────────────────────────

// ListStock registros de stock del dépôt (cero o uno).
func (s *Service) ListStock(ctx context.Context, depotID int64) ([]*entity.StockRecord, error) {
	return s.stocks.ListByDepot(ctx, depotID)
}

// CreateStock siembra el blob del dépôt. Si ya existe, cada línea se fusiona como delta.
func (s *Service) CreateStock(ctx context.Context, depotID int64, lines []entity.StockLine) (*entity.StockRecord, error) {
	for _, l := range lines {
		if strings.TrimSpace(l.SKU) == "" {
			return nil, fmt.Errorf("línea sin sku: %w", domain.ErrInvalidInput)
		}
	}
	var out *entity.StockRecord
	err := s.tx.Run(ctx, func(depots repository.DepotRepository, stocks repository.StockRepository) error {
		if _, err := s.getDepot(ctx, depots, depotID); err != nil {
			return err
		}
		rec, err := stocks.GetForUpdate(ctx, depotID)
		if err != nil {
			return err
		}
		if rec == nil {
			rec = &entity.StockRecord{DepotID: depotID}
			for _, l := range lines {
				rec.Lines = stock.MergeDelta(rec.Lines, l.SKU, l.ProductName, l.Quantity)
			}
			if err := stocks.Create(ctx, rec); err != nil {
				return err
			}
			out = rec
			return nil
		}
		for _, l := range lines {
			rec.Lines = stock.MergeDelta(rec.Lines, l.SKU, l.ProductName, l.Quantity)
		}
		out = rec
		return stocks.Save(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyDelta fusiona un delta firmado en el blob del dépôt: incrementa si el SKU existe,
// lo agrega si no. La fila se bloquea durante la fusión; si no existe se crea.
// Las cantidades negativas se conservan para que la discrepancia sea visible.
func (s *Service) ApplyDelta(ctx context.Context, depotID int64, sku, productName string, delta int) (*entity.StockRecord, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, fmt.Errorf("sku vacío: %w", domain.ErrInvalidInput)
	}
	var out *entity.StockRecord
	err := s.tx.Run(ctx, func(depots repository.DepotRepository, stocks repository.StockRepository) error {
		if _, err := s.getDepot(ctx, depots, depotID); err != nil {
			return err
		}
		rec, err := stocks.GetForUpdate(ctx, depotID)
		if err != nil {
			return err
		}
		if rec == nil {
			rec = &entity.StockRecord{DepotID: depotID, Lines: stock.MergeDelta(nil, sku, productName, delta)}
			out = rec
			return stocks.Create(ctx, rec)
		}
		rec.Lines = stock.MergeDelta(rec.Lines, sku, productName, delta)
		out = rec
		return stocks.Save(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int64("depot_id", depotID).Str("sku", sku).Int("delta", delta).Msg("delta aplicado")
	return out, nil
}

// ── Diario ────────────────────────────────────────────────────────────────────

// CreateLog agrega una entrada al diario.
func (s *Service) CreateLog(ctx context.Context, e *entity.LogEntry) (*entity.LogEntry, error) {
	if strings.TrimSpace(e.Action) == "" || e.DepotID <= 0 {
		return nil, fmt.Errorf("entrada de diario incompleta: %w", domain.ErrInvalidInput)
	}
	if e.Content == nil {
		e.Content = []entity.StockLine{}
	}
	if e.Date.IsZero() {
		e.Date = s.now().UTC()
	}
	if err := s.logs.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListLogs todas las entradas, la más reciente primero.
func (s *Service) ListLogs(ctx context.Context) ([]*entity.LogEntry, error) {
	return s.logs.List(ctx)
}

// ── Identidad ─────────────────────────────────────────────────────────────────

// Login verifica la contraseña con bcrypt. Usuario inexistente o contraseña inválida
// devuelven el mismo error.
func (s *Service) Login(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return &entity.User{Username: u.Username, Role: u.Role}, nil
}

// CreateUser registra un usuario con la contraseña hasheada.
func (s *Service) CreateUser(ctx context.Context, username, password, role string) error {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return fmt.Errorf("usuario o contraseña inválidos: %w", domain.ErrInvalidInput)
	}
	if role != entity.RoleAdmin && role != entity.RoleResponsable && role != entity.RoleVendeuse {
		return fmt.Errorf("rol %q: %w", role, domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.Create(ctx, &repository.UserCredentials{
		User:         entity.User{Username: username, Role: role},
		PasswordHash: string(hash),
	})
}

// EnsureAdmin crea el administrador inicial si no hay usuarios. Sin contraseña no hace nada.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if password == "" {
		return nil
	}
	n, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := s.CreateUser(ctx, username, password, entity.RoleAdmin); err != nil {
		return err
	}
	s.log.Info().Str("username", username).Msg("administrador inicial creado")
	return nil
}

func (s *Service) getDepot(ctx context.Context, repo repository.DepotRepository, id int64) (*entity.Depot, error) {
	d, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("dépôt %d: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

// IsClientError indica si el error se debe a la petición y no al backend.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnauthorized)
}
