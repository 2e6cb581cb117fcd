package service

import (
	"context"
	"errors"

	"github.com/deppfellow/speakers-bff/internal/errs"
	"github.com/deppfellow/speakers-bff/internal/model"
	"github.com/deppfellow/speakers-bff/internal/sqlerr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

const singleDefaultRoleIndex = "roles_single_default_idx"

// RoleStore is the persistence used by RoleService.
type RoleStore interface {
	CreateRole(ctx context.Context, createdBy string, req model.CreateRoleRequest) (*model.Role, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
}

type RoleService struct {
	logger *zerolog.Logger
	store  RoleStore
}

func NewRoleService(logger *zerolog.Logger, store RoleStore) *RoleService {
	return &RoleService{
		logger: logger,
		store:  store,
	}
}

// CreateRole stores a role. Duplicate names and a second default role are
// conflicts.
func (s *RoleService) CreateRole(ctx context.Context, createdBy string, req model.CreateRoleRequest) (*model.Role, error) {
	role, err := s.store.CreateRole(ctx, createdBy, req)
	if err == nil {
		s.logger.Info().
			Str("role", role.Name).
			Str("created_by", createdBy).
			Msg("role created")
		return role, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && sqlerr.MapCode(pgErr.Code) == sqlerr.UniqueViolation {
		if pgErr.ConstraintName == singleDefaultRoleIndex {
			return nil, errs.NewConflictError("A default role already exists", true)
		}
		return nil, errs.NewConflictError("A role named "+req.Name+" already exists", true)
	}

	return nil, err
}

func (s *RoleService) GetRole(ctx context.Context, name string) (*model.Role, error) {
	return s.store.GetRoleByName(ctx, name)
}

func (s *RoleService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.store.ListRoles(ctx)
}
