package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/speakers-bff/internal/model"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/jackc/pgx/v5"
)

type RoleRepository struct {
	server *server.Server
}

func NewRoleRepository(s *server.Server) *RoleRepository {
	return &RoleRepository{server: s}
}

func (r *RoleRepository) CreateRole(ctx context.Context, createdBy string, req model.CreateRoleRequest) (*model.Role, error) {
	stmt := `
		INSERT INTO roles (name, description, permissions, is_default, created_by)
		VALUES (@name, @description, @permissions, @is_default, @created_by)
		RETURNING *
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"name":        req.Name,
		"description": req.Description,
		"permissions": req.Permissions,
		"is_default":  req.IsDefault,
		"created_by":  createdBy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create role query for name=%s: %w", req.Name, err)
	}

	role, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Role])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:roles: name=%s: %w", req.Name, err)
	}

	return &role, nil
}

func (r *RoleRepository) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	stmt := `SELECT * FROM roles WHERE name = @name`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get role query for name=%s: %w", name, err)
	}

	role, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Role])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:roles: name=%s: %w", name, err)
	}

	return &role, nil
}

func (r *RoleRepository) ListRoles(ctx context.Context) ([]model.Role, error) {
	stmt := `SELECT * FROM roles ORDER BY is_default DESC, name`

	rows, err := r.server.DB.Pool.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list roles query: %w", err)
	}

	roles, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Role])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:roles: %w", err)
	}

	return roles, nil
}
