package model

import (
	"time"

	"github.com/deppfellow/speakers-bff/internal/validation"
)

// Role is a row of the roles table.
type Role struct {
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Permissions []string  `json:"permissions" db:"permissions"`
	IsDefault   bool      `json:"is_default" db:"is_default"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// RoleSchemaDefinition is the OpenAPI 3.0 schema of POST /api/v1/roles.
// Permissions follow the "<scope>:<resource>:<action>" shape used by Clerk.
const RoleSchemaDefinition = `{
	"type": "object",
	"required": ["name", "permissions"],
	"additionalProperties": false,
	"properties": {
		"name": {
			"type": "string",
			"pattern": "^[a-z][a-z0-9_-]{1,49}$"
		},
		"description": {
			"type": "string",
			"maxLength": 500,
			"default": ""
		},
		"permissions": {
			"type": "array",
			"minItems": 1,
			"uniqueItems": true,
			"items": {
				"type": "string",
				"pattern": "^[a-z_]+(:[a-z_]+)+$"
			}
		},
		"is_default": {
			"type": "boolean",
			"default": false
		}
	}
}`

// CreateRoleRequest is the typed view of a validated role body.
type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	IsDefault   bool     `json:"is_default"`
}

// CreateRoleSchema validates role bodies.
var CreateRoleSchema = validation.Typed[CreateRoleRequest](
	validation.MustCompile(validation.VersionOpenAPI30, RoleSchemaDefinition),
)

// RoleNameParam is the :name path parameter of role routes.
type RoleNameParam struct {
	Name string `param:"name" validate:"required,max=50"`
}

func (p *RoleNameParam) Validate() error {
	return validation.ValidateStruct(p)
}
