// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist, or update data,
// abstracting SQL logic away from the service layer. "Not found" errors are
// wrapped as "table:<name>:..." so sqlerr.HandleError can name the entity.
package repository

import (
	"github.com/deppfellow/speakers-bff/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Speaker *SpeakerRepository
	Role    *RoleRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Speaker: NewSpeakerRepository(s),
		Role:    NewRoleRepository(s),
	}
}
