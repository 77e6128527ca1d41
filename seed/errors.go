package seed

import "errors"

var (
	// ErrInvalidCatalog is returned when a catalog is internally inconsistent.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrRepositoryRequired is returned when a seeder is missing a repository.
	ErrRepositoryRequired = errors.New("repository required")
)
