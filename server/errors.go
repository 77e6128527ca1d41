package server

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var (
	// ErrSearcherRequired indicates New was called without a searcher.
	ErrSearcherRequired = errors.New("searcher is required")

	// ErrRepositoryRequired indicates New was called without a listing or
	// garage repository.
	ErrRepositoryRequired = errors.New("listing and garage repositories are required")

	// ErrSeedSecretRequired indicates a seeder was configured without a
	// catalog or secret.
	ErrSeedSecretRequired = errors.New("seeding requires a catalog and a secret")
)

// fail records err for the request log and aborts with message as the
// response's error.
func fail(c *gin.Context, status int, err error, message string) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
