package search

import (
	"time"

	"github.com/poiesic/carprompt/core"
)

// Operation names the searcher entry point a monitor event belongs to.
type Operation string

const (
	OperationSearch     Operation = "search"
	OperationBasic      Operation = "basic"
	OperationAdvanced   Operation = "advanced"
	OperationVectorOnly Operation = "vector_only"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
// Implementations must be safe for concurrent use; one searcher serves many
// requests at once.
type SearchMonitor interface {
	Started(op Operation, prompt string)
	// Parsed is called with the filter the search will use. err is the
	// parser failure the filter replaced, if any.
	Parsed(op Operation, filters core.FilterSet, err error)
	Fetched(op Operation, candidates int)
	// VectorScored reports how many candidates got a vector score. err is
	// set when embedding failed and vector scoring was skipped.
	VectorScored(op Operation, scored int, err error)
	Completed(op Operation, count int, elapsed time.Duration)
	Failed(op Operation, err error)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Started(_ Operation, _ string)                 {}
func (n *noopMonitor) Parsed(_ Operation, _ core.FilterSet, _ error) {}
func (n *noopMonitor) Fetched(_ Operation, _ int)                    {}
func (n *noopMonitor) VectorScored(_ Operation, _ int, _ error)      {}
func (n *noopMonitor) Completed(_ Operation, _ int, _ time.Duration) {}
func (n *noopMonitor) Failed(_ Operation, _ error)                   {}

