package driven

import (
	"context"
	"encoding/json"
)

// Operation is one GraphQL query or mutation template. Variables is never
// mutated by executors; pagination state is kept on a private copy.
type Operation struct {
	// Name is the GraphQL operation name.
	Name string

	// Query is the full GraphQL document text.
	Query string

	// Variables holds the operation variables. The "after" cursor is
	// managed by the executor and must not be set by callers.
	Variables map[string]any

	// Connection is the field under "data" that holds the paginated
	// connection. Required for FetchAll.
	Connection string

	// PageSize is the requested page size ("first" variable). Zero means
	// the executor default.
	PageSize int
}

// Queryer executes GraphQL operations against a connected RSC instance.
type Queryer interface {
	// FetchAll follows cursor pagination until exhausted and returns all
	// nodes in server order. On a mid-pagination GraphQL error the nodes
	// accumulated so far are returned alongside the error.
	FetchAll(ctx context.Context, op Operation) ([]json.RawMessage, error)

	// Query executes a single non-paginated operation and returns the raw
	// contents of the "data" field.
	Query(ctx context.Context, op Operation) (json.RawMessage, error)
}
