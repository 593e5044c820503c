package rsc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

// newGraphQLServer serves the token endpoint plus a GraphQL handler and
// returns an authenticated client against it.
func newGraphQLServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(TokenPath, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	})
	mux.HandleFunc(GraphQLPath, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(server.URL)
	client.SetRetryDelay(0)
	_, err := client.Authenticate(context.Background(), testCredential())
	require.NoError(t, err)
	return client
}

// pagedHandler serves fixed pages of edges keyed by the "after" cursor.
func pagedHandler(t *testing.T, pages int, perPage int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req struct {
			OperationName string         `json:"operationName"`
			Variables     map[string]any `json:"variables"`
			Query         string         `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Query)

		page := 0
		if after, ok := req.Variables["after"].(string); ok && after != "" {
			fmt.Sscanf(after, "cursor-%d", &page)
		}

		edges := make([]map[string]any, 0, perPage)
		for i := 0; i < perPage; i++ {
			edges = append(edges, map[string]any{
				"node": map[string]any{"id": fmt.Sprintf("node-%d-%d", page, i)},
			})
		}

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"thingConnection": map[string]any{
					"edges": edges,
					"pageInfo": map[string]any{
						"endCursor":   fmt.Sprintf("cursor-%d", page+1),
						"hasNextPage": page+1 < pages,
					},
				},
			},
		})
	}
}

func testOperation() driven.Operation {
	return driven.Operation{
		Name:       "ThingQuery",
		Query:      "query ThingQuery($first: Int, $after: String) { thingConnection { edges { node { id } } } }",
		Variables:  map[string]any{"filter": "x"},
		Connection: "thingConnection",
		PageSize:   2,
	}
}

func TestFetchAllPaginationCompleteness(t *testing.T) {
	const pages, perPage = 3, 2
	client := newGraphQLServer(t, pagedHandler(t, pages, perPage))

	nodes, err := client.FetchAll(context.Background(), testOperation())
	require.NoError(t, err)
	require.Len(t, nodes, pages*perPage)

	// Server order is preserved within and across pages.
	var first struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(nodes[0], &first))
	assert.Equal(t, "node-0-0", first.ID)
	var last struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(nodes[len(nodes)-1], &last))
	assert.Equal(t, "node-2-1", last.ID)
}

func TestFetchAllIdempotent(t *testing.T) {
	client := newGraphQLServer(t, pagedHandler(t, 2, 3))

	op := testOperation()
	firstRun, err := client.FetchAll(context.Background(), op)
	require.NoError(t, err)
	secondRun, err := client.FetchAll(context.Background(), op)
	require.NoError(t, err)

	assert.Equal(t, firstRun, secondRun)
	assert.NotContains(t, op.Variables, "after", "caller variables are never mutated")
	assert.NotContains(t, op.Variables, "first")
}

func TestFetchAllNodesShape(t *testing.T) {
	client := newGraphQLServer(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"thingConnection": map[string]any{
					"nodes": []map[string]any{{"id": "a"}, {"id": "b"}},
					"pageInfo": map[string]any{
						"endCursor":   "",
						"hasNextPage": false,
					},
				},
			},
		})
	})

	nodes, err := client.FetchAll(context.Background(), testOperation())
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestFetchAllEmptyFirstPage(t *testing.T) {
	client := newGraphQLServer(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"thingConnection": map[string]any{
					"edges":    []any{},
					"pageInfo": map[string]any{"endCursor": "", "hasNextPage": false},
				},
			},
		})
	})

	nodes, err := client.FetchAll(context.Background(), testOperation())
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestFetchAllMissingPageInfoStops(t *testing.T) {
	client := newGraphQLServer(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"thingConnection": map[string]any{
					"edges": []map[string]any{{"node": map[string]any{"id": "only"}}},
				},
			},
		})
	})

	nodes, err := client.FetchAll(context.Background(), testOperation())
	require.NoError(t, err)
	assert.Len(t, nodes, 1, "absent pageInfo means no more pages")
}

func TestFetchAllErrorsKeepPartialResults(t *testing.T) {
	var calls int
	client := newGraphQLServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			pagedHandler(t, 5, 2)(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]string{{"message": "RATE_LIMITED: try later"}},
		})
	})

	nodes, err := client.FetchAll(context.Background(), testOperation())
	require.Error(t, err)

	var gqlErr *GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Contains(t, gqlErr.Messages[0], "RATE_LIMITED")
	assert.Len(t, nodes, 2, "partial results survive a mid-pagination error")
}

func TestFetchAllRequiresSession(t *testing.T) {
	client := NewClient("https://acme.my.rubrik.com")
	_, err := client.FetchAll(context.Background(), testOperation())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestQuerySingleShot(t *testing.T) {
	client := newGraphQLServer(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"threatHuntResult": map[string]any{"huntId": "hunt-1"},
			},
		})
	})

	data, err := client.Query(context.Background(), driven.Operation{
		Name:  "ThreatHuntResultQuery",
		Query: "query ThreatHuntResultQuery { threatHuntResult { huntId } }",
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), "hunt-1")
}
