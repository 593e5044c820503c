package rsc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
	"github.com/joshuastenhouse/rscreporting-go/internal/logger"
)

// DefaultPageSize is the page size requested when an operation does not
// set one.
const DefaultPageSize = 1000

// Ensure Client implements the executor port.
var _ driven.Queryer = (*Client)(nil)

// graphQLRequest is the wire body for the GraphQL endpoint.
type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Query         string         `json:"query"`
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// pageInfo is the cursor state of one connection page. A missing or
// malformed pageInfo is treated as "no more pages".
type pageInfo struct {
	EndCursor   string `json:"endCursor"`
	HasNextPage bool   `json:"hasNextPage"`
}

// connection covers both paginated shapes used by the schema: edge lists
// with embedded nodes and bare node lists.
type connection struct {
	Edges []struct {
		Node json.RawMessage `json:"node"`
	} `json:"edges"`
	Nodes    []json.RawMessage `json:"nodes"`
	PageInfo *pageInfo         `json:"pageInfo"`
}

// FetchAll executes op and follows cursor pagination until exhausted,
// returning all nodes in server order. The executor imposes no ordering or
// deduplication of its own. A top-level GraphQL errors array stops the
// loop; the nodes accumulated so far are still returned alongside the
// error. The caller's variables map is never mutated.
func (c *Client) FetchAll(ctx context.Context, op driven.Operation) ([]json.RawMessage, error) {
	if err := c.RequireSession(); err != nil {
		return nil, err
	}
	if op.Connection == "" {
		return nil, fmt.Errorf("operation %s: %w: missing connection field", op.Name, errBadOperation)
	}

	// Pagination state lives on a private copy so the template stays
	// reusable and safe to share.
	vars := make(map[string]any, len(op.Variables)+2)
	for k, v := range op.Variables {
		vars[k] = v
	}
	pageSize := op.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	vars["first"] = pageSize

	var nodes []json.RawMessage
	page := 0
	for {
		page++
		resp, err := c.post(ctx, graphQLRequest{
			OperationName: op.Name,
			Variables:     vars,
			Query:         op.Query,
		})
		if err != nil {
			return nodes, err
		}
		if len(resp.Errors) > 0 {
			messages := make([]string, 0, len(resp.Errors))
			for _, e := range resp.Errors {
				messages = append(messages, e.Message)
			}
			logger.Warn("%s page %d returned errors: %v", op.Name, page, messages)
			return nodes, &GraphQLError{Messages: messages}
		}

		conn, err := decodeConnection(resp.Data, op.Connection)
		if err != nil {
			return nodes, fmt.Errorf("operation %s: %w", op.Name, err)
		}

		for _, edge := range conn.Edges {
			nodes = append(nodes, edge.Node)
		}
		nodes = append(nodes, conn.Nodes...)

		if conn.PageInfo == nil || !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor == "" {
			break
		}
		vars["after"] = conn.PageInfo.EndCursor
	}

	logger.Debug("%s fetched %d nodes over %d pages", op.Name, len(nodes), page)
	return nodes, nil
}

// Query executes a single non-paginated operation and returns the raw
// contents of the "data" field.
func (c *Client) Query(ctx context.Context, op driven.Operation) (json.RawMessage, error) {
	if err := c.RequireSession(); err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, graphQLRequest{
		OperationName: op.Name,
		Variables:     op.Variables,
		Query:         op.Query,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		messages := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}
		return nil, &GraphQLError{Messages: messages}
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("operation %s: re-encoding data: %w", op.Name, err)
	}
	return data, nil
}

// post sends one GraphQL request and decodes the response envelope.
func (c *Client) post(ctx context.Context, body graphQLRequest) (*graphQLResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.session.GraphQLURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing %s: %w", body.OperationName, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
			URL:        c.session.GraphQLURL,
		}
	}

	var gr graphQLResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &gr, nil
}

// decodeConnection extracts the named connection from the data map. An
// absent connection or a null value yields an empty page.
func decodeConnection(data map[string]json.RawMessage, field string) (*connection, error) {
	raw, ok := data[field]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return &connection{}, nil
	}
	var conn connection
	if err := json.Unmarshal(raw, &conn); err != nil {
		return nil, fmt.Errorf("decoding connection %q: %w", field, err)
	}
	return &conn, nil
}
