// Package rsc implements the Rubrik Security Cloud connector: token
// endpoint authentication, the cursor-paginated GraphQL executor, backend
// error classification and the declarative node flattener used by every
// report type.
package rsc
