// Package driven defines the driven ports (secondary adapters' interfaces)
// for the reporting core: credential and profile persistence, the GraphQL
// query executor, record sinks and interactive prompts.
package driven
