// Package services contains the reporting core: the session connect
// protocol and the report services (inventory, compliance windows, event
// deduplication, threat hunt roll-up) that orchestrate the connector,
// flattener and sinks.
package services
