// Package services contains the core business logic implementations
// of the driving ports: ingestion, retrieval-augmented answering,
// structured extraction and chat routing.
package services
