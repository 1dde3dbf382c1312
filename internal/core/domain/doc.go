// Package domain contains the core business entities and rules for the
// construction document chatbot. It has no dependencies on adapters or
// external services.
package domain
