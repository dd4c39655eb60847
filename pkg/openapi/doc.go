// Package openapi exposes the public contracts for deriving forms from
// OpenAPI operation request bodies. Implementations live under
// internal/openapi to keep kin-openapi parsing details hidden from consumers.
package openapi
