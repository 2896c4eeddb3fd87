// Package directory looks up German localities and postal codes against a
// public locality directory service.
package directory

import "context"

// Locality is a single record returned by the directory service. The service
// responds with a bare JSON list of these records, not an envelope object.
type Locality struct {
	Name       string `json:"name"`
	PostalCode string `json:"postalCode"`
}

// Client defines the two read-only lookups the directory service offers.
// Match semantics (substring vs. exact) are decided by the remote service.
type Client interface {
	// SearchByName returns all localities whose name matches the query.
	SearchByName(ctx context.Context, name string) ([]Locality, error)

	// SearchByPostalCode returns all localities registered for the code.
	SearchByPostalCode(ctx context.Context, code string) ([]Locality, error)
}
