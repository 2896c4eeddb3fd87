package directory

import "context"

// Mock is a test implementation of Client.
type Mock struct {
	SearchByNameFunc       func(ctx context.Context, name string) ([]Locality, error)
	SearchByPostalCodeFunc func(ctx context.Context, code string) ([]Locality, error)
}

// SearchByName delegates to the configured function or returns no results.
func (m *Mock) SearchByName(ctx context.Context, name string) ([]Locality, error) {
	if m.SearchByNameFunc != nil {
		return m.SearchByNameFunc(ctx, name)
	}
	return nil, nil
}

// SearchByPostalCode delegates to the configured function or returns no results.
func (m *Mock) SearchByPostalCode(ctx context.Context, code string) ([]Locality, error) {
	if m.SearchByPostalCodeFunc != nil {
		return m.SearchByPostalCodeFunc(ctx, code)
	}
	return nil, nil
}
