// Package geo resolves zip codes to the set of zip codes within a search
// radius. Matching consults it from the querying user's radius only.
package geo

import "context"

// Index is the lookup surface the match engine and registration depend on.
type Index interface {
	// ZipsInRadius returns every known zip code within radiusMiles of zip,
	// including zip itself. An unknown zip yields an empty set, not an error.
	ZipsInRadius(ctx context.Context, zip string, radiusMiles int) ([]string, error)

	// ValidZip reports whether zip exists in the index.
	ValidZip(ctx context.Context, zip string) (bool, error)
}
