package httpadapter

import (
	"context"
	"fmt"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// Dependency names a component the service cannot serve without.
type Dependency struct {
	Name    string
	Checker sharedobs.ReadinessChecker
}

type allReady []Dependency

// AllReady is ready only when every dependency with a non-nil checker is.
// The first failure is returned prefixed with the dependency name.
func AllReady(deps ...Dependency) sharedobs.ReadinessChecker {
	var out allReady
	for _, d := range deps {
		if d.Checker != nil {
			out = append(out, d)
		}
	}
	return out
}

func (a allReady) CheckReadiness(ctx context.Context) error {
	for _, d := range a {
		if err := d.Checker.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("%s: %w", d.Name, err)
		}
	}
	return nil
}
