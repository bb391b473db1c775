package contact

import (
	"context"
	"errors"
	"fmt"
)

// Multi fans an inquiry out to every submitter. All are tried; failures
// are joined.
type Multi []Submitter

func (m Multi) Submit(ctx context.Context, d FormData) error {
	var errs []error
	for i, s := range m {
		if err := s.Submit(ctx, d); err != nil {
			errs = append(errs, fmt.Errorf("submitter %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
