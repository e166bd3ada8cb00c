package datagen

import (
	"errors"
	"fmt"
)

// MaxCount is the upper bound on any requested entity count. It caps the
// memory a single generation run can consume.
const MaxCount = 100000

// Generation errors. A failed phase aborts the whole run before anything
// is handed to the loader.
var (
	// ErrInvalidCount indicates a non-positive or over-limit count request.
	ErrInvalidCount = errors.New("invalid count")

	// ErrEmptyCustomerSet indicates account generation was invoked
	// without any customers.
	ErrEmptyCustomerSet = errors.New("empty customer set")

	// ErrEmptyReferenceSet indicates transaction generation was invoked
	// with an empty upstream entity set.
	ErrEmptyReferenceSet = errors.New("empty reference set")

	// ErrBadDistribution indicates a malformed internal probability
	// table. A correctly built binary never returns it.
	ErrBadDistribution = errors.New("bad distribution")
)

// checkCount validates a requested entity count against (0, MaxCount].
func checkCount(entity string, n int) error {
	if n <= 0 {
		return fmt.Errorf("%s: %w: %d (must be positive)", entity, ErrInvalidCount, n)
	}
	if n > MaxCount {
		return fmt.Errorf("%s: %w: %d (limit %d)", entity, ErrInvalidCount, n, MaxCount)
	}
	return nil
}

// checkWeights validates a weight table: same length as items, all positive.
func checkWeights(name string, items, weights int, table []int) error {
	if items == 0 || items != weights {
		return fmt.Errorf("%s: %w: %d items, %d weights", name, ErrBadDistribution, items, weights)
	}
	for i, w := range table {
		if w <= 0 {
			return fmt.Errorf("%s: %w: weight %d at index %d", name, ErrBadDistribution, w, i)
		}
	}
	return nil
}
