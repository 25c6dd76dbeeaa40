package health

import (
	"errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	errs := []error{ErrCheckFailed, ErrCheckTimeout, ErrCheckerNotFound, ErrLastFillFailed}
	for i, a := range errs {
		for j, b := range errs {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v matches %v", a, b)
			}
		}
	}
}
