//go:build integration

package execkit_test

import (
	"github.com/giantswarm/execkit/tests/internal/testutil"
)

// uniqueName returns a name that is unique across all parallel tests.
func uniqueName(prefix string) string {
	return testutil.UniqueName(prefix)
}

// testParallel returns the effective -test.parallel value for the current test binary.
func testParallel() int {
	return testutil.TestParallel()
}
