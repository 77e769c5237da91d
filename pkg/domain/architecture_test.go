package domain_test

import (
	"testing"

	"academycore/testutil"
)

func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImport, "domain must not depend on internal packages")
}
