// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
)

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// AssertEqual is like assert.Equal, but renders any disagreement as a unified
// diff of full structure dumps, which stays readable when the structures are
// big (artifact sets, parsed metadata).
func AssertEqual(t *testing.T, exp, act interface{}) bool {
	t.Helper()

	expStr := spewConfig.Sdump(exp)
	actStr := spewConfig.Sdump(act)
	if expStr == actStr {
		return true
	}

	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expStr),
		B:        difflib.SplitLines(actStr),
		FromFile: "Expected",
		FromDate: "",
		ToFile:   "Actual",
		ToDate:   "",
		Context:  1,
	})
	t.Errorf("mismatch:\n%s", diff)
	return false
}
