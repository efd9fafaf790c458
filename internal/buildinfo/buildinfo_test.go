package buildinfo_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/gomarketplace/internal/buildinfo"
)

func TestSummary_HappyPath(t *testing.T) {
	c := qt.New(t)
	c.Assert(buildinfo.Summary(), qt.Equals, "dev (commit unknown, branch unknown, built unknown)")
}
