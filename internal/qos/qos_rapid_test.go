package qos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestQualityFromEDVIsMonotoneProperty is invariant 8: quality never gets
// better as edv increases across int8's whole range.
func TestQualityFromEDVIsMonotoneProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := int8(rapid.IntRange(-128, 127).Draw(rt, "a"))
		b := int8(rapid.IntRange(-128, 127).Draw(rt, "b"))
		if a > b {
			a, b = b, a
		}
		assert.LessOrEqual(rt, int(QualityFromEDV(a)), int(QualityFromEDV(b)))
	})
}
