package ipcversion

import (
	"testing"

	"github.com/blang/semver"
	"github.com/stretchr/testify/assert"
)

func TestCurrentVersionParses(t *testing.T) {
	assert.Equal(t, uint64(1), CURRENT_VERSION.Major)
	older := semver.MustParse("0.9.0")
	assert.True(t, older.LT(CURRENT_VERSION))
}
