package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSerial(t *testing.T) {
	hex32 := regexp.MustCompile(`^[0-9a-f]{32}$`)
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		serial, err := GenerateSerial()
		require.NoError(t, err)
		assert.Regexp(t, hex32, serial)
		assert.False(t, seen[serial], "证书编号不允许重复")
		seen[serial] = true
	}
}
