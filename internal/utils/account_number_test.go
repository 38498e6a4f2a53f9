package utils_test

import (
	"testing"

	"github.com/Fridah34/bank-management-api/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAccountNumber_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		number := utils.GenerateAccountNumber()
		assert.Len(t, number, 12)
		for _, r := range number {
			assert.True(t, r >= '0' && r <= '9', "unexpected character %q in %s", r, number)
		}
	}
}

func TestGenerateAccountNumber_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		seen[utils.GenerateAccountNumber()] = struct{}{}
	}
	// Random 12-digit numbers should essentially never collide in 1000 draws.
	assert.Greater(t, len(seen), 990)
}
