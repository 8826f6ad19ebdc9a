package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "user:id:42", GenerateKey("user", "id", uint(42)))
	assert.Equal(t, "settings:id:1", GenerateKey("settings", "id", 1))
}
