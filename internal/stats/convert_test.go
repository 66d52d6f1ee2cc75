package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustFloat(t *testing.T) {
	assert.Equal(t, 12.5, mustFloat("12.50"))
	assert.Equal(t, 0.0, mustFloat(""))
	assert.Equal(t, 0.0, mustFloat("abc"))
}

func TestAsInt(t *testing.T) {
	assert.Equal(t, int64(42), asInt("42"))
	assert.Equal(t, int64(0), asInt(nil))
	assert.Equal(t, int64(0), asInt("x"))
}

func TestAsMoney(t *testing.T) {
	// INCRBYFLOAT devolve representações como "12.5" ou "12.50000000001"
	assert.Equal(t, "12.50", asMoney("12.5"))
	assert.Equal(t, "0.00", asMoney(nil))
	assert.Equal(t, "7.50", asMoney("7.5000"))
}
