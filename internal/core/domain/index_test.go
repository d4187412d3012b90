package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", IndexUninitialized.String())
	assert.Equal(t, "empty", IndexEmpty.String())
	assert.Equal(t, "ready", IndexReady.String())
	assert.Equal(t, "unknown", IndexState(99).String())
}
