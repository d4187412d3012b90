package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

func TestCategories(t *testing.T) {
	env := setupTestServices(t)
	seed(t, env,
		domain.CreateMemoRequest{Category: "work", Title: "a", Tags: "x", Body: "one"},
		domain.CreateMemoRequest{Category: "home", Title: "b", Tags: "y, x", Body: "two"},
	)

	stdout, _, err := execute(t, "", "categories")

	require.NoError(t, err)
	assert.Equal(t, "home\nwork\n", stdout)
}

func TestTags(t *testing.T) {
	env := setupTestServices(t)
	seed(t, env,
		domain.CreateMemoRequest{Category: "work", Title: "a", Tags: "x", Body: "one"},
		domain.CreateMemoRequest{Category: "home", Title: "b", Tags: "y, x", Body: "two"},
	)

	stdout, _, err := execute(t, "", "tags")

	require.NoError(t, err)
	assert.Equal(t, "x\ny\n", stdout)
}

func TestList_Empty(t *testing.T) {
	setupTestServices(t)

	stdout, _, err := execute(t, "", "categories")
	require.NoError(t, err)
	assert.Equal(t, "No categories.\n", stdout)

	stdout, _, err = execute(t, "", "tags")
	require.NoError(t, err)
	assert.Equal(t, "No tags.\n", stdout)
}

func TestList_RejectsArgs(t *testing.T) {
	setupTestServices(t)

	_, _, err := execute(t, "", "tags", "extra")

	assert.Error(t, err)
}
