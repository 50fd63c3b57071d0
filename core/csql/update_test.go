package csql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateBuilder(t *testing.T) {
	b := NewUpdate("unittest", "companies").
		Set("name", "Roni Inc").
		Set("num_employees", 12)

	require.Equal(t, 2, b.Len())

	query, values, err := b.Build("handle", "roni")
	require.NoError(t, err)

	assert.Equal(t, `UPDATE unittest."companies" SET name = $1, num_employees = $2 WHERE handle = $3 RETURNING *;`, query)

	// one placeholder per field, the key value bound last
	require.Len(t, values, 3)
	assert.Equal(t, "Roni Inc", values[0])
	assert.Equal(t, 12, values[1])
	assert.Equal(t, "roni", values[len(values)-1])
}

func TestUpdateBuilderStableOrder(t *testing.T) {
	// the statement must only depend on the order fields were added
	for i := 0; i < 10; i++ {
		query, _, err := NewUpdate("unittest", "jobs").
			Set("title", "a").
			Set("salary", 1.0).
			Set("equity", 0.1).
			Build("id", 7)
		require.NoError(t, err)
		assert.True(t, strings.Contains(query, "SET title = $1, salary = $2, equity = $3 WHERE id = $4"),
			"unstable column order: %s", query)
	}
}

func TestUpdateBuilderNoFields(t *testing.T) {
	_, _, err := NewUpdate("unittest", "companies").Build("handle", "roni")
	assert.Error(t, err, "an update without fields must not build")
}
