package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/query/sqlgen"
)

func TestNewPostgresAdapter(t *testing.T) {
	_, err := NewPostgresAdapter(database.Config{})
	assert.Error(t, err)

	adapter, err := NewPostgresAdapter(database.Config{URL: "postgresql://localhost:5432/idempiere"})
	require.NoError(t, err)
	assert.Equal(t, sqlgen.Postgres, adapter.Dialect())
}

func TestErrorCode(t *testing.T) {
	err := fmt.Errorf("query failed: %w", &pq.Error{Code: "42P01"})
	assert.Equal(t, "42P01", ErrorCode(err))
	assert.Empty(t, ErrorCode(errors.New("plain")))
}
