package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "postgres scheme",
			dsn:  "postgres://u:p@localhost:5432/db?sslmode=disable",
			want: "pgx5://u:p@localhost:5432/db?sslmode=disable",
		},
		{
			name: "postgresql scheme",
			dsn:  "postgresql://u:p@db/hack",
			want: "pgx5://u:p@db/hack",
		},
		{
			name: "already pgx5",
			dsn:  "pgx5://u:p@db/hack",
			want: "pgx5://u:p@db/hack",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, migrationURL(tt.dsn))
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_init.up.sql")
	assert.Contains(t, names, "000001_init.down.sql")
}

func TestNoopTransactor(t *testing.T) {
	called := false
	err := NewNoopTransactor().WithinTransaction(context.Background(), func(ctx context.Context) error {
		called = true
		assert.False(t, InTransaction(ctx))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
