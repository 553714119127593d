package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store/memstore"
)

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverMemory}}

	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &memstore.Store{}, s)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "cassandra"}}

	_, err := Open(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, `unknown DB_DRIVER "cassandra"`)
}
