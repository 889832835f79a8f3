package kv_test

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/ezcart/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_kv_items.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func startRedis(ctx context.Context) (testcontainers.Container, string, error) {
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.4-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("testcontainers.GenericContainer: %w", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		return nil, "", fmt.Errorf("rc.Endpoint: %w", err)
	}

	return redisContainer, endpoint, nil
}

// kvSuite holds the behaviour every backend shares. Backend suites embed it
// and set store.
type kvSuite struct {
	suite.Suite

	store port.BatchKV
}

func (suite *kvSuite) TestGetAbsent() {
	t := suite.T()

	value, found, err := suite.store.Get(t.Context(), randomKey())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)
}

func (suite *kvSuite) TestSetAndGet() {
	tests := []struct {
		name  string
		value string
	}{
		{name: "empty array: ok", value: `[]`},
		{name: "array of objects: ok", value: `[{"id":"p1","quantity":2}]`},
		{name: "null: ok", value: `null`},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			key := randomKey()

			require.NoError(t, suite.store.Set(ctx, key, []byte(tt.value)))

			value, found, err := suite.store.Get(ctx, key)
			require.NoError(t, err)
			require.True(t, found)
			assert.JSONEq(t, tt.value, string(value))
		})
	}
}

func (suite *kvSuite) TestSetOverwrites() {
	t := suite.T()
	ctx := t.Context()
	key := randomKey()

	require.NoError(t, suite.store.Set(ctx, key, []byte(`[1]`)))
	require.NoError(t, suite.store.Set(ctx, key, []byte(`[2]`)))

	value, found, err := suite.store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[2]`, string(value))
}

func (suite *kvSuite) TestDelete() {
	t := suite.T()
	ctx := t.Context()
	key := randomKey()

	require.NoError(t, suite.store.Set(ctx, key, []byte(`{}`)))
	require.NoError(t, suite.store.Delete(ctx, key))

	_, found, err := suite.store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	// deleting an absent key is not an error
	require.NoError(t, suite.store.Delete(ctx, key))
}

func (suite *kvSuite) TestSetBatch() {
	t := suite.T()
	ctx := t.Context()
	first, second := randomKey(), randomKey()

	require.NoError(t, suite.store.Set(ctx, second, []byte(`[{"id":"p1","quantity":1}]`)))

	err := suite.store.SetBatch(ctx, []port.KVEntry{
		{Key: first, Value: []byte(`[{"id":"o1"}]`)},
		{Key: second, Value: []byte(`[]`)},
	})
	require.NoError(t, err)

	value, found, err := suite.store.Get(ctx, first)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"id":"o1"}]`, string(value))

	value, found, err = suite.store.Get(ctx, second)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[]`, string(value))
}

func (suite *kvSuite) TestEmptyKey() {
	t := suite.T()
	ctx := t.Context()

	_, _, err := suite.store.Get(ctx, "")
	require.EqualError(t, err, "key is empty")

	err = suite.store.Set(ctx, "", []byte(`[]`))
	require.EqualError(t, err, "key is empty")

	err = suite.store.Delete(ctx, "")
	require.EqualError(t, err, "key is empty")

	err = suite.store.SetBatch(ctx, []port.KVEntry{{Key: randomKey(), Value: []byte(`[]`)}, {Key: ""}})
	require.EqualError(t, err, "key is empty")
}

func randomKey() string {
	return "test:" + gofakeit.UUID()
}
