package kv_test

import (
	"testing"

	"github.com/nikolayk812/ezcart/internal/kv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

type redisSuite struct {
	kvSuite

	container testcontainers.Container
	client    *redis.Client
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(redisSuite))
}

func (suite *redisSuite) SetupSuite() {
	ctx := suite.T().Context()

	container, addr, err := startRedis(ctx)
	suite.Require().NoError(err)
	suite.container = container

	suite.client = redis.NewClient(&redis.Options{Addr: addr})
	suite.Require().NoError(suite.client.Ping(ctx).Err())

	suite.store = kv.NewRedis(suite.client, "ezcart:")
}

func (suite *redisSuite) TearDownSuite() {
	if suite.client != nil {
		suite.NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.NoError(testcontainers.TerminateContainer(suite.container))
	}
}

func (suite *redisSuite) TearDownTest() {
	suite.NoError(suite.client.FlushDB(suite.T().Context()).Err())
}

func (suite *redisSuite) TestKeysArePrefixed() {
	t := suite.T()
	ctx := t.Context()
	key := randomKey()

	require.NoError(t, suite.store.Set(ctx, key, []byte(`[]`)))

	value, err := suite.client.Get(ctx, "ezcart:"+key).Result()
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)

	n, err := suite.client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
