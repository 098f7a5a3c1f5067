package redisstore

import (
	"context"
	"eventreminder/internal/core/domain/event"
	"eventreminder/internal/core/domain/logging"
	"eventreminder/internal/db/codec"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/stretchr/testify/suite"
)

const KEY = "eventreminder:test:events"

var At = time.Date(2026, 1, 12, 9, 30, 0, 0, event.Zone)

type testSuite struct {
	suite.Suite
	client *redis.Client
	logger *logging.FakeLogger
	uow    *UnitOfWork
}

func (suite *testSuite) SetupSuite() {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		suite.T().Skip("TEST_REDIS_URL is not set.")
	}
	opt, err := redis.ParseURL(url)
	suite.Require().Nil(err)
	suite.client = redis.NewClient(opt)
}

func (suite *testSuite) SetupTest() {
	suite.logger = logging.NewFakeLogger()
	suite.uow = NewUnitOfWork(suite.client, suite.logger, KEY)
	suite.Require().Nil(suite.client.Del(context.Background(), KEY).Err())
}

func (suite *testSuite) TearDownSuite() {
	if suite.client != nil {
		suite.client.Del(context.Background(), KEY)
		suite.client.Close()
	}
}

func TestRedisUnitOfWork(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestLoadMissingKeyResets() {
	ctx := context.Background()
	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	defer uow.Rollback(ctx)

	events, err := uow.Events().Load(ctx)

	assert := s.Require()
	assert.Nil(err)
	assert.Empty(events)
	raw, err := s.client.Get(ctx, KEY).Result()
	assert.Nil(err)
	assert.Equal(string(codec.Empty), raw)
	assert.Equal(1, s.logger.Count(logging.WARNING))
}

func (s *testSuite) TestSaveAndCommit() {
	ctx := context.Background()
	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	events, err := uow.Events().Load(ctx)
	s.Require().Nil(err)
	events = append(events, event.Event{ID: event.NextID(events), ScheduledAt: At, Title: "Standup"})
	s.Require().Nil(uow.Events().Save(ctx, events))

	err = uow.Commit(ctx)

	assert := s.Require()
	assert.Nil(err)

	uow, err = s.uow.Begin(ctx)
	assert.Nil(err)
	defer uow.Rollback(ctx)
	stored, err := uow.Events().Load(ctx)
	assert.Nil(err)
	assert.Len(stored, 1)
	assert.Equal(event.ID(1), stored[0].ID)
	assert.Equal("Standup", stored[0].Title)
}

func (s *testSuite) TestConflictingCommitFails() {
	ctx := context.Background()
	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	_, err = uow.Events().Load(ctx)
	s.Require().Nil(err)

	s.Require().Nil(s.client.Set(ctx, KEY, `[{"id": 9, "scheduledAt": "2026-01-12T09:30:00+09:00", "title": "Other", "notified": false}]`, 0).Err())
	s.Require().Nil(uow.Events().Save(ctx, []event.Event{{ID: 1, ScheduledAt: At, Title: "Mine"}}))

	err = uow.Commit(ctx)

	assert := s.Require()
	assert.ErrorIs(err, event.ErrConcurrentUpdate)
	raw, err := s.client.Get(ctx, KEY).Result()
	assert.Nil(err)
	assert.Contains(raw, "Other")
}

func (s *testSuite) TestRollbackDoesNotWrite() {
	ctx := context.Background()
	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	_, err = uow.Events().Load(ctx)
	s.Require().Nil(err)
	s.Require().Nil(uow.Events().Save(ctx, []event.Event{{ID: 1, ScheduledAt: At, Title: "Discarded"}}))

	assert := s.Require()
	assert.Nil(uow.Rollback(ctx))
	raw, err := s.client.Get(ctx, KEY).Result()
	assert.Nil(err)
	assert.Equal(string(codec.Empty), raw)
}
