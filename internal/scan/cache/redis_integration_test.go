//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"parichay/internal/decoder"
	"parichay/internal/scan/cache"
	"parichay/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = cache.NewRedisCache(s.redis.Client, time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestSaveAndFindRoundTrip() {
	ctx := context.Background()

	record := &decoder.Record{
		SourceFormat: decoder.SourceSecureNumeric,
		ReferenceID:  "123420240101120000000",
		Demographics: decoder.Demographics{
			Name:   "Test Subject",
			Gender: "F",
			State:  "Karnataka",
		},
		ContactIndicator: decoder.ContactBoth,
		ContactLabel:     decoder.ContactLabel(decoder.ContactBoth),
		Photo: &decoder.Photo{
			Base64:   "/9j/4AAQ",
			MIMEType: "image/jpeg",
		},
		EmailHash:  "aa11",
		MobileHash: "bb22",
	}

	err := s.cache.Save(ctx, "hash-1", record)
	s.Require().NoError(err)

	found, err := s.cache.Find(ctx, "hash-1")
	s.Require().NoError(err)

	s.Equal(record.SourceFormat, found.SourceFormat)
	s.Equal(record.Demographics.Name, found.Demographics.Name)
	s.Equal(record.ContactLabel, found.ContactLabel)
	s.Require().NotNil(found.Photo)
	s.Equal("image/jpeg", found.Photo.MIMEType)
	s.Equal("bb22", found.MobileHash)
}

func (s *RedisCacheSuite) TestFindMiss() {
	_, err := s.cache.Find(context.Background(), "no-such-hash")
	s.ErrorIs(err, cache.ErrMiss)
}

func (s *RedisCacheSuite) TestEntryExpires() {
	ctx := context.Background()

	short := cache.NewRedisCache(s.redis.Client, 100*time.Millisecond)
	record := &decoder.Record{SourceFormat: decoder.SourceLegacyXML}

	err := short.Save(ctx, "hash-ttl", record)
	s.Require().NoError(err)

	_, err = short.Find(ctx, "hash-ttl")
	s.Require().NoError(err)

	s.Require().Eventually(func() bool {
		_, err := short.Find(ctx, "hash-ttl")
		return err == cache.ErrMiss
	}, 2*time.Second, 50*time.Millisecond, "entry should expire")
}

func (s *RedisCacheSuite) TestSaveOverwrites() {
	ctx := context.Background()

	first := &decoder.Record{SourceFormat: decoder.SourceSecureNumeric, ReferenceID: "old"}
	s.Require().NoError(s.cache.Save(ctx, "hash-2", first))

	second := &decoder.Record{SourceFormat: decoder.SourceSecureNumeric, ReferenceID: "new"}
	s.Require().NoError(s.cache.Save(ctx, "hash-2", second))

	found, err := s.cache.Find(ctx, "hash-2")
	s.Require().NoError(err)
	s.Equal("new", found.ReferenceID)
}
