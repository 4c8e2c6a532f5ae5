// Package redisstore keeps actors as JSON strings written with SETNX and
// latency samples in a sorted set scored by timestamp.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/cvhariharan/actordir/models"
	"github.com/cvhariharan/actordir/store"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Store struct {
	client *redis.Client
	prefix string
}

var _ store.Store = (*Store)(nil)

// New connects and pings the server before returning.
func New(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return NewWithClient(client, opts.Prefix), nil
}

func NewWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) actorKey(username string) string {
	return s.prefix + store.ActorKey(username)
}

func (s *Store) samplesKey() string {
	return s.prefix + "latency"
}

func (s *Store) CreateActor(ctx context.Context, rec *models.ActorRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode actor: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.actorKey(rec.Username), data, 0).Result()
	if err != nil {
		return fmt.Errorf("setnx actor: %w", err)
	}
	if !ok {
		return store.ErrExists
	}
	return nil
}

func (s *Store) GetActor(ctx context.Context, username string) (*models.ActorRecord, error) {
	data, err := s.client.Get(ctx, s.actorKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get actor: %w", err)
	}
	var rec models.ActorRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode actor: %w", err)
	}
	return &rec, nil
}

// AppendSample stores the sample JSON as the set member. The member embeds
// the sample ID so two samples with the same timestamp and value stay
// distinct.
func (s *Store) AppendSample(ctx context.Context, sample models.LatencySample) error {
	data, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("encode sample: %w", err)
	}
	z := redis.Z{Score: float64(sample.TimestampMs), Member: string(data)}
	if err := s.client.ZAdd(ctx, s.samplesKey(), z).Err(); err != nil {
		return fmt.Errorf("zadd sample: %w", err)
	}
	return nil
}

func (s *Store) PruneSamples(ctx context.Context, beforeMs int64) (int64, error) {
	n, err := s.client.ZRemRangeByScore(ctx, s.samplesKey(), "-inf", "("+strconv.FormatInt(beforeMs, 10)).Result()
	if err != nil {
		return 0, fmt.Errorf("prune samples: %w", err)
	}
	return n, nil
}

func (s *Store) ListSamples(ctx context.Context) ([]models.LatencySample, error) {
	members, err := s.client.ZRange(ctx, s.samplesKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	out := make([]models.LatencySample, 0, len(members))
	for _, m := range members {
		var sample models.LatencySample
		if err := json.Unmarshal([]byte(m), &sample); err != nil {
			return nil, fmt.Errorf("decode sample: %w", err)
		}
		out = append(out, sample)
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
