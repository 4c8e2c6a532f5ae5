// Package store defines the persistence boundary shared by the directory and
// the telemetry window. Actors live under actors/{username} and latency
// samples under latency/{timestamp}/{id}; the two namespaces never overlap.
package store

import (
	"context"
	"errors"

	"github.com/cvhariharan/actordir/models"
)

var (
	// ErrExists is returned by CreateActor when the username is already stored.
	ErrExists = errors.New("store: already exists")
	// ErrNotFound indicates a key was not located.
	ErrNotFound = errors.New("store: not found")
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type ActorStore interface {
	// CreateActor writes rec only if no record exists for rec.Username.
	// The check and the write are a single atomic operation.
	CreateActor(ctx context.Context, rec *models.ActorRecord) error
	GetActor(ctx context.Context, username string) (*models.ActorRecord, error)
}

type SampleStore interface {
	AppendSample(ctx context.Context, s models.LatencySample) error
	// PruneSamples deletes every sample with TimestampMs < beforeMs.
	PruneSamples(ctx context.Context, beforeMs int64) (int64, error)
	// ListSamples returns the stored samples in key order.
	ListSamples(ctx context.Context) ([]models.LatencySample, error)
}

type Store interface {
	ActorStore
	SampleStore
	Close() error
}

func ActorKey(username string) string {
	return "actors/" + username
}
