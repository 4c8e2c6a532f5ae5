// Package directory owns actor records: it mints them with a fresh signing
// keypair, enforces one record per username and looks them up.
package directory

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cvhariharan/actordir/models"
	"github.com/cvhariharan/actordir/store"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUsernameTaken = errors.New("username already taken")
	ErrActorNotFound = errors.New("actor not found")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

type Directory struct {
	store  store.ActorStore
	domain string
	keys   KeyGenerator
	now    func() time.Time
	log    *zap.Logger
}

type Option func(*Directory)

func WithKeyGenerator(gen KeyGenerator) Option {
	return func(d *Directory) { d.keys = gen }
}

func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(d *Directory) { d.log = log }
}

// New returns a directory that mints actors for domain.
func New(st store.ActorStore, domain string, opts ...Option) *Directory {
	d := &Directory{
		store:  st,
		domain: domain,
		keys:   GenerateRSAKeyPair,
		now:    time.Now,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Directory) Domain() string {
	return d.domain
}

// CreateActor mints and persists a new actor. Key generation happens only
// once the name has passed a fast existence check; the store's atomic
// create-if-absent decides the winner when two requests race.
func (d *Directory) CreateActor(ctx context.Context, username, displayName, summary string) (*models.ActorRecord, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if username == "" || displayName == "" {
		return nil, fmt.Errorf("%w: username and displayName are required", ErrInvalidInput)
	}
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: username may only contain letters, digits, '_', '.' and '-'", ErrInvalidInput)
	}

	if _, err := d.store.GetActor(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup actor %q: %w", username, err)
	}

	keys, err := d.keys()
	if err != nil {
		return nil, err
	}

	rec := &models.ActorRecord{
		Username:    username,
		Domain:      d.domain,
		DisplayName: displayName,
		Summary:     summary,
		PublicKey:   keys.PublicPEM,
		PrivateKey:  keys.PrivatePEM,
		CreatedAt:   d.now().UnixMilli(),
	}
	if err := d.store.CreateActor(ctx, rec); err != nil {
		if errors.Is(err, store.ErrExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("store actor %q: %w", username, err)
	}

	d.log.Info("actor created", zap.String("username", username), zap.String("domain", d.domain))
	return rec, nil
}

func (d *Directory) GetActor(ctx context.Context, username string) (*models.ActorRecord, error) {
	rec, err := d.store.GetActor(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, fmt.Errorf("lookup actor %q: %w", username, err)
	}
	return rec, nil
}
