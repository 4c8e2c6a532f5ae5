// Package webfinger answers RFC 7033 lookups for actors of this server's
// single domain.
package webfinger

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/cvhariharan/actordir/directory"
	"github.com/cvhariharan/actordir/models"
)

var (
	ErrMissingResource = errors.New("resource query parameter required")
	ErrInvalidFormat   = errors.New("invalid resource format")
	ErrNotFound        = errors.New("resource not found")
)

var acctPattern = regexp.MustCompile(`^acct:([^@]+)@(.+)$`)

// ActorLookup is the slice of the directory the resolver reads.
type ActorLookup interface {
	GetActor(ctx context.Context, username string) (*models.ActorRecord, error)
}

type Resolver struct {
	actors ActorLookup
	domain string
}

func NewResolver(actors ActorLookup, domain string) *Resolver {
	return &Resolver{actors: actors, domain: domain}
}

// ParseAcct splits acct:user@domain.
func ParseAcct(resource string) (username, domain string, err error) {
	m := acctPattern.FindStringSubmatch(resource)
	if m == nil {
		return "", "", ErrInvalidFormat
	}
	return m[1], m[2], nil
}

// Resolve translates resource into a JRD document. Only identities on the
// configured domain are answered; any other domain is reported as not found
// even if a local actor shares the username.
func (r *Resolver) Resolve(ctx context.Context, resource string) (*models.WebFingerResp, error) {
	if resource == "" {
		return nil, ErrMissingResource
	}
	username, domain, err := ParseAcct(resource)
	if err != nil {
		return nil, err
	}
	if domain != r.domain {
		return nil, ErrNotFound
	}

	if _, err := r.actors.GetActor(ctx, username); err != nil {
		if errors.Is(err, directory.ErrActorNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve %s: %w", resource, err)
	}

	profile := directory.ProfileURL(domain, username)
	return &models.WebFingerResp{
		Subject: "acct:" + username + "@" + domain,
		Aliases: []string{profile},
		Links: []models.Link{
			{
				Rel:  models.RelSelf,
				Type: models.ActivityJSON,
				Href: profile,
			},
			{
				Rel:  models.RelProfilePage,
				Type: "text/html",
				Href: profile,
			},
		},
	}, nil
}
