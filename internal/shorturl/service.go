// Package shorturl shortens calendar deep-links. Provider URLs carry the
// whole event in their query string and routinely exceed a thousand
// characters, which messaging apps truncate; the assistant serves compact
// /r/{id} redirects instead.
package shorturl

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"kairos/internal/calendar"
	"kairos/internal/common/errors"
	"kairos/internal/redis"
)

const (
	idBytes = 3
	// links expire with the media URLs they wrap; a month is plenty
	linkTTL = 30 * 24 * time.Hour

	idKeyPrefix      = "shorturl:id:"
	reverseKeyPrefix = "shorturl:url:"
)

// Service issues and resolves short link IDs backed by Redis.
type Service struct {
	store   *redis.Client
	baseURL string
}

// NewService creates a short link service. baseURL is the public address
// the /r/{id} routes are served from.
func NewService(store *redis.Client, baseURL string) *Service {
	return &Service{store: store, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Shorten returns a short URL for target, reusing the existing ID when the
// same target was shortened before so repeated invitations do not pile up
// keys.
func (s *Service) Shorten(ctx context.Context, target string) (string, error) {
	if target == "" {
		return "", errors.ValidationError("target url is empty")
	}

	reverseKey := reverseKeyPrefix + urlHash(target)
	if id, err := s.store.Get(ctx, reverseKey); err == nil {
		return s.shortFor(id), nil
	} else if !redis.IsNotFound(err) {
		return "", errors.InternalError("short link lookup failed", err)
	}

	id, err := newID()
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, idKeyPrefix+id, target, linkTTL); err != nil {
		return "", errors.InternalError("storing short link failed", err)
	}
	if err := s.store.Set(ctx, reverseKey, id, linkTTL); err != nil {
		return "", errors.InternalError("storing short link failed", err)
	}
	return s.shortFor(id), nil
}

// Resolve returns the target URL for a short ID.
func (s *Service) Resolve(ctx context.Context, id string) (string, error) {
	target, err := s.store.Get(ctx, idKeyPrefix+id)
	if err != nil {
		if redis.IsNotFound(err) {
			return "", errors.NotFoundError("short link")
		}
		return "", errors.InternalError("short link lookup failed", err)
	}
	return target, nil
}

// ShortenLinks shortens every provider link in the map. The "all" alias is
// re-pointed at the shortened Google link rather than shortened twice. On
// any storage failure the original long links are returned: a long link
// still works, a missing reply does not.
func (s *Service) ShortenLinks(ctx context.Context, links calendar.Links) calendar.Links {
	short := make(calendar.Links, len(links))
	for provider, target := range links {
		if provider == calendar.ProviderAll {
			continue
		}
		su, err := s.Shorten(ctx, target)
		if err != nil {
			return links
		}
		short[provider] = su
	}
	if google, ok := short[calendar.ProviderGoogle]; ok {
		short[calendar.ProviderAll] = google
	}
	return short
}

func (s *Service) shortFor(id string) string {
	return fmt.Sprintf("%s/r/%s", s.baseURL, id)
}

func newID() (string, error) {
	buf := make([]byte, idBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.InternalError("generating short link id failed", err)
	}
	return hex.EncodeToString(buf), nil
}

// urlHash keys the reverse index; full URLs are too long to use as Redis
// keys directly.
func urlHash(target string) string {
	sum := sha1.Sum([]byte(target))
	return hex.EncodeToString(sum[:])
}
