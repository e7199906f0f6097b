package interpretation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=resolver.go -destination=../mocks/interpretation/mock_resolver.go -package=mock_interpretation

// Cache maps a term to its latest interpretation.
type Cache interface {
	Get(ctx context.Context, term string) (string, bool, error)
	Put(ctx context.Context, requesterID int64, term, interpretation string) error
}

// Fetcher looks a term up in an external source. It returns ErrNotFound when the source has no entry.
type Fetcher interface {
	Fetch(ctx context.Context, term string) (string, error)
}

// Resolver resolves a term from the cache, falling back to the fetcher on a miss.
// Only successful fetches are written back, so misses and failures never poison the cache.
type Resolver struct {
	cache   Cache
	fetcher Fetcher
	group   singleflight.Group
}

func NewResolver(cache Cache, fetcher Fetcher) *Resolver {
	return &Resolver{
		cache:   cache,
		fetcher: fetcher,
	}
}

// Resolve never returns fetch failures as errors; they come back as a Failed result.
// The error is reserved for a failing cache read.
func (r *Resolver) Resolve(ctx context.Context, requesterID int64, term string) (Result, error) {
	cached, ok, err := r.cache.Get(ctx, term)
	if err != nil {
		return Result{}, fmt.Errorf("cache.Get(%s) > %w", term, err)
	}
	if ok {
		slog.Default().Debug("Interpretation cache hit", "term", term)
		return Found(cached), nil
	}

	// Concurrent misses on one term share a single fetch. The fetch outlives the
	// caller that started it, so each caller only stops waiting on its own context.
	ch := r.group.DoChan(term, func() (any, error) {
		return r.fetch(context.WithoutCancel(ctx), requesterID, term), nil
	})
	select {
	case <-ctx.Done():
		slog.Default().Debug("Stopped waiting for interpretation", "term", term, "error", ctx.Err())
		return Failed(ctx.Err()), nil
	case res := <-ch:
		return res.Val.(Result), nil
	}
}

func (r *Resolver) fetch(ctx context.Context, requesterID int64, term string) (result Result) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("fetcher panicked: %v", p)
			slog.Default().Error("Failed to fetch interpretation", "term", term, "error", err)
			result = Failed(err)
		}
	}()

	text, err := r.fetcher.Fetch(ctx, term)
	if errors.Is(err, ErrNotFound) {
		slog.Default().Debug("No interpretation found", "term", term)
		return NotFound()
	}
	if err != nil {
		slog.Default().Warn("Failed to fetch interpretation", "term", term, "error", err)
		return Failed(err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return NotFound()
	}
	if err := r.cache.Put(ctx, requesterID, term, text); err != nil {
		slog.Default().Warn("Failed to cache interpretation", "term", term, "error", err)
	}
	return Found(text)
}
