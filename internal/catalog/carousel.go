package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/apperrors"
	"github.com/Belphemur/Raznime/internal/cache"
	"github.com/Belphemur/Raznime/internal/config"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	carouselKey = "popular-carousel"
	carouselTTL = 24 * time.Hour
	// carouselConcurrency bounds the detail fan-out.
	carouselConcurrency = 6
)

// ErrPopularList is returned when the first popular page cannot be fetched.
var ErrPopularList = errors.New(apperrors.MsgPopularListFailed)

// PopularCarousel returns the details of every anime on the first popular page.
// Entries whose detail lookup fails are dropped. The result is kept for a day.
func (s *Service) PopularCarousel(ctx context.Context) ([]anime.Detail, error) {
	if s.cache == nil {
		return s.buildCarousel(ctx)
	}
	// Concurrent callers share one build, which outlives the caller that started it.
	shared := context.WithoutCancel(ctx)
	return cache.Memoize(s.cache, carouselKey, carouselTTL, func() ([]anime.Detail, error) {
		return s.buildCarousel(shared)
	})
}

func (s *Service) buildCarousel(ctx context.Context) ([]anime.Detail, error) {
	first := s.Popular(ctx, 1)
	if first.IsError {
		return nil, ErrPopularList
	}

	var ids []string
	if first.Data != nil {
		ids = lo.Map(first.Data.Results, func(m anime.Movie, _ int) string { return m.ID })
	}

	details := make([]*anime.Detail, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(carouselConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			resp := s.Detail(gctx, id)
			if resp.IsError || resp.Data == nil {
				logger := config.GetLogger()
				logger.Debug().Str("anime", id).Str("error", resp.Error).Msg("Dropping carousel entry")
				return nil
			}
			details[i] = resp.Data
			return nil
		})
	}
	_ = g.Wait()

	out := make([]anime.Detail, 0, len(details))
	for _, d := range details {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}
