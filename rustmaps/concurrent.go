package rustmaps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel lookups when callers pass 0.
const DefaultConcurrency = 4

// SeedSize identifies a procedural map.
type SeedSize struct {
	Seed int
	Size int
}

// ParseSeedSize parses "size:seed", the order used by the API path.
func ParseSeedSize(s string) (SeedSize, error) {
	sizeStr, seedStr, ok := strings.Cut(s, ":")
	if !ok {
		return SeedSize{}, fmt.Errorf("invalid seed/size %q: expected size:seed", s)
	}
	size, err := strconv.Atoi(strings.TrimSpace(sizeStr))
	if err != nil {
		return SeedSize{}, fmt.Errorf("invalid size in %q: %w", s, err)
	}
	seed, err := strconv.Atoi(strings.TrimSpace(seedStr))
	if err != nil {
		return SeedSize{}, fmt.Errorf("invalid seed in %q: %w", s, err)
	}
	return SeedSize{Seed: seed, Size: size}, nil
}

func (s SeedSize) String() string {
	return fmt.Sprintf("%d:%d", s.Size, s.Seed)
}

// MapResult pairs a lookup with its payload. Data is nil when the API had
// no map to return.
type MapResult struct {
	SeedSize SeedSize
	Data     any
}

// GetMapsBySeedSize looks up several maps concurrently. Results are in input
// order. The first transport failure cancels the remaining lookups.
func (c *Client) GetMapsBySeedSize(ctx context.Context, lookups []SeedSize, concurrency int, opts ...RequestOption) ([]MapResult, error) {
	if len(lookups) == 0 {
		return nil, nil
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]MapResult, len(lookups))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, lookup := range lookups {
		i, lookup := i, lookup
		g.Go(func() error {
			data, err := c.GetMapBySeedSize(ctx, lookup.Seed, lookup.Size, opts...)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", lookup, err)
			}
			// Each goroutine owns its own index.
			results[i] = MapResult{SeedSize: lookup, Data: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	found := 0
	for _, r := range results {
		if r.Data != nil {
			found++
		}
	}
	c.logger.Debug().
		Int("requested", len(lookups)).
		Int("found", found).
		Msg("Completed batch map lookup")

	return results, nil
}
