package audit

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/younsl/volcost/internal/models"
)

var (
	// ErrPageLimit is returned when the listing does not finish within MaxPages pages
	ErrPageLimit = errors.New("volume listing exceeded page limit")

	// ErrCursorLoop is returned when the API hands back a cursor it already returned
	ErrCursorLoop = errors.New("volume listing returned a repeated cursor")
)

// Lister walks a paginated volume listing and keeps the unattached volumes.
type Lister struct {
	pager    VolumePager
	maxPages int // 0 means unbounded
	logger   zerolog.Logger
}

// NewLister creates a Lister. maxPages <= 0 disables the page bound.
func NewLister(pager VolumePager, maxPages int, logger zerolog.Logger) *Lister {
	if maxPages < 0 {
		maxPages = 0
	}
	return &Lister{
		pager:    pager,
		maxPages: maxPages,
		logger:   logger.With().Str("component", "lister").Logger(),
	}
}

// ListUnattached returns every unattached volume in listing order.
// Any listing error is returned as is; a partial inventory is never returned.
func (l *Lister) ListUnattached(ctx context.Context) ([]models.Volume, error) {
	var (
		unattached []models.Volume
		start      string
		seen       = make(map[string]struct{})
	)

	for page := 1; ; page++ {
		if l.maxPages > 0 && page > l.maxPages {
			return nil, fmt.Errorf("%w (%d pages)", ErrPageLimit, l.maxPages)
		}

		resp, err := l.pager.ListVolumes(ctx, start)
		if err != nil {
			return nil, fmt.Errorf("error listing volumes (page %d): %w", page, err)
		}

		var total int
		if resp != nil {
			total = len(resp.Volumes)
			for _, volume := range resp.Volumes {
				if volume.AttachmentState == models.AttachmentStateUnattached {
					unattached = append(unattached, volume)
				}
			}
		}

		l.logger.Debug().
			Int("page", page).
			Int("volumes", total).
			Int("unattached_so_far", len(unattached)).
			Msg("processed volume page")

		var next *models.PageLink
		if resp != nil {
			next = resp.Next
		}
		start, err = NextCursor(next)
		if err != nil {
			return nil, fmt.Errorf("error reading next page link (page %d): %w", page, err)
		}
		if start == "" {
			return unattached, nil
		}

		if _, dup := seen[start]; dup {
			return nil, fmt.Errorf("%w: %q", ErrCursorLoop, start)
		}
		seen[start] = struct{}{}
	}
}

// NextCursor extracts the continuation cursor from a page link.
// A raw Start wins; otherwise the "start" query parameter of Href is used.
// An empty result means there are no more pages.
func NextCursor(link *models.PageLink) (string, error) {
	if link == nil {
		return "", nil
	}
	if link.Start != "" {
		return link.Start, nil
	}
	if link.Href == "" {
		return "", nil
	}

	u, err := url.Parse(link.Href)
	if err != nil {
		return "", fmt.Errorf("invalid next href %q: %w", link.Href, err)
	}
	return u.Query().Get("start"), nil
}
