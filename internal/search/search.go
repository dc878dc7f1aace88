// Package search fans an inmate query out to every configured provider.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/casetracker/internal/models"
)

// ErrEmptyQuery is returned for a blank query.
var ErrEmptyQuery = errors.New("empty search query")

// Provider is one source of inmate records.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]models.Inmate, error)
}

// Result is what the search endpoint returns. Errors holds one user-facing
// message per failed provider; a search with failures can still match.
type Result struct {
	Inmates []models.Inmate `json:"inmates"`
	Errors  []string        `json:"errors"`
}

// Searcher queries providers concurrently.
type Searcher struct {
	providers []Provider
	// OnError, if set, is told about every provider failure.
	OnError func(provider string, err error)
}

func New(providers ...Provider) *Searcher {
	return &Searcher{providers: providers}
}

// Search runs query against every provider. Matches are merged, deduplicated
// by (jurisdiction, id) and sorted by name. Provider failures never fail the
// search; they are reported in Result.Errors in provider order.
func (s *Searcher) Search(ctx context.Context, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, ErrEmptyQuery
	}

	found := make([][]models.Inmate, len(s.providers))
	failed := make([]error, len(s.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range s.providers {
		g.Go(func() error {
			found[i], failed[i] = p.Search(gctx, query)
			return nil
		})
	}
	_ = g.Wait() // providers never fail the group

	res := Result{Inmates: []models.Inmate{}, Errors: []string{}}
	seen := map[string]bool{}
	for i, p := range s.providers {
		if err := failed[i]; err != nil {
			if s.OnError != nil {
				s.OnError(p.Name(), err)
			}
			res.Errors = append(res.Errors, fmt.Sprintf("Failed to search %s inmates.", p.Name()))
			continue
		}
		for _, in := range found[i] {
			key := fmt.Sprintf("%s/%d", in.Jurisdiction, in.ID)
			if seen[key] {
				continue
			}
			seen[key] = true
			res.Inmates = append(res.Inmates, in)
		}
	}

	sort.SliceStable(res.Inmates, func(a, b int) bool {
		x, y := res.Inmates[a], res.Inmates[b]
		if x.LastName != y.LastName {
			return x.LastName < y.LastName
		}
		if x.FirstName != y.FirstName {
			return x.FirstName < y.FirstName
		}
		if x.Jurisdiction != y.Jurisdiction {
			return x.Jurisdiction < y.Jurisdiction
		}
		return x.ID < y.ID
	})
	return res, nil
}

// Store is the storage lookup a StoreProvider wraps.
type Store interface {
	SearchInmates(ctx context.Context, jurisdiction, query string) ([]models.Inmate, error)
}

// StoreProvider searches the local database, optionally limited to one
// jurisdiction.
type StoreProvider struct {
	Store        Store
	Jurisdiction string
}

func (p StoreProvider) Name() string {
	if p.Jurisdiction == "" {
		return "local"
	}
	return p.Jurisdiction
}

func (p StoreProvider) Search(ctx context.Context, query string) ([]models.Inmate, error) {
	return p.Store.SearchInmates(ctx, p.Jurisdiction, query)
}

// StoreProviders builds one StoreProvider per jurisdiction, or a single
// unrestricted one when jurisdictions is empty.
func StoreProviders(st Store, jurisdictions []string) []Provider {
	if len(jurisdictions) == 0 {
		return []Provider{StoreProvider{Store: st}}
	}
	out := make([]Provider, 0, len(jurisdictions))
	for _, j := range jurisdictions {
		out = append(out, StoreProvider{Store: st, Jurisdiction: j})
	}
	return out
}
