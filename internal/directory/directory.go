// Package directory holds the per-session reference data: currency rates,
// the flattened region tree, and the sort-order vocabulary. It is loaded once
// at startup and read-only afterwards.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"jobinsights-engine/internal/hh"
)

// ErrUnavailable marks a failed reference-data load. Without the directory
// no run can start, so callers treat it as fatal for the session.
var ErrUnavailable = errors.New("directory unavailable")

// Data collection is limited to one country's administrative tree.
const countryName = "Россия"

// Sort keys tied to geographic distance need a fixed coordinate and are
// excluded from the vocabulary.
const distanceOrderID = "distance"

type Directory struct {
	rates      map[string]float64
	regionName map[string]string // id -> display name
	regionID   map[string]string // lower(name) -> id, first match wins
	names      []string          // display names in tree order
	sortOrders map[string]string // display name -> sort key
}

// Load fetches both reference endpoints concurrently and builds the session
// directory.
func Load(ctx context.Context, c *hh.Client) (*Directory, error) {
	var (
		dicts hh.Dictionaries
		areas []hh.Area
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dicts, err = c.Dictionaries(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		areas, err = c.Areas(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	d := &Directory{
		rates:      make(map[string]float64, len(dicts.Currency)),
		regionName: make(map[string]string),
		regionID:   make(map[string]string),
		sortOrders: make(map[string]string, len(dicts.Orders)),
	}

	for _, cur := range dicts.Currency {
		d.rates[cur.Code] = cur.Rate
	}
	for _, o := range dicts.Orders {
		if o.ID == distanceOrderID {
			continue
		}
		d.sortOrders[o.Name] = o.ID
	}

	for _, country := range areas {
		if country.Name != countryName {
			continue
		}
		d.addRegion(country.ID, country.Name)
		for _, region := range country.Areas {
			d.addRegion(region.ID, region.Name)
			for _, area := range region.Areas {
				d.addRegion(area.ID, area.Name)
			}
		}
	}

	return d, nil
}

func (d *Directory) addRegion(id, name string) {
	d.regionName[id] = name
	d.names = append(d.names, name)
	key := strings.ToLower(name)
	if _, ok := d.regionID[key]; !ok {
		d.regionID[key] = id
	}
}

// Rates maps currency code to the exchange rate against the base unit.
func (d *Directory) Rates() map[string]float64 { return d.rates }

// ResolveRegion looks a region id up by display name, case-insensitively.
// The boolean is false when no region matches.
func (d *Directory) ResolveRegion(name string) (string, bool) {
	id, ok := d.regionID[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Domestic reports whether an area id belongs to the loaded country tree,
// which is also the domestic tax jurisdiction for salary normalization.
func (d *Directory) Domestic(id string) bool {
	_, ok := d.regionName[id]
	return ok
}

// RegionNames returns display names in tree order, for UI suggestions.
func (d *Directory) RegionNames() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// SortOrders maps display names to the sort keys the search endpoint accepts.
func (d *Directory) SortOrders() map[string]string {
	out := make(map[string]string, len(d.sortOrders))
	for k, v := range d.sortOrders {
		out[k] = v
	}
	return out
}
