// Package geometry loads state and district boundaries once per process and
// serves them to the map panel.
package geometry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"aghi-dashboard/internal/metrics"
	"aghi-dashboard/internal/types"

	geojson "github.com/paulmach/go.geojson"
	"golang.org/x/sync/singleflight"
)

// ErrUnavailable is returned when neither the local file nor the remote URL
// produced a usable bundle.
var ErrUnavailable = errors.New("geometry unavailable")

// Property names that carry the region name in common India boundary files.
var nameProperties = map[types.MapLevel][]string{
	types.LevelState:    {"ST_NM", "st_nm", "NAME_1", "state", "name", "NAME"},
	types.LevelDistrict: {"district", "DISTRICT", "dtname", "NAME_2", "name", "NAME"},
}

// Bundle is an immutable set of boundaries keyed by region name.
type Bundle struct {
	Level    types.MapLevel
	Source   string
	features map[string]*geojson.Geometry
}

// Len is the number of named boundaries.
func (b *Bundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.features)
}

// Has reports whether a boundary exists for name.
func (b *Bundle) Has(name string) bool {
	if b == nil {
		return false
	}
	_, ok := b.features[name]
	return ok
}

// Centroid averages the exterior ring vertices of the region's polygons.
func (b *Bundle) Centroid(name string) (lon, lat float64, ok bool) {
	if b == nil {
		return 0, 0, false
	}
	g, found := b.features[name]
	if !found || g == nil {
		return 0, 0, false
	}
	var rings [][][]float64
	switch {
	case g.IsPolygon() && len(g.Polygon) > 0:
		rings = append(rings, g.Polygon[0])
	case g.IsMultiPolygon():
		for _, poly := range g.MultiPolygon {
			if len(poly) > 0 {
				rings = append(rings, poly[0])
			}
		}
	}
	n := 0
	for _, ring := range rings {
		for _, pt := range ring {
			if len(pt) < 2 {
				continue
			}
			lon += pt[0]
			lat += pt[1]
			n++
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return lon / float64(n), lat / float64(n), true
}

// Parse decodes a GeoJSON FeatureCollection into a bundle. Features without a
// recognizable name or without polygon geometry are skipped.
func Parse(level types.MapLevel, source string, data []byte) (*Bundle, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s boundaries: %w", level, err)
	}
	b := &Bundle{Level: level, Source: source, features: make(map[string]*geojson.Geometry)}
	for _, f := range fc.Features {
		if f.Geometry == nil || !(f.Geometry.IsPolygon() || f.Geometry.IsMultiPolygon()) {
			continue
		}
		if name := featureName(level, f); name != "" {
			b.features[name] = f.Geometry
		}
	}
	if len(b.features) == 0 {
		return nil, fmt.Errorf("%s boundaries: no named polygons", level)
	}
	return b, nil
}

func featureName(level types.MapLevel, f *geojson.Feature) string {
	for _, key := range nameProperties[level] {
		if v, ok := f.Properties[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Config names the primary (local directory) and secondary (remote URL)
// sources per granularity.
type Config struct {
	Dir         string
	StateURL    string
	DistrictURL string
	// LoadTimeout bounds one shared load; zero means DefaultLoadTimeout.
	LoadTimeout time.Duration
}

// DefaultLoadTimeout bounds a boundary load when Config leaves it unset.
const DefaultLoadTimeout = time.Minute

// FileName is the local file holding a granularity's boundaries.
func FileName(level types.MapLevel) string {
	if level == types.LevelDistrict {
		return "districts.geojson"
	}
	return "states.geojson"
}

// Store holds at most one bundle per granularity. Bundles are written once and
// never invalidated.
type Store struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger

	mu      sync.RWMutex
	bundles map[types.MapLevel]*Bundle
	flight  singleflight.Group
}

// NewStore builds an empty store.
func NewStore(cfg Config, client *http.Client, log *slog.Logger) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{
		cfg:     cfg,
		client:  client,
		log:     log,
		bundles: make(map[types.MapLevel]*Bundle),
	}
}

// Loaded returns the bundle for level without doing any I/O.
func (s *Store) Loaded(level types.MapLevel) (*Bundle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bundles[level]
	return b, ok
}

// EnsureLoaded returns the bundle for level, loading it on first use from the
// local file and falling back to the remote URL. Concurrent first calls share
// one load. The shared load is detached from the caller's cancellation and
// bounded by the store's load timeout, so a caller that gives up does not fail
// the others. A failed load is not remembered, so a later call tries again.
func (s *Store) EnsureLoaded(ctx context.Context, level types.MapLevel) (*Bundle, error) {
	if b, ok := s.Loaded(level); ok {
		return b, nil
	}
	ch := s.flight.DoChan(string(level), func() (interface{}, error) {
		if b, ok := s.Loaded(level); ok {
			return b, nil
		}
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout())
		defer cancel()
		b, err := s.load(lctx, level)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.bundles[level] = b
		s.mu.Unlock()
		return b, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Bundle), nil
	}
}

func (s *Store) loadTimeout() time.Duration {
	if s.cfg.LoadTimeout > 0 {
		return s.cfg.LoadTimeout
	}
	return DefaultLoadTimeout
}

func (s *Store) load(ctx context.Context, level types.MapLevel) (*Bundle, error) {
	var localErr error
	if s.cfg.Dir != "" {
		path := filepath.Join(s.cfg.Dir, FileName(level))
		data, err := os.ReadFile(path)
		if err == nil {
			b, perr := Parse(level, "local", data)
			if perr == nil {
				metrics.GeometryLoadsTotal.WithLabelValues(string(level), "local").Inc()
				s.log.Info("geometry_loaded", "level", level, "source", "local", "regions", b.Len())
				return b, nil
			}
			err = perr
		}
		localErr = err
		s.log.Warn("geometry_local_failed", "level", level, "path", path, "err", err)
	} else {
		localErr = errors.New("no local geometry directory configured")
	}

	data, err := s.fetchRemote(ctx, level)
	if err == nil {
		var b *Bundle
		if b, err = Parse(level, "remote", data); err == nil {
			metrics.GeometryLoadsTotal.WithLabelValues(string(level), "remote").Inc()
			s.log.Info("geometry_loaded", "level", level, "source", "remote", "regions", b.Len())
			return b, nil
		}
	}
	s.log.Error("geometry_unavailable", "level", level, "local_err", localErr, "remote_err", err)
	return nil, fmt.Errorf("%w: %s: local: %v; remote: %v", ErrUnavailable, level, localErr, err)
}

func (s *Store) remoteURL(level types.MapLevel) string {
	if level == types.LevelDistrict {
		return s.cfg.DistrictURL
	}
	return s.cfg.StateURL
}

func (s *Store) fetchRemote(ctx context.Context, level types.MapLevel) ([]byte, error) {
	u := s.remoteURL(level)
	if u == "" {
		return nil, errors.New("no remote geometry url configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: status %d", u, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Seed downloads the remote boundaries for level into the local directory so
// later runs load them without the network. It returns the written path.
func (s *Store) Seed(ctx context.Context, level types.MapLevel) (string, error) {
	if s.cfg.Dir == "" {
		return "", errors.New("no local geometry directory configured")
	}
	data, err := s.fetchRemote(ctx, level)
	if err != nil {
		return "", err
	}
	if _, err := Parse(level, "remote", data); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.cfg.Dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(s.cfg.Dir, FileName(level))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
