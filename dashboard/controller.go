// Package dashboard owns the application state and turns user intents into
// fetches, state transitions and render calls.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"weather-dashboard/datasource"
	"weather-dashboard/forecast"
	"weather-dashboard/logger"
	"weather-dashboard/metrics"
	"weather-dashboard/models"
	"weather-dashboard/preferences"
	"weather-dashboard/units"
	"weather-dashboard/viewmodel"
)

// ErrSuperseded is returned for a refresh whose result was dropped because a
// newer refresh was issued after it
var ErrSuperseded = errors.New("refresh superseded by a newer request")

// LocationResolver turns a device position or a search query into a coordinate
type LocationResolver interface {
	ResolveByDevice(ctx context.Context) (models.Coordinate, error)
	ResolveByQuery(ctx context.Context, text string) (models.Coordinate, error)
}

// Pinger verifies the weather credential with a single request
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options wires a controller. Weather and Resolver are required.
type Options struct {
	Weather     datasource.WeatherSource
	UV          datasource.UVSource
	Resolver    LocationResolver
	Preferences *preferences.Store
	Renderer    Renderer

	// Timezone is TimezoneLocal or TimezoneLocation
	Timezone string
	// ConfigErr, when set, short-circuits every network intent
	ConfigErr    error
	FetchTimeout time.Duration
	Logger       *zap.Logger
	Now          func() time.Time
}

// State is the single source of truth for what the dashboard shows
type State struct {
	Location    *models.Coordinate
	Current     *models.CurrentWeather
	Forecast    *models.NormalizedForecast
	Unit        models.TemperatureUnit
	Error       string
	Loading     bool
	LastUpdated time.Time

	zone *time.Location
}

// Controller serializes state changes. Refreshes run concurrently; only the
// most recently issued one may change state.
type Controller struct {
	weather      datasource.WeatherSource
	uv           datasource.UVSource
	resolver     LocationResolver
	prefs        *preferences.Store
	renderer     Renderer
	timezone     string
	configErr    error
	fetchTimeout time.Duration
	log          *zap.Logger
	now          func() time.Time

	seq      atomic.Uint64
	mu       sync.Mutex
	inflight int
	state    State
}

// NewController creates a controller. The unit is restored from preferences.
func NewController(opts Options) *Controller {
	c := &Controller{
		weather:      opts.Weather,
		uv:           opts.UV,
		resolver:     opts.Resolver,
		prefs:        opts.Preferences,
		renderer:     opts.Renderer,
		timezone:     opts.Timezone,
		configErr:    opts.ConfigErr,
		fetchTimeout: opts.FetchTimeout,
		log:          logger.OrNop(opts.Logger),
		now:          opts.Now,
	}
	if c.renderer == nil {
		c.renderer = nopRenderer{}
	}
	if c.now == nil {
		c.now = time.Now
	}

	c.state.Unit = models.Celsius
	if c.prefs != nil {
		c.state.Unit = c.prefs.Unit()
	}
	return c
}

// Handle executes one intent. Refresh intents block until their fetches
// finish; the error is also surfaced through the renderer.
func (c *Controller) Handle(ctx context.Context, in Intent) error {
	switch in.Kind {
	case RefreshByDevice:
		return c.refresh(ctx, in.Kind, c.resolver.ResolveByDevice)
	case RefreshByQuery:
		// A blank search never becomes the newest request, so it cannot
		// supersede a refresh that is still in flight
		if strings.TrimSpace(in.Query) == "" {
			c.mu.Lock()
			c.showErrorLocked(models.ErrEmptyQuery)
			c.mu.Unlock()
			metrics.ObserveRefresh(in.Kind.String(), models.ErrEmptyQuery)
			return models.ErrEmptyQuery
		}
		return c.refresh(ctx, in.Kind, func(ctx context.Context) (models.Coordinate, error) {
			return c.resolver.ResolveByQuery(ctx, in.Query)
		})
	case RefreshByCoordinate:
		coord := in.Coordinate
		return c.refresh(ctx, in.Kind, func(context.Context) (models.Coordinate, error) {
			return coord, nil
		})
	case RefreshCurrent:
		return c.refreshCurrent(ctx)
	case ToggleUnit:
		c.ToggleUnit()
		return nil
	case DismissError:
		c.DismissError()
		return nil
	}
	return fmt.Errorf("unknown intent %d", in.Kind)
}

// Start performs the initial load: a device refresh, falling back to
// fallback when the device position cannot be resolved
func (c *Controller) Start(ctx context.Context, fallback *models.Coordinate) error {
	err := c.Handle(ctx, DeviceRefresh())
	if err == nil || fallback == nil || !errors.Is(err, models.ErrLocationUnavailable) {
		return err
	}

	c.log.Info("device location unavailable, loading default location",
		zap.String("location", fallback.String()))
	return c.Handle(ctx, CoordinateRefresh(*fallback))
}

// CheckCredential verifies the API key with one request and surfaces any failure
func (c *Controller) CheckCredential(ctx context.Context, p Pinger) error {
	err := c.configErr
	if err == nil && p != nil {
		err = p.Ping(ctx)
	}
	if err == nil {
		return nil
	}

	c.log.Warn("API key check failed", zap.Error(err))
	c.mu.Lock()
	c.showErrorLocked(err)
	c.mu.Unlock()
	return err
}

type resolveFunc func(ctx context.Context) (models.Coordinate, error)

func (c *Controller) refresh(ctx context.Context, trigger IntentKind, resolve resolveFunc) (err error) {
	seq := c.seq.Add(1)
	log := c.log.With(
		zap.String("request_id", uuid.NewString()),
		zap.Stringer("trigger", trigger),
		zap.Uint64("seq", seq),
	)
	defer func() {
		if errors.Is(err, ErrSuperseded) {
			metrics.StaleRefreshesDropped.Inc()
			return
		}
		metrics.ObserveRefresh(trigger.String(), err)
	}()

	if c.configErr != nil {
		return c.fail(seq, c.configErr, log)
	}

	c.beginLoading()
	defer c.endLoading()

	coord, err := resolve(ctx)
	if err != nil {
		return c.fail(seq, err, log)
	}

	current, entries, err := c.fetch(ctx, coord, log)
	if err != nil {
		return c.fail(seq, err, log)
	}

	return c.commit(seq, coord, current, entries, log)
}

// refreshCurrent re-fetches the displayed location. It is skipped when
// nothing is displayed yet or another refresh is running, so a scheduled
// refresh never supersedes a user request.
func (c *Controller) refreshCurrent(ctx context.Context) error {
	c.mu.Lock()
	loc := c.state.Location
	busy := c.inflight > 0
	c.mu.Unlock()

	if loc == nil || busy {
		c.log.Debug("scheduled refresh skipped", zap.Bool("busy", busy))
		return nil
	}
	coord := *loc
	return c.refresh(ctx, RefreshCurrent, func(context.Context) (models.Coordinate, error) {
		return coord, nil
	})
}

// fetch issues the current-weather and forecast requests concurrently. Both
// must succeed. The UV lookup is optional and never fails the refresh.
func (c *Controller) fetch(ctx context.Context, coord models.Coordinate, log *zap.Logger) (models.CurrentWeather, []models.ForecastEntry, error) {
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}

	var (
		current models.CurrentWeather
		entries []models.ForecastEntry
		uv      *float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := c.weather.FetchCurrent(gctx, coord)
		if err != nil {
			return fmt.Errorf("current weather: %w", err)
		}
		current = w
		return nil
	})
	g.Go(func() error {
		list, err := c.weather.FetchForecast(gctx, coord)
		if err != nil {
			return fmt.Errorf("forecast: %w", err)
		}
		entries = list
		return nil
	})
	if c.uv != nil {
		g.Go(func() error {
			v, err := c.uv.FetchUV(gctx, coord)
			if err != nil {
				log.Debug("UV index unavailable", zap.String("source", c.uv.Name()), zap.Error(err))
				return nil
			}
			uv = &v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return models.CurrentWeather{}, nil, err
	}
	if uv != nil {
		current.UVIndex = uv
	}
	return current, entries, nil
}

func (c *Controller) commit(seq uint64, coord models.Coordinate, current models.CurrentWeather, entries []models.ForecastEntry, log *zap.Logger) error {
	zone := zoneFor(c.timezone, coord)
	normalized := forecast.Normalize(entries, zone)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq.Load() {
		log.Debug("dropping stale refresh result")
		return ErrSuperseded
	}

	c.state.Location = &coord
	c.state.Current = &current
	c.state.Forecast = &normalized
	c.state.zone = zone
	c.state.LastUpdated = c.now()
	c.state.Error = ""

	c.renderer.HideError()
	c.renderLocked()

	log.Info("dashboard refreshed",
		zap.String("location", coord.String()),
		zap.Int("days", len(normalized.Daily)),
		zap.Int("hours", len(normalized.Hourly)))
	return nil
}

func (c *Controller) fail(seq uint64, err error, log *zap.Logger) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq.Load() {
		log.Debug("dropping stale refresh failure", zap.Error(err))
		return ErrSuperseded
	}

	log.Warn("refresh failed", zap.Error(err))
	c.showErrorLocked(err)
	return err
}

func (c *Controller) showErrorLocked(err error) {
	c.state.Error = UserMessage(err)
	c.renderer.ShowError(c.state.Error)
}

func (c *Controller) beginLoading() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inflight++
	if c.inflight == 1 {
		c.state.Loading = true
		c.renderer.SetLoading(true)
	}
}

func (c *Controller) endLoading() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inflight--
	if c.inflight == 0 {
		c.state.Loading = false
		c.renderer.SetLoading(false)
	}
}

// ToggleUnit flips the display unit, persists it and re-renders from the
// data already held. It returns the new unit.
func (c *Controller) ToggleUnit() models.TemperatureUnit {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Unit = units.Toggle(c.state.Unit)
	if c.prefs != nil {
		// Save already logs and counts a failed write
		_ = c.prefs.Save(c.state.Unit)
	}
	c.renderLocked()
	return c.state.Unit
}

// DismissError clears the displayed error
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Error = ""
	c.renderer.HideError()
}

// Redraw renders the held data again, e.g. when the clock header changes
func (c *Controller) Redraw() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderLocked()
}

func (c *Controller) renderLocked() {
	if view, ok := c.viewLocked(); ok {
		c.renderer.Render(view)
	}
}

func (c *Controller) viewLocked() (viewmodel.Dashboard, bool) {
	if c.state.Current == nil || c.state.Forecast == nil {
		return viewmodel.Dashboard{}, false
	}
	b := viewmodel.NewBuilder(c.state.zone)
	return b.Build(*c.state.Current, *c.state.Forecast, c.state.Unit), true
}

// State returns a copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot is the state as served over HTTP
type Snapshot struct {
	Unit        models.TemperatureUnit `json:"unit"`
	Location    *models.Coordinate     `json:"location,omitempty"`
	Loading     bool                   `json:"loading"`
	Error       string                 `json:"error,omitempty"`
	LastUpdated *time.Time             `json:"lastUpdated,omitempty"`
	Dashboard   *viewmodel.Dashboard   `json:"dashboard,omitempty"`
}

// Snapshot builds the view for the held data without rendering it
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Unit:     c.state.Unit,
		Location: c.state.Location,
		Loading:  c.state.Loading,
		Error:    c.state.Error,
	}
	if !c.state.LastUpdated.IsZero() {
		t := c.state.LastUpdated
		s.LastUpdated = &t
	}
	if view, ok := c.viewLocked(); ok {
		s.Dashboard = &view
	}
	return s
}
