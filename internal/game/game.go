// Package game implements the session tick loop that drives asset loading,
// scene instantiation and collider baking.
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-collider/internal/assets"
	"github.com/Faultbox/midgard-collider/internal/config"
	"github.com/Faultbox/midgard-collider/internal/geometry"
	"github.com/Faultbox/midgard-collider/internal/logger"
	"github.com/Faultbox/midgard-collider/internal/physics"
	"github.com/Faultbox/midgard-collider/internal/scene"
)

// Session owns everything that lives for one run of the program.
type Session struct {
	ID string

	config  *config.Config
	world   *scene.World
	store   *geometry.Store
	tracker *assets.Tracker
	spawner *assets.Instantiator
	physics *physics.Plugin
	ctx     *physics.Context

	frame   int
	reports []physics.Report
}

// New creates a session for the manifest. Its meshes become available
// once the asset tracker reports the collection loaded.
func New(cfg *config.Config, manifest *assets.Manifest) (*Session, error) {
	if manifest == nil {
		return nil, fmt.Errorf("creating session: nil manifest")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s := &Session{
		ID:      uuid.NewString(),
		config:  cfg,
		world:   scene.NewWorld(),
		store:   geometry.NewStore(),
		tracker: assets.NewTracker(),
		spawner: assets.NewInstantiator(manifest, cfg.Scene.SpawnLagTicks),
		physics: physics.NewPlugin(),
		ctx:     physics.NewContext(),
	}

	s.tracker.Add(manifest.Collection, cfg.Scene.LoadTicks)
	s.tracker.OnLoaded(func() error {
		manifest.PublishMeshes(s.store)
		return nil
	})

	logger.Info("session created",
		zap.String("session", s.ID),
		zap.String("collection", manifest.Collection),
		zap.Int("load_ticks", cfg.Scene.LoadTicks),
		zap.Int("spawn_lag_ticks", cfg.Scene.SpawnLagTicks))
	return s, nil
}

// Tick runs one scheduler step: asset loading, instantiation, then the
// collider plugin. A returned error is fatal for the session.
func (s *Session) Tick() error {
	s.frame++

	if err := s.tracker.Update(); err != nil {
		return fmt.Errorf("tick %d: %w", s.frame, err)
	}
	loaded := s.tracker.Done()

	if err := s.spawner.Update(loaded, s.world); err != nil {
		return fmt.Errorf("tick %d: instantiating scene: %w", s.frame, err)
	}

	report, ran, err := s.physics.Tick(s.ctx, s.world, s.store, loaded)
	if err != nil {
		return fmt.Errorf("tick %d: %w", s.frame, err)
	}
	if ran && report.Processed() > 0 {
		s.reports = append(s.reports, report)
	}
	return nil
}

// Run executes the configured number of ticks, throttled to the tick rate
// when one is set.
func (s *Session) Run() error {
	var ticker *time.Ticker
	if rate := s.config.Session.TickRate; rate > 0 {
		ticker = time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()
	}

	logger.Info("starting session loop",
		zap.String("session", s.ID),
		zap.Int("frames", s.config.Session.MaxFrames),
		zap.Int("tick_rate", s.config.Session.TickRate))

	start := time.Now()
	lastTime := start
	for s.frame < s.config.Session.MaxFrames {
		if ticker != nil {
			<-ticker.C
		}

		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if err := s.Tick(); err != nil {
			logger.Error("session aborted", zap.String("session", s.ID), zap.Error(err))
			return err
		}

		if s.frame%60 == 0 {
			logger.Debug("tick",
				zap.Int("frame", s.frame),
				zap.Duration("dt", dt),
				zap.Bool("spawned", s.spawner.Spawned()),
				zap.Stringer("colliders", s.ctx.State()))
		}
	}

	hits, misses := s.store.Stats()
	logger.Info("session finished",
		zap.String("session", s.ID),
		zap.Int("frames", s.frame),
		zap.Duration("elapsed", time.Since(start)),
		zap.Stringer("colliders", s.ctx.State()),
		zap.Uint64("gate_ticks", s.ctx.Ticks()),
		zap.Int("geometry_hits", hits),
		zap.Int("geometry_misses", misses))
	return nil
}

// Frame returns the number of ticks executed.
func (s *Session) Frame() int {
	return s.frame
}

// World returns the session's scene.
func (s *Session) World() *scene.World {
	return s.world
}

// Store returns the session's geometry store.
func (s *Session) Store() *geometry.Store {
	return s.store
}

// Context returns the collider baking state.
func (s *Session) Context() *physics.Context {
	return s.ctx
}

// Reports returns the reports of passes that processed colliders.
func (s *Session) Reports() []physics.Report {
	return s.reports
}
