package services

import (
	"context"
	"time"

	"matchpredict-go/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FixtureProvider is the slice of the football API the updater uses
type FixtureProvider interface {
	GetFixturesByDate(ctx context.Context, day time.Time) ([]models.Match, error)
	GetHomeWinPercent(ctx context.Context, fixtureID int64) (float64, error)
}

// BackgroundUpdater polls the fixture provider on a timer, refreshes stored
// snapshots and hands newly finished matches to the resolution service.
type BackgroundUpdater struct {
	provider   FixtureProvider
	matchRepo  MatchRepository
	resolution *ResultResolutionService
	subs       *SubscriptionService
	hub        *EventHub
	interval   time.Duration
	ticker     *time.Ticker
	stopChan   chan struct{}
	running    bool
	logger     zerolog.Logger
}

// NewBackgroundUpdater creates a new background updater
func NewBackgroundUpdater(provider FixtureProvider, matchRepo MatchRepository, resolution *ResultResolutionService, subs *SubscriptionService, hub *EventHub, interval time.Duration) *BackgroundUpdater {
	return &BackgroundUpdater{
		provider:   provider,
		matchRepo:  matchRepo,
		resolution: resolution,
		subs:       subs,
		hub:        hub,
		interval:   interval,
		stopChan:   make(chan struct{}),
		logger:     log.With().Str("component", "background_updater").Logger(),
	}
}

// Start begins the polling loop
func (bu *BackgroundUpdater) Start() {
	if bu.running {
		bu.logger.Warn().Msg("already running")
		return
	}

	bu.logger.Info().Dur("interval", bu.interval).Msg("starting fixture polling")
	bu.running = true
	bu.ticker = time.NewTicker(bu.interval)

	// Do an initial update
	go bu.update()

	go func() {
		for {
			select {
			case <-bu.ticker.C:
				go bu.update() // run in goroutine to avoid blocking the ticker
			case <-bu.stopChan:
				bu.logger.Info().Msg("stopping fixture polling")
				return
			}
		}
	}()
}

// Stop halts the polling loop
func (bu *BackgroundUpdater) Stop() {
	if !bu.running {
		return
	}
	bu.running = false
	if bu.ticker != nil {
		bu.ticker.Stop()
	}
	close(bu.stopChan)
}

// update refreshes fixtures for yesterday and today. Yesterday is included
// so matches finishing after midnight UTC still get resolved.
func (bu *BackgroundUpdater) update() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	today := time.Now().UTC()
	for _, day := range []time.Time{today.AddDate(0, 0, -1), today} {
		if err := bu.updateDay(ctx, day); err != nil {
			bu.logger.Error().Err(err).Str("day", day.Format("2006-01-02")).Msg("fixture update failed")
		}
	}

	if bu.subs != nil {
		if err := bu.subs.ExpireOverdue(ctx); err != nil {
			bu.logger.Error().Err(err).Msg("subscription expiry sweep failed")
		}
	}
}

func (bu *BackgroundUpdater) updateDay(ctx context.Context, day time.Time) error {
	fetched, err := bu.provider.GetFixturesByDate(ctx, day)
	if err != nil {
		return err
	}
	if len(fetched) == 0 {
		return nil
	}

	stored, err := bu.matchRepo.GetMatchesByDate(ctx, day)
	if err != nil {
		return err
	}
	storedByID := make(map[int64]models.Match, len(stored))
	for _, m := range stored {
		storedByID[m.ID] = m
	}

	var newlyFinished []models.Match
	for i := range fetched {
		prev, known := storedByID[fetched[i].ID]
		if !known {
			// First sighting: pull the provider's win probability once so
			// probability sorting and favorites cohorts have data.
			if pct, err := bu.provider.GetHomeWinPercent(ctx, fetched[i].ID); err == nil {
				fetched[i].HomeWinPercent = pct
			}
		} else {
			fetched[i].HomeWinPercent = prev.HomeWinPercent
			fetched[i].Popularity = prev.Popularity
			if fetched[i].IsFinished() && !prev.IsFinished() {
				newlyFinished = append(newlyFinished, fetched[i])
			}
		}
	}

	if err := bu.matchRepo.UpsertMatches(ctx, fetched); err != nil {
		return err
	}

	for i := range newlyFinished {
		match := newlyFinished[i]
		if err := bu.resolution.ProcessMatchCompletion(ctx, &match); err != nil {
			bu.logger.Error().Err(err).Int64("match_id", match.ID).Msg("resolution failed")
			continue
		}
		if bu.hub != nil {
			bu.hub.Broadcast("match_finished", match)
		}
	}

	if len(newlyFinished) > 0 {
		bu.logger.Info().Int("finished", len(newlyFinished)).
			Str("day", day.Format("2006-01-02")).Msg("resolved finished matches")
	}
	return nil
}
