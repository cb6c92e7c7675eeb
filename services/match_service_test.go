package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"matchpredict-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(id int64, home, away string, leagueID int64, kickoff time.Time) models.Match {
	return models.Match{
		ID:     id,
		Date:   kickoff,
		Status: models.MatchStatusScheduled,
		League: models.League{ID: leagueID, Name: "League"},
		Teams:  models.Teams{Home: home, Away: away},
	}
}

func TestFilterAndSortMatchesSearch(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	matches := []models.Match{
		fixture(1, "Liverpool", "Chelsea", 39, day.Add(15*time.Hour)),
		fixture(2, "Arsenal", "Everton", 39, day.Add(12*time.Hour)),
		fixture(3, "Real Madrid", "Barcelona", 140, day.Add(20*time.Hour)),
	}

	got := FilterAndSortMatches(matches, models.MatchFilters{Search: "liver"})
	require.Len(t, got, 1)
	assert.Equal(t, "Liverpool", got[0].Teams.Home)

	// Search matches the away side too, case-insensitively
	got = FilterAndSortMatches(matches, models.MatchFilters{Search: "BARCA"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)

	// Empty search matches everything
	assert.Len(t, FilterAndSortMatches(matches, models.MatchFilters{}), 3)
}

func TestFilterAndSortMatchesLeague(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	matches := []models.Match{
		fixture(1, "Liverpool", "Chelsea", 39, day),
		fixture(2, "Real Madrid", "Barcelona", 140, day),
	}

	got := FilterAndSortMatches(matches, models.MatchFilters{LeagueID: int64Ptr(140)})
	require.Len(t, got, 1)
	assert.Equal(t, int64(140), got[0].League.ID)
}

func TestFilterAndSortMatchesDefaultsToKickoffOrder(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	matches := []models.Match{
		fixture(1, "A", "B", 39, day.Add(20*time.Hour)),
		fixture(2, "C", "D", 39, day.Add(12*time.Hour)),
		fixture(3, "E", "F", 39, day.Add(15*time.Hour)),
	}

	got := FilterAndSortMatches(matches, models.MatchFilters{})
	require.Len(t, got, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestFilterAndSortMatchesByProbability(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	matches := []models.Match{
		fixture(1, "A", "B", 39, day),
		fixture(2, "C", "D", 39, day),
		fixture(3, "E", "F", 39, day),
	}
	matches[0].HomeWinPercent = 40
	matches[1].HomeWinPercent = 75
	matches[2].HomeWinPercent = 75

	got := FilterAndSortMatches(matches, models.MatchFilters{SortBy: models.SortByProbability})
	assert.Equal(t, int64(2), got[0].ID)
	// Equal keys keep input order: the sort is stable
	assert.Equal(t, int64(3), got[1].ID)
	assert.Equal(t, int64(1), got[2].ID)
}

func TestFilterAndSortMatchesByPopularity(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	matches := []models.Match{
		fixture(1, "A", "B", 39, day),
		fixture(2, "C", "D", 39, day),
	}
	matches[1].Popularity = 12

	got := FilterAndSortMatches(matches, models.MatchFilters{SortBy: models.SortByPopularity})
	assert.Equal(t, int64(2), got[0].ID)
}

type fakeFetcher struct {
	matches []models.Match
	err     error
	calls   int
}

func (f *fakeFetcher) GetFixturesByDate(_ context.Context, _ time.Time) ([]models.Match, error) {
	f.calls++
	return f.matches, f.err
}

func TestGetMatchesFallsBackToStoredSnapshot(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	stored := fixture(1, "Liverpool", "Chelsea", 39, day.Add(15*time.Hour))

	fetcher := &fakeFetcher{err: errors.New("provider down")}
	repo := newFakeMatchRepo(stored)

	svc := NewMatchService(fetcher, repo, nil)
	got, err := svc.GetMatches(context.Background(), day, models.MatchFilters{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, stored.ID, got[0].ID)
}

func TestGetMatchesKeepsEnrichedWinPercent(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	stored := fixture(1, "Liverpool", "Chelsea", 39, day.Add(15*time.Hour))
	stored.HomeWinPercent = 70

	// Fixture payloads never carry a probability, so the refetched row is zero
	fresh := fixture(1, "Liverpool", "Chelsea", 39, day.Add(15*time.Hour))

	fetcher := &fakeFetcher{matches: []models.Match{fresh}}
	repo := newFakeMatchRepo(stored)

	svc := NewMatchService(fetcher, repo, nil)
	got, err := svc.GetMatches(context.Background(), day, models.MatchFilters{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 70.0, got[0].HomeWinPercent, "served fixtures must keep the enriched probability")

	pcts, err := repo.GetHomeWinPercents(context.Background(), []int64{1})
	require.NoError(t, err)
	assert.Equal(t, 70.0, pcts[1], "refreshing a snapshot must not drop the enriched probability")
}

func TestGetMatchesStoresFetchedSnapshot(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	fetched := fixture(7, "Arsenal", "Everton", 39, day.Add(12*time.Hour))

	fetcher := &fakeFetcher{matches: []models.Match{fetched}}
	repo := newFakeMatchRepo()

	svc := NewMatchService(fetcher, repo, nil)
	got, err := svc.GetMatches(context.Background(), day, models.MatchFilters{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	stored, err := repo.GetMatchByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, stored, "fetched fixtures must be snapshotted")
}
