package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFPLDataService_BootstrapCachesAcrossCalls(t *testing.T) {
	provider := &stubProvider{bootstrap: fixtureBootstrap()}
	svc := NewFPLDataService(provider, time.Minute, silentLogger())

	first, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)
	second, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.bootstrapCalls)
}

func TestFPLDataService_RosterResolvesCurrentGameweek(t *testing.T) {
	provider := &stubProvider{
		bootstrap: fixtureBootstrap(),
		manager:   fixtureManager(158389),
		picks:     fixturePicks(158389, 10),
	}
	svc := NewFPLDataService(provider, time.Minute, silentLogger())

	players, err := svc.Roster(context.Background(), 158389, 0)
	require.NoError(t, err)

	require.Len(t, players, 3)
	assert.Equal(t, "Kelleher", players[0].Name)
	assert.Equal(t, "Haaland", players[2].Name)
	assert.True(t, players[2].IsCaptain)
	assert.Equal(t, 1, provider.managerCalls)
}

func TestFPLDataService_RosterExplicitGameweekSkipsManagerFetch(t *testing.T) {
	provider := &stubProvider{
		bootstrap: fixtureBootstrap(),
		picks:     fixturePicks(158389, 10),
	}
	svc := NewFPLDataService(provider, time.Minute, silentLogger())

	_, err := svc.Roster(context.Background(), 158389, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, provider.managerCalls)
}

func TestFPLDataService_RosterUnknownPickFails(t *testing.T) {
	picks := fixturePicks(158389, 10)
	picks.Picks[0].PlayerID = 999
	provider := &stubProvider{
		bootstrap: fixtureBootstrap(),
		picks:     picks,
	}
	svc := NewFPLDataService(provider, time.Minute, silentLogger())

	_, err := svc.Roster(context.Background(), 158389, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in universe")
}
