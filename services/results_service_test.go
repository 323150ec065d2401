package services

import (
	"context"
	"testing"

	"github.com/grims-squad/clan-backend/models"
	"github.com/grims-squad/clan-backend/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newResultsFixture() (*ResultsService, *fakeResultRepo, *fakePlayerRepo, *fakeTournamentRepo, *fakeProfileRepo, *fakeTxManager, *recordingNotifier) {
	resultRepo := newFakeResultRepo()
	playerRepo := newFakePlayerRepo()
	tournamentRepo := newFakeTournamentRepo()
	profileRepo := newFakeProfileRepo()
	txManager := &fakeTxManager{}
	notifier := &recordingNotifier{}
	logger := testLogger()

	leaderboard := NewLeaderboardService(playerRepo, txManager, notifier, logger)
	svc := NewResultsService(resultRepo, playerRepo, tournamentRepo, profileRepo, leaderboard, txManager, logger)
	return svc, resultRepo, playerRepo, tournamentRepo, profileRepo, txManager, notifier
}

func TestSubmitTournamentResults_FullPipeline(t *testing.T) {
	svc, resultRepo, playerRepo, tournamentRepo, _, txManager, notifier := newResultsFixture()
	ctx := context.Background()

	tournament := tournamentRepo.add(models.Tournament{Name: "Friday Night Cup", Mode: "solo", Status: models.StatusLive})

	// Player A already holds 100 points from an earlier tournament.
	require.NoError(t, playerRepo.Create(ctx, nil, &models.Player{PlayerName: "PlayerA", TotalPoints: 100, Rank: 1}))

	entries := []ResultEntry{
		{PlayerName: "PlayerA", Points: intPtr(50)},
		{PlayerName: "PlayerB", Points: intPtr(80)},
	}
	require.NoError(t, svc.SubmitTournamentResults(ctx, tournament.ID, entries))

	// One immutable result row per valid entry.
	results, err := resultRepo.ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "PlayerA", results[0].PlayerName)
	assert.Equal(t, 50, results[0].Points)
	assert.Equal(t, "PlayerB", results[1].PlayerName)
	assert.Equal(t, 80, results[1].Points)

	// Existing player incremented, new player created.
	playerA, err := playerRepo.GetByName(ctx, nil, "PlayerA")
	require.NoError(t, err)
	assert.Equal(t, 150, playerA.TotalPoints)
	assert.Equal(t, 1, playerA.Rank)

	playerB, err := playerRepo.GetByName(ctx, nil, "PlayerB")
	require.NoError(t, err)
	assert.Equal(t, 80, playerB.TotalPoints)
	assert.Equal(t, 2, playerB.Rank)

	// Tournament flipped to completed with results_entered set.
	updated, err := tournamentRepo.GetByID(ctx, nil, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.True(t, updated.ResultsEntered)

	// One transaction for the whole batch, one live update.
	assert.Equal(t, 1, txManager.began)
	assert.Equal(t, 1, notifier.count())
}

func TestSubmitTournamentResults_SkipsInvalidEntries(t *testing.T) {
	svc, resultRepo, playerRepo, tournamentRepo, _, _, _ := newResultsFixture()
	ctx := context.Background()

	tournament := tournamentRepo.add(models.Tournament{Name: "Skip Cup", Mode: "duo", Status: models.StatusLive})

	entries := []ResultEntry{
		{PlayerName: "", Points: intPtr(40)},
		{PlayerName: "   ", Points: intPtr(40)},
		{PlayerName: "Ghost", Points: nil},
		{PlayerName: "  Valid  ", Points: intPtr(25)},
	}
	require.NoError(t, svc.SubmitTournamentResults(ctx, tournament.ID, entries))

	results, err := resultRepo.ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Valid", results[0].PlayerName)

	// Skipped names never get an aggregate.
	_, err = playerRepo.GetByName(ctx, nil, "Ghost")
	assert.ErrorIs(t, err, repositories.ErrPlayerNotFound)

	valid, err := playerRepo.GetByName(ctx, nil, "Valid")
	require.NoError(t, err)
	assert.Equal(t, 25, valid.TotalPoints)
	assert.Equal(t, 1, valid.Rank)
}

func TestSubmitTournamentResults_AllEntriesInvalid(t *testing.T) {
	svc, _, _, tournamentRepo, _, txManager, _ := newResultsFixture()
	ctx := context.Background()

	tournament := tournamentRepo.add(models.Tournament{Name: "Empty Cup", Mode: "solo", Status: models.StatusLive})

	entries := []ResultEntry{
		{PlayerName: "", Points: intPtr(10)},
		{PlayerName: "NoPoints", Points: nil},
	}
	err := svc.SubmitTournamentResults(ctx, tournament.ID, entries)
	assert.ErrorIs(t, err, ErrEmptyResultsBatch)
	assert.Equal(t, 0, txManager.began)

	// Status untouched.
	updated, getErr := tournamentRepo.GetByID(ctx, nil, tournament.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusLive, updated.Status)
	assert.False(t, updated.ResultsEntered)
}

func TestSubmitTournamentResults_TournamentNotFound(t *testing.T) {
	svc, _, _, _, _, _, _ := newResultsFixture()

	err := svc.SubmitTournamentResults(context.Background(), 999, []ResultEntry{
		{PlayerName: "Anyone", Points: intPtr(1)},
	})
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestSubmitTournamentResults_RejectsResubmission(t *testing.T) {
	svc, resultRepo, playerRepo, tournamentRepo, _, _, _ := newResultsFixture()
	ctx := context.Background()

	tournament := tournamentRepo.add(models.Tournament{Name: "Double Cup", Mode: "solo", Status: models.StatusLive})
	entries := []ResultEntry{{PlayerName: "PlayerA", Points: intPtr(30)}}

	require.NoError(t, svc.SubmitTournamentResults(ctx, tournament.ID, entries))

	err := svc.SubmitTournamentResults(ctx, tournament.ID, entries)
	assert.ErrorIs(t, err, ErrResultsAlreadyEntered)

	// Nothing double counted.
	results, listErr := resultRepo.ListByTournament(ctx, tournament.ID)
	require.NoError(t, listErr)
	assert.Len(t, results, 1)

	playerA, getErr := playerRepo.GetByName(ctx, nil, "PlayerA")
	require.NoError(t, getErr)
	assert.Equal(t, 30, playerA.TotalPoints)
}

func TestSubmitTournamentResults_MidBatchFailurePropagates(t *testing.T) {
	svc, resultRepo, _, tournamentRepo, _, _, notifier := newResultsFixture()
	ctx := context.Background()

	tournament := tournamentRepo.add(models.Tournament{Name: "Broken Cup", Mode: "solo", Status: models.StatusLive})
	resultRepo.failOn = "PlayerB"

	err := svc.SubmitTournamentResults(ctx, tournament.ID, []ResultEntry{
		{PlayerName: "PlayerA", Points: intPtr(10)},
		{PlayerName: "PlayerB", Points: intPtr(20)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStorageFailure)

	// The completion flip never ran and no live update went out.
	updated, getErr := tournamentRepo.GetByID(ctx, nil, tournament.ID)
	require.NoError(t, getErr)
	assert.False(t, updated.ResultsEntered)
	assert.Equal(t, 0, notifier.count())
}

func TestSubmitTournamentResults_LinksProfileByInGameName(t *testing.T) {
	svc, _, playerRepo, tournamentRepo, profileRepo, _, _ := newResultsFixture()
	ctx := context.Background()

	profile := &models.UserProfile{InGameName: "SniperQueen", Role: models.RoleMember, GameLevel: 120, IsPublic: true}
	require.NoError(t, profileRepo.Create(ctx, profile))

	tournament := tournamentRepo.add(models.Tournament{Name: "Link Cup", Mode: "solo", Status: models.StatusLive})
	require.NoError(t, svc.SubmitTournamentResults(ctx, tournament.ID, []ResultEntry{
		{PlayerName: "SniperQueen", Points: intPtr(60)},
		{PlayerName: "Anonymous", Points: intPtr(40)},
	}))

	linked, err := playerRepo.GetByName(ctx, nil, "SniperQueen")
	require.NoError(t, err)
	require.NotNil(t, linked.UserProfileID)
	assert.Equal(t, profile.ID, *linked.UserProfileID)

	unlinked, err := playerRepo.GetByName(ctx, nil, "Anonymous")
	require.NoError(t, err)
	assert.Nil(t, unlinked.UserProfileID)
}

func TestSubmitTournamentResults_DuplicateNameInBatchAccumulates(t *testing.T) {
	svc, resultRepo, playerRepo, tournamentRepo, _, _, _ := newResultsFixture()
	ctx := context.Background()

	tournament := tournamentRepo.add(models.Tournament{Name: "Repeat Cup", Mode: "solo", Status: models.StatusLive})
	require.NoError(t, svc.SubmitTournamentResults(ctx, tournament.ID, []ResultEntry{
		{PlayerName: "PlayerA", Points: intPtr(10)},
		{PlayerName: "PlayerA", Points: intPtr(15)},
	}))

	results, err := resultRepo.ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	playerA, err := playerRepo.GetByName(ctx, nil, "PlayerA")
	require.NoError(t, err)
	assert.Equal(t, 25, playerA.TotalPoints)
}

func TestListTournamentResults_UnknownTournament(t *testing.T) {
	svc, _, _, _, _, _, _ := newResultsFixture()

	_, err := svc.ListTournamentResults(context.Background(), 42)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
