package services

import (
	"context"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkcho/worldcup-backend/brackets"
	"github.com/mkcho/worldcup-backend/models"
)

// Полный путь зрителя: создание турнира, загрузка сетки, прохождение до финала,
// отправка результата и чтение его обратно.
func TestGameFlowEndToEnd(t *testing.T) {
	ctx := context.Background()

	tournaments := newFakeTournamentRepo()
	imageRepo := &fakeImageRepo{}
	resultRepo := &fakeResultRepo{images: imageRepo}
	resolver := NewShortIDResolver(tournaments, testLogger())

	tournamentSvc := NewTournamentService(fakeTxRunner{}, tournaments, imageRepo, resolver, testLogger())
	resultSvc := NewResultService(resolver, resultRepo, imageRepo, &fakeAdmitter{allow: true}, &fakeBroadcaster{}, testLogger())

	created, err := tournamentSvc.Create(ctx, CreateWorldcupInput{
		Title:  "Snacks",
		Images: candidateInputs(brackets.SlotCount),
	})
	require.NoError(t, err)
	shortID := strconv.FormatInt(created.ShortID, 10)

	payload, err := tournamentSvc.GetGamePayload(ctx, shortID)
	require.NoError(t, err)
	require.Len(t, payload.Images, brackets.SlotCount)

	engine, err := brackets.New(payload.Images, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	winner, picks, err := brackets.Run(engine, func(left, right models.Image) int {
		if left.Name < right.Name {
			return 0
		}
		return 1
	})
	require.NoError(t, err)
	assert.Equal(t, brackets.SlotCount-1, picks)

	// Лексикографически наименьшее имя выигрывает каждую пару, так что исход
	// не зависит от посева.
	assert.Equal(t, "candidate-0", winner.Name)
	assert.Equal(t, created.ID, winner.TournamentID)

	submitted, err := resultSvc.Submit(ctx, shortID, "198.51.100.4", SubmitResultInput{
		WinnerImageID: winner.ID.String(),
		WinnerName:    winner.Name,
	})
	require.NoError(t, err)

	latest, err := resultSvc.GetLatest(ctx, shortID)
	require.NoError(t, err)
	assert.Equal(t, submitted.ID, latest.ID)
	assert.Equal(t, winner.ID, latest.WinnerImageID)
	assert.Equal(t, winner.Name, latest.WinnerName)
	require.NotNil(t, latest.WinnerImageURL)
	assert.Equal(t, winner.ImageURL, *latest.WinnerImageURL)
}
