package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkcho/worldcup-backend/brackets"
	"github.com/mkcho/worldcup-backend/live"
	"github.com/mkcho/worldcup-backend/models"
)

type resultFixture struct {
	svc      ResultService
	shortID  string
	images   []models.Image
	results  *fakeResultRepo
	admitter *fakeAdmitter
	hub      *fakeBroadcaster

	otherImage models.Image // кандидат чужого турнира
}

func newResultFixture(t *testing.T) *resultFixture {
	t.Helper()
	ctx := context.Background()

	tournaments := newFakeTournamentRepo()
	imageRepo := &fakeImageRepo{}
	resolver := NewShortIDResolver(tournaments, testLogger())
	tournamentSvc := NewTournamentService(fakeTxRunner{}, tournaments, imageRepo, resolver, testLogger())

	created, err := tournamentSvc.Create(ctx, CreateWorldcupInput{
		Title:  "Snacks",
		Images: candidateInputs(brackets.SlotCount),
	})
	require.NoError(t, err)

	other, err := tournamentSvc.Create(ctx, CreateWorldcupInput{
		Title:  "Drinks",
		Images: candidateInputs(brackets.SlotCount),
	})
	require.NoError(t, err)

	images, err := imageRepo.ListByTournament(ctx, created.ID)
	require.NoError(t, err)
	otherImages, err := imageRepo.ListByTournament(ctx, other.ID)
	require.NoError(t, err)

	results := &fakeResultRepo{images: imageRepo}
	admitter := &fakeAdmitter{allow: true}
	hub := &fakeBroadcaster{}

	return &resultFixture{
		svc:        NewResultService(resolver, results, imageRepo, admitter, hub, testLogger()),
		shortID:    strconv.FormatInt(created.ShortID, 10),
		images:     images,
		results:    results,
		admitter:   admitter,
		hub:        hub,
		otherImage: otherImages[0],
	}
}

func TestSubmitResultHappyPath(t *testing.T) {
	f := newResultFixture(t)
	winner := f.images[7]

	result, err := f.svc.Submit(context.Background(), f.shortID, "203.0.113.7", SubmitResultInput{
		WinnerImageID: winner.ID.String(),
		WinnerName:    winner.Name,
	})
	require.NoError(t, err)

	assert.Equal(t, winner.ID, result.WinnerImageID)
	assert.Equal(t, winner.Name, result.WinnerName)
	require.NotNil(t, result.WinnerImageURL)
	assert.Equal(t, winner.ImageURL, *result.WinnerImageURL)

	// Лимитер видел ключ клиента, событие ушло в комнату турнира.
	assert.Equal(t, []string{"203.0.113.7"}, f.admitter.keys)
	require.Len(t, f.hub.events, 1)
	assert.Equal(t, live.EventResultSaved, f.hub.events[0].Type)
}

func TestSubmitResultValidatesWinner(t *testing.T) {
	f := newResultFixture(t)

	cases := []struct {
		name  string
		input SubmitResultInput
	}{
		{"missing id", SubmitResultInput{WinnerName: "x"}},
		{"malformed id", SubmitResultInput{WinnerImageID: "not-a-uuid", WinnerName: "x"}},
		{"blank name", SubmitResultInput{WinnerImageID: f.images[0].ID.String(), WinnerName: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Submit(context.Background(), f.shortID, "ip", tc.input)
			assert.ErrorIs(t, err, ErrWinnerRequired)
		})
	}

	// Валидация идёт до admission control: лимитер не тратится на мусор.
	assert.Empty(t, f.admitter.keys)
}

func TestSubmitResultRejectsForeignWinner(t *testing.T) {
	f := newResultFixture(t)

	// Существующая картинка, но из другого турнира.
	_, err := f.svc.Submit(context.Background(), f.shortID, "ip", SubmitResultInput{
		WinnerImageID: f.otherImage.ID.String(),
		WinnerName:    f.otherImage.Name,
	})
	assert.ErrorIs(t, err, ErrWinnerNotInTournament)

	// И вовсе несуществующая.
	_, err = f.svc.Submit(context.Background(), f.shortID, "ip", SubmitResultInput{
		WinnerImageID: uuid.NewString(),
		WinnerName:    "ghost",
	})
	assert.ErrorIs(t, err, ErrWinnerNotInTournament)

	assert.Empty(t, f.results.results)
}

func TestSubmitResultRateLimited(t *testing.T) {
	f := newResultFixture(t)
	f.admitter.allow = false

	_, err := f.svc.Submit(context.Background(), f.shortID, "ip", SubmitResultInput{
		WinnerImageID: f.images[0].ID.String(),
		WinnerName:    f.images[0].Name,
	})
	assert.ErrorIs(t, err, ErrRateLimited)

	assert.Empty(t, f.results.results, "rejected submission must not be stored")
	assert.Empty(t, f.hub.events)
}

func TestSubmitResultUnknownWorldcup(t *testing.T) {
	f := newResultFixture(t)

	_, err := f.svc.Submit(context.Background(), "777777", "ip", SubmitResultInput{
		WinnerImageID: f.images[0].ID.String(),
		WinnerName:    f.images[0].Name,
	})
	assert.ErrorIs(t, err, ErrWorldcupNotFound)
}

func TestGetLatestReturnsFreshestResult(t *testing.T) {
	f := newResultFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetLatest(ctx, f.shortID)
	assert.ErrorIs(t, err, ErrResultNotFound)

	first := f.images[0]
	second := f.images[1]
	_, err = f.svc.Submit(ctx, f.shortID, "ip", SubmitResultInput{WinnerImageID: first.ID.String(), WinnerName: first.Name})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.shortID, "ip", SubmitResultInput{WinnerImageID: second.ID.String(), WinnerName: second.Name})
	require.NoError(t, err)

	latest, err := f.svc.GetLatest(ctx, f.shortID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.WinnerImageID)
	require.NotNil(t, latest.WinnerImageURL)
	assert.Equal(t, second.ImageURL, *latest.WinnerImageURL)
}
