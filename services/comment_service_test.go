package services

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkcho/worldcup-backend/brackets"
	"github.com/mkcho/worldcup-backend/live"
	"github.com/mkcho/worldcup-backend/models"
)

type commentFixture struct {
	comments CommentService
	results  ResultService
	shortID  string
	images   []models.Image
	store    *fakeCommentRepo
	admitter *fakeAdmitter
	hub      *fakeBroadcaster
}

func newCommentFixture(t *testing.T) *commentFixture {
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

	images, err := imageRepo.ListByTournament(ctx, created.ID)
	require.NoError(t, err)

	resultRepo := &fakeResultRepo{images: imageRepo}
	store := &fakeCommentRepo{}
	admitter := &fakeAdmitter{allow: true}
	hub := &fakeBroadcaster{}

	limits := CommentLimits{MaxContentLength: 150, MaxNicknameLength: 10}

	return &commentFixture{
		comments: NewCommentService(resolver, store, resultRepo, admitter, limits, hub, testLogger()),
		results:  NewResultService(resolver, resultRepo, imageRepo, &fakeAdmitter{allow: true}, &fakeBroadcaster{}, testLogger()),
		shortID:  strconv.FormatInt(created.ShortID, 10),
		images:   images,
		store:    store,
		admitter: admitter,
		hub:      hub,
	}
}

func (f *commentFixture) submitResult(t *testing.T, winner models.Image) {
	t.Helper()
	_, err := f.results.Submit(context.Background(), f.shortID, "ip", SubmitResultInput{
		WinnerImageID: winner.ID.String(),
		WinnerName:    winner.Name,
	})
	require.NoError(t, err)
}

func TestSubmitCommentDefaultsNickname(t *testing.T) {
	f := newCommentFixture(t)

	comment, err := f.comments.Submit(context.Background(), f.shortID, "ip", SubmitCommentInput{
		Content: "  first!  ",
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultNickname, comment.Nickname)
	assert.Equal(t, "first!", comment.Content)

	require.Len(t, f.hub.events, 1)
	assert.Equal(t, live.EventCommentCreated, f.hub.events[0].Type)
}

func TestSubmitCommentValidation(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	_, err := f.comments.Submit(ctx, f.shortID, "ip", SubmitCommentInput{Content: "   "})
	assert.ErrorIs(t, err, ErrContentRequired)

	// Ровно на границе проходит, на символ больше — нет. Граница считается в
	// рунах, не в байтах.
	_, err = f.comments.Submit(ctx, f.shortID, "ip", SubmitCommentInput{Content: strings.Repeat("я", 150)})
	assert.NoError(t, err)
	_, err = f.comments.Submit(ctx, f.shortID, "ip", SubmitCommentInput{Content: strings.Repeat("я", 151)})
	assert.ErrorIs(t, err, ErrContentTooLong)

	// Длинный ник отклоняется, а не обрезается.
	_, err = f.comments.Submit(ctx, f.shortID, "ip", SubmitCommentInput{
		Nickname: "elevenchars",
		Content:  "hello",
	})
	assert.ErrorIs(t, err, ErrNicknameTooLong)

	require.Len(t, f.store.comments, 1, "rejected comments must not be stored")
}

func TestSubmitCommentRateLimited(t *testing.T) {
	f := newCommentFixture(t)
	f.admitter.allow = false

	_, err := f.comments.Submit(context.Background(), f.shortID, "ip", SubmitCommentInput{Content: "hi"})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Empty(t, f.store.comments)
}

func TestCommentSnapshotsCurrentWinner(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	// До первого результата снапшот пуст.
	before, err := f.comments.Submit(ctx, f.shortID, "ip", SubmitCommentInput{Content: "before any result"})
	require.NoError(t, err)
	assert.Nil(t, before.WinnerName)
	assert.Nil(t, before.WinnerImageURL)

	winner := f.images[3]
	f.submitResult(t, winner)

	after, err := f.comments.Submit(ctx, f.shortID, "ip", SubmitCommentInput{Content: "after the result"})
	require.NoError(t, err)
	require.NotNil(t, after.WinnerName)
	assert.Equal(t, winner.Name, *after.WinnerName)
	require.NotNil(t, after.WinnerImageURL)
	assert.Equal(t, winner.ImageURL, *after.WinnerImageURL)

	// Новый результат не переписывает старые снапшоты.
	f.submitResult(t, f.images[9])

	list, err := f.comments.List(ctx, f.shortID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Свежие первыми.
	assert.Equal(t, "after the result", list[0].Content)
	require.NotNil(t, list[0].WinnerName)
	assert.Equal(t, winner.Name, *list[0].WinnerName)
	assert.Nil(t, list[1].WinnerName)
}

func TestListCommentsUnknownWorldcup(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.comments.List(context.Background(), "31337")
	assert.ErrorIs(t, err, ErrWorldcupNotFound)
}
