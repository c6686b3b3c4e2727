package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkcho/worldcup-backend/auth"
	"github.com/mkcho/worldcup-backend/live"
	"github.com/mkcho/worldcup-backend/models"
	"github.com/mkcho/worldcup-backend/repositories"
)

// In-memory заглушки репозиториев для сервисных тестов: честная семантика
// (ошибки "not found", порядок сортировки) без базы.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	nextShortID int64
	byID        map[uuid.UUID]*models.Tournament
	byShortID   map[int64]uuid.UUID
	lookupErr   error // подменяет ответ GetIDByShortID, когда не nil
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{
		nextShortID: 100,
		byID:        make(map[uuid.UUID]*models.Tournament),
		byShortID:   make(map[int64]uuid.UUID),
	}
}

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = uuid.New()
	r.nextShortID++
	t.ShortID = r.nextShortID
	t.CreatedAt = time.Now()

	stored := *t
	r.byID[t.ID] = &stored
	r.byShortID[t.ShortID] = t.ID
	return nil
}

func (r *fakeTournamentRepo) GetIDByShortID(_ context.Context, shortID int64) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lookupErr != nil {
		return uuid.Nil, r.lookupErr
	}
	id, ok := r.byShortID[shortID]
	if !ok {
		return uuid.Nil, repositories.ErrTournamentNotFound
	}
	return id, nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTournamentRepo) List(_ context.Context) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tournaments := make([]models.Tournament, 0, len(r.byID))
	for _, t := range r.byID {
		tournaments = append(tournaments, *t)
	}
	return tournaments, nil
}

type fakeImageRepo struct {
	mu     sync.Mutex
	images []models.Image
}

func (r *fakeImageRepo) CreateBatch(_ context.Context, _ repositories.SQLExecutor, images []models.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, img := range images {
		img.ID = uuid.New()
		img.CreatedAt = time.Now()
		r.images = append(r.images, img)
	}
	return nil
}

func (r *fakeImageRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, img := range r.images {
		if img.ID == id {
			copied := img
			return &copied, nil
		}
	}
	return nil, repositories.ErrImageNotFound
}

func (r *fakeImageRepo) ListByTournament(_ context.Context, tournamentID uuid.UUID) ([]models.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Порядок вставки, как в настоящем репозитории.
	images := make([]models.Image, 0)
	for _, img := range r.images {
		if img.TournamentID == tournamentID {
			images = append(images, img)
		}
	}
	return images, nil
}

func (r *fakeImageRepo) ListThumbnailURLs(_ context.Context, tournamentID uuid.UUID, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	urls := make([]string, 0, limit)
	for _, img := range r.images {
		if img.TournamentID != tournamentID {
			continue
		}
		urls = append(urls, img.ImageURL)
		if len(urls) == limit {
			break
		}
	}
	return urls, nil
}

type fakeResultRepo struct {
	mu        sync.Mutex
	results   []models.Result
	images    *fakeImageRepo
	createErr error
}

func (r *fakeResultRepo) Create(_ context.Context, result *models.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	result.ID = uuid.New()
	result.CreatedAt = time.Now()
	r.results = append(r.results, *result)
	return nil
}

func (r *fakeResultRepo) GetLatestByTournament(ctx context.Context, tournamentID uuid.UUID) (*models.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.results) - 1; i >= 0; i-- {
		if r.results[i].TournamentID != tournamentID {
			continue
		}
		latest := r.results[i]
		if r.images != nil {
			if img, err := r.images.GetByID(ctx, latest.WinnerImageID); err == nil {
				latest.WinnerImageURL = &img.ImageURL
			}
		}
		return &latest, nil
	}
	return nil, repositories.ErrResultNotFound
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []models.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	r.comments = append(r.comments, *c)
	return nil
}

func (r *fakeCommentRepo) ListByTournament(_ context.Context, tournamentID uuid.UUID) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Свежие первыми.
	comments := make([]models.Comment, 0)
	for i := len(r.comments) - 1; i >= 0; i-- {
		if r.comments[i].TournamentID == tournamentID {
			comments = append(comments, r.comments[i])
		}
	}
	return comments, nil
}

// fakeTxRunner выполняет функцию без транзакции: заглушки репозиториев всё
// равно не различают executor-ы.
type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeAdmitter struct {
	allow bool
	keys  []string
}

func (a *fakeAdmitter) Allow(key string) bool {
	a.keys = append(a.keys, key)
	return a.allow
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	rooms  []string
	events []live.Event
}

func (b *fakeBroadcaster) BroadcastToRoom(room string, event live.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, room)
	b.events = append(b.events, event)
}

type fakeVerifier struct {
	identity auth.Identity
	err      error
}

func (v *fakeVerifier) Verify(_ context.Context, _ string) (auth.Identity, error) {
	if v.err != nil {
		return auth.Identity{}, v.err
	}
	return v.identity, nil
}
