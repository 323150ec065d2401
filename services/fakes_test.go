package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/grims-squad/clan-backend/models"
	"github.com/grims-squad/clan-backend/repositories"
	"github.com/grims-squad/clan-backend/storage"
)

// In-memory fakes standing in for the Postgres repositories. They ignore the
// SQLExecutor argument; the fake transaction manager below passes nil.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTxManager struct {
	began int
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	m.began++
	return fn(nil)
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	nextID  int
	players map[int]*models.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{nextID: 1, players: make(map[int]*models.Player)}
}

func (r *fakePlayerRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.players {
		if existing.PlayerName == p.PlayerName {
			return repositories.ErrPlayerNameConflict
		}
	}
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	clone := *p
	r.players[p.ID] = &clone
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakePlayerRepo) GetByName(ctx context.Context, exec repositories.SQLExecutor, name string) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.PlayerName == name {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) GetByProfileID(ctx context.Context, profileID int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.UserProfileID != nil && *p.UserProfileID == profileID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) AddPoints(ctx context.Context, exec repositories.SQLExecutor, name string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.PlayerName == name {
			p.TotalPoints += points
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) SetTotalPoints(ctx context.Context, exec repositories.SQLExecutor, id, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.TotalPoints = points
	p.UpdatedAt = time.Now()
	return nil
}

func (r *fakePlayerRepo) UpdateRank(ctx context.Context, exec repositories.SQLExecutor, id, rank int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.Rank = rank
	return nil
}

func (r *fakePlayerRepo) ListByTotalPoints(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	players := make([]*models.Player, 0, len(r.players))
	for _, p := range r.players {
		clone := *p
		players = append(players, &clone)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].TotalPoints != players[j].TotalPoints {
			return players[i].TotalPoints > players[j].TotalPoints
		}
		return players[i].PlayerName < players[j].PlayerName
	})
	return players, nil
}

func (r *fakePlayerRepo) ListByRank(ctx context.Context, limit int) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	players := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, *p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Rank < players[j].Rank })
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

type fakeResultRepo struct {
	mu      sync.Mutex
	nextID  int
	results []models.TournamentResult
	failOn  string // player name that triggers a storage failure
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{nextID: 1}
}

var errStorageFailure = repositories.ErrResultTournamentInvalid

func (r *fakeResultRepo) Create(ctx context.Context, exec repositories.SQLExecutor, result *models.TournamentResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != "" && result.PlayerName == r.failOn {
		return errStorageFailure
	}
	result.ID = r.nextID
	r.nextID++
	result.CreatedAt = time.Now()
	r.results = append(r.results, *result)
	return nil
}

func (r *fakeResultRepo) ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.TournamentResult, 0)
	for _, res := range r.results {
		if res.TournamentID == tournamentID {
			out = append(out, res)
		}
	}
	return out, nil
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	nextID      int
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{nextID: 1, tournaments: make(map[int]*models.Tournament)}
}

func (r *fakeTournamentRepo) add(t models.Tournament) *models.Tournament {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now()
	r.tournaments[t.ID] = &t
	return &t
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tournaments {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now()
	clone := *t
	r.tournaments[t.ID] = &clone
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Tournament, 0)
	for _, t := range r.tournaments {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) UpdateWinner(ctx context.Context, exec repositories.SQLExecutor, id int, winnerName *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.WinnerName = winnerName
	return nil
}

func (r *fakeTournamentRepo) MarkResultsEntered(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = models.StatusCompleted
	t.ResultsEntered = true
	return nil
}

func (r *fakeTournamentRepo) UpdateImageKey(ctx context.Context, id int, imageKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.ImageKey = imageKey
	return nil
}

func (r *fakeTournamentRepo) ListDueForStart(ctx context.Context, now time.Time) ([]*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Tournament, 0)
	for _, t := range r.tournaments {
		if t.Status == models.StatusUpcoming && !t.StartTime.After(now) {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	nextID   int
	profiles map[int]*models.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{nextID: 1, profiles: make(map[int]*models.UserProfile)}
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if existing.InGameName == p.InGameName {
			return repositories.ErrProfileNameConflict
		}
	}
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	clone := *p
	r.profiles[p.ID] = &clone
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id int) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProfileRepo) GetByInGameName(ctx context.Context, inGameName string) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.InGameName == inGameName {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (r *fakeProfileRepo) Update(ctx context.Context, p *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return repositories.ErrProfileNotFound
	}
	clone := *p
	r.profiles[p.ID] = &clone
	return nil
}

func (r *fakeProfileRepo) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.AvatarKey = avatarKey
	return nil
}

func (r *fakeProfileRepo) ListPublic(ctx context.Context) ([]models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.UserProfile, 0)
	for _, p := range r.profiles {
		if p.IsPublic {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InGameName < out[j].InGameName })
	return out, nil
}

type fakeStatsRepo struct {
	mu    sync.Mutex
	stats map[int]*models.PlayerStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{stats: make(map[int]*models.PlayerStats)}
}

func (r *fakeStatsRepo) GetByProfileID(ctx context.Context, profileID int) (*models.PlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stats[profileID]
	if !ok {
		return nil, repositories.ErrStatsNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *fakeStatsRepo) Upsert(ctx context.Context, stats *models.PlayerStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats.UpdatedAt = time.Now()
	clone := *stats
	r.stats[stats.ProfileID] = &clone
	return nil
}

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string]string // key -> content type
	deleted []string
	baseURL string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string]string), baseURL: "https://cdn.test/"}
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}
	u.objects[key] = contentType
	return &storage.UploadResult{Key: key, Location: u.baseURL + key}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return u.baseURL + key
}

type recordingNotifier struct {
	mu        sync.Mutex
	snapshots [][]models.Player
}

func (n *recordingNotifier) LeaderboardUpdated(players []models.Player) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.snapshots = append(n.snapshots, players)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.snapshots)
}
