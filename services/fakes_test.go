package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"github.com/Dosada05/ranked-hc/models"
	"github.com/Dosada05/ranked-hc/repositories"
	"github.com/Dosada05/ranked-hc/storage"
)

// memStore повторяет в памяти каскады из schema.sql.
type memStore struct {
	mu      sync.Mutex
	players map[string]models.Player
	teams   map[int]models.Team
	nextID  int
	calls   int
}

func newMemStore() *memStore {
	return &memStore{
		players: make(map[string]models.Player),
		teams:   make(map[int]models.Team),
		nextID:  1,
	}
}

type memSnapshot struct {
	players map[string]models.Player
	teams   map[int]models.Team
	nextID  int
}

func (m *memStore) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := memSnapshot{
		players: make(map[string]models.Player, len(m.players)),
		teams:   make(map[int]models.Team, len(m.teams)),
		nextID:  m.nextID,
	}
	for k, v := range m.players {
		snap.players[k] = v
	}
	for k, v := range m.teams {
		v.Roster = append([]string(nil), v.Roster...)
		snap.teams[k] = v
	}
	return snap
}

func (m *memStore) restore(snap memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players = snap.players
	m.teams = snap.teams
	m.nextID = snap.nextID
}

func (m *memStore) touch() {
	m.calls++
}

// addPlayer and addTeam seed state directly, bypassing the services.
func (m *memStore) addPlayer(abv string, r int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[abv] = models.Player{Abbreviation: abv, Rating: r}
}

func (m *memStore) addTeam(name string, r int, roster ...string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.teams[id] = models.Team{ID: id, Name: name, Rating: r, Roster: append([]string{}, roster...)}
	return id
}

func (m *memStore) team(id int) models.Team {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teams[id]
}

type memTransactor struct {
	store *memStore
}

func (t memTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	snap := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type memPlayers struct {
	*memStore
}

func (r memPlayers) List(ctx context.Context, exec repositories.SQLExecutor) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	out := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	// порядок намеренно не совпадает с таблицей
	sort.Slice(out, func(i, j int) bool { return out[i].Abbreviation > out[j].Abbreviation })
	return out, nil
}

func (r memPlayers) GetByAbbreviation(ctx context.Context, exec repositories.SQLExecutor, abv string) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	p, ok := r.players[abv]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (r memPlayers) Create(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	if _, ok := r.players[player.Abbreviation]; ok {
		return repositories.ErrPlayerConflict
	}
	r.players[player.Abbreviation] = *player
	return nil
}

func (r memPlayers) Upsert(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	r.players[player.Abbreviation] = *player
	return nil
}

func (r memPlayers) Update(ctx context.Context, exec repositories.SQLExecutor, abv string, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	if _, ok := r.players[abv]; !ok {
		return repositories.ErrPlayerNotFound
	}
	if player.Abbreviation != abv {
		if _, taken := r.players[player.Abbreviation]; taken {
			return repositories.ErrPlayerConflict
		}
		delete(r.players, abv)
		for id, t := range r.teams {
			for i, m := range t.Roster {
				if m == abv {
					t.Roster[i] = player.Abbreviation
				}
			}
			r.teams[id] = t
		}
	}
	r.players[player.Abbreviation] = *player
	return nil
}

func (r memPlayers) Delete(ctx context.Context, exec repositories.SQLExecutor, abv string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	if _, ok := r.players[abv]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, abv)
	return nil
}

type memTeams struct {
	*memStore
}

func (r memTeams) List(ctx context.Context, exec repositories.SQLExecutor) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	out := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		t.Roster = append([]string{}, t.Roster...)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTeams) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	t.Roster = append([]string{}, t.Roster...)
	return &t, nil
}

func (r memTeams) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	for _, t := range r.teams {
		if t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.nextID
	r.nextID++
	stored := *team
	stored.Roster = []string{}
	r.teams[team.ID] = stored
	return nil
}

func (r memTeams) Rename(ctx context.Context, exec repositories.SQLExecutor, id int, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	for otherID, other := range r.teams {
		if otherID != id && other.Name == name {
			return repositories.ErrTeamNameConflict
		}
	}
	t.Name = name
	r.teams[id] = t
	return nil
}

func (r memTeams) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r memTeams) ListMembers(ctx context.Context, exec repositories.SQLExecutor, teamID int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	return append([]string{}, r.teams[teamID].Roster...), nil
}

func (r memTeams) AddMember(ctx context.Context, exec repositories.SQLExecutor, teamID int, abv string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	t, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	if _, ok := r.players[abv]; !ok {
		return repositories.ErrPlayerNotFound
	}
	for _, m := range t.Roster {
		if m == abv {
			return repositories.ErrTeamMemberConflict
		}
	}
	t.Roster = append(t.Roster, abv)
	r.teams[teamID] = t
	return nil
}

func (r memTeams) RemoveMember(ctx context.Context, exec repositories.SQLExecutor, teamID int, abv string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	t := r.teams[teamID]
	for i, m := range t.Roster {
		if m == abv {
			t.Roster = append(t.Roster[:i:i], t.Roster[i+1:]...)
			r.teams[teamID] = t
			return nil
		}
	}
	return repositories.ErrTeamMemberNotFound
}

func (r memTeams) ClearMembers(ctx context.Context, exec repositories.SQLExecutor, teamID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	if t, ok := r.teams[teamID]; ok {
		t.Roster = []string{}
		r.teams[teamID] = t
	}
	return nil
}

func (r memTeams) ListTeamIDsByMember(ctx context.Context, exec repositories.SQLExecutor, abv string) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	return r.teamsWith(abv, false), nil
}

func (r memTeams) RemovePlayerFromAll(ctx context.Context, exec repositories.SQLExecutor, abv string) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	return r.teamsWith(abv, true), nil
}

func (r memTeams) teamsWith(abv string, remove bool) []int {
	ids := make([]int, 0)
	for id, t := range r.teams {
		for i, m := range t.Roster {
			if m != abv {
				continue
			}
			ids = append(ids, id)
			if remove {
				t.Roster = append(t.Roster[:i:i], t.Roster[i+1:]...)
				r.teams[id] = t
			}
			break
		}
	}
	sort.Ints(ids)
	return ids
}

func (r memTeams) SetRating(ctx context.Context, exec repositories.SQLExecutor, teamID int, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	t, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Rating = rating
	r.teams[teamID] = t
	return nil
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []interface{}
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, message)
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}

type memUploader struct {
	objects map[string][]byte
}

func (u *memUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	if u.objects == nil {
		u.objects = make(map[string][]byte)
	}
	u.objects[key] = buf.Bytes()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
