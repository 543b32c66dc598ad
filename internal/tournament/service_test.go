// AngelaMos | 2026
// service_test.go

package tournament

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/tournament-backend/internal/core"
)

type memoryRepository struct {
	mu          sync.Mutex
	tournaments map[int64]*Tournament
	roster      []Membership
	nextID      int64
	users       map[int64]bool

	// hideRoster makes GetRoster return nothing, as if a concurrent
	// request inserted between the check and the insert.
	hideRoster bool
}

func newMemoryRepository(userIDs ...int64) *memoryRepository {
	users := map[int64]bool{}
	for _, id := range userIDs {
		users[id] = true
	}
	return &memoryRepository{
		tournaments: map[int64]*Tournament{},
		nextID:      1,
		users:       users,
	}
}

func (m *memoryRepository) Create(_ context.Context, fields NewTournament) (*Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &Tournament{
		ID:        m.nextID,
		Label:     fields.Label,
		Type:      fields.Type,
		Date:      fields.Date,
		Game:      fields.Game,
		Format:    fields.Format,
		Moderator: fields.Moderator,
		UserID:    fields.UserID,
	}
	m.tournaments[t.ID] = t
	m.nextID++

	clone := *t
	return &clone, nil
}

func (m *memoryRepository) FindAll(_ context.Context) ([]Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Tournament{}
	for _, t := range m.tournaments {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memoryRepository) FindByID(_ context.Context, id int64) (*Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tournaments[id]
	if !ok {
		return nil, fmt.Errorf("get tournament: %w", core.ErrNotFound)
	}
	clone := *t
	return &clone, nil
}

func (m *memoryRepository) Update(_ context.Context, patch Patch) (*Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tournaments[patch.ID]
	if !ok {
		return nil, fmt.Errorf("update tournament: %w", core.ErrNotFound)
	}
	if patch.Label != nil {
		t.Label = *patch.Label
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Game != nil {
		t.Game = *patch.Game
	}
	if patch.Format != nil {
		t.Format = *patch.Format
	}
	if patch.Moderator != nil {
		t.Moderator = *patch.Moderator
	}
	clone := *t
	return &clone, nil
}

func (m *memoryRepository) DeleteByID(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tournaments[id]; !ok {
		return 0, nil
	}
	delete(m.tournaments, id)

	kept := m.roster[:0]
	for _, r := range m.roster {
		if r.TournamentID != id {
			kept = append(kept, r)
		}
	}
	m.roster = kept
	return 1, nil
}

func (m *memoryRepository) GetRoster(_ context.Context, tournamentID int64) ([]Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Membership{}
	if m.hideRoster {
		return out, nil
	}
	for _, r := range m.roster {
		if r.TournamentID == tournamentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepository) AddMember(_ context.Context, tournamentID, userID int64) (*Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tournaments[tournamentID]; !ok || !m.users[userID] {
		return nil, fmt.Errorf("add member: %w", core.ErrNotFound)
	}
	for _, r := range m.roster {
		if r.TournamentID == tournamentID && r.UserID == userID {
			return nil, fmt.Errorf("add member: %w", core.ErrDuplicateKey)
		}
	}

	membership := Membership{TournamentID: tournamentID, UserID: userID}
	m.roster = append(m.roster, membership)
	return &membership, nil
}

func (m *memoryRepository) RemoveMember(_ context.Context, tournamentID, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, r := range m.roster {
		if r.TournamentID == tournamentID && r.UserID == userID {
			m.roster = append(m.roster[:i], m.roster[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memoryRepository) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return int64(len(m.tournaments)), nil
}

func sampleRequest() CreateTournamentRequest {
	return CreateTournamentRequest{
		Label:     "Spring Cup",
		Type:      "open",
		Date:      fixedTime,
		Game:      "chess",
		Format:    "swiss",
		Moderator: "grace",
	}
}

func conflictOf(t *testing.T, err error) *core.AppError {
	t.Helper()

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode)
	assert.ErrorIs(t, err, core.ErrConflict)
	return appErr
}

func TestAddMemberTwiceIsConflict(t *testing.T) {
	repo := newMemoryRepository(3)
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), core.Actor{ID: 3}, sampleRequest())
	require.NoError(t, err)

	_, err = svc.AddMember(context.Background(), core.Actor{ID: 3}, created.ID, 3)
	require.NoError(t, err)

	_, err = svc.AddMember(context.Background(), core.Actor{ID: 3}, created.ID, 3)
	appErr := conflictOf(t, err)
	assert.Contains(t, appErr.Message, "user 3")
	assert.Contains(t, appErr.Message, fmt.Sprintf("tournament %d", created.ID))

	roster, err := svc.Roster(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestAddMemberRaceFallsBackToConstraint(t *testing.T) {
	repo := newMemoryRepository(3)
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), core.Actor{ID: 3}, sampleRequest())
	require.NoError(t, err)

	_, err = svc.AddMember(context.Background(), core.Actor{ID: 3}, created.ID, 3)
	require.NoError(t, err)

	repo.hideRoster = true
	_, err = svc.AddMember(context.Background(), core.Actor{ID: 3}, created.ID, 3)
	conflictOf(t, err)
}

func TestAddMemberUnknownUser(t *testing.T) {
	svc := NewService(newMemoryRepository(3))

	created, err := svc.Create(context.Background(), core.Actor{ID: 3}, sampleRequest())
	require.NoError(t, err)

	_, err = svc.AddMember(context.Background(), core.Actor{ID: 3}, created.ID, 42)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateDefaultsCreatorToCaller(t *testing.T) {
	svc := NewService(newMemoryRepository(3, 4))

	created, err := svc.Create(context.Background(), core.Actor{ID: 3}, sampleRequest())
	require.NoError(t, err)
	assert.True(t, created.CreatedBy(3))

	req := sampleRequest()
	other := int64(4)
	req.UserID = &other

	_, err = svc.Create(context.Background(), core.Actor{ID: 3}, req)
	assert.ErrorIs(t, err, core.ErrForbidden)

	created, err = svc.Create(
		context.Background(),
		core.Actor{ID: 3, Role: core.RoleAdmin},
		req,
	)
	require.NoError(t, err)
	assert.True(t, created.CreatedBy(4))
}

func TestUpdateAndDeleteRequireCreatorOrAdmin(t *testing.T) {
	svc := NewService(newMemoryRepository(3, 4))

	created, err := svc.Create(context.Background(), core.Actor{ID: 3}, sampleRequest())
	require.NoError(t, err)

	label := "Summer Cup"
	patch := UpdateTournamentRequest{Label: &label}

	_, err = svc.Update(context.Background(), core.Actor{ID: 4}, created.ID, patch)
	assert.ErrorIs(t, err, core.ErrForbidden)

	updated, err := svc.Update(context.Background(), core.Actor{ID: 3}, created.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Summer Cup", updated.Label)
	assert.Equal(t, "chess", updated.Game)

	err = svc.Delete(context.Background(), core.Actor{ID: 4}, created.ID)
	assert.ErrorIs(t, err, core.ErrForbidden)

	err = svc.Delete(context.Background(), core.Actor{ID: 4, Role: core.RoleAdmin}, created.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRemoveMember(t *testing.T) {
	svc := NewService(newMemoryRepository(3))

	created, err := svc.Create(context.Background(), core.Actor{ID: 3}, sampleRequest())
	require.NoError(t, err)

	_, err = svc.AddMember(context.Background(), core.Actor{ID: 3}, created.ID, 3)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveMember(context.Background(), core.Actor{ID: 3}, created.ID, 3))
	assert.ErrorIs(t, svc.RemoveMember(context.Background(), core.Actor{ID: 3}, created.ID, 3), core.ErrNotFound)

	_, err = svc.AddMember(context.Background(), core.Actor{ID: 3}, created.ID, 3)
	assert.NoError(t, err)
}

func TestMembershipChangesNeedMemberCreatorOrAdmin(t *testing.T) {
	svc := NewService(newMemoryRepository(1, 2, 3))
	ctx := context.Background()

	created, err := svc.Create(ctx, core.Actor{ID: 1}, sampleRequest())
	require.NoError(t, err)

	stranger := core.Actor{ID: 3}

	_, err = svc.AddMember(ctx, stranger, created.ID, 2)
	assert.ErrorIs(t, err, core.ErrForbidden)

	_, err = svc.AddMember(ctx, core.Actor{ID: 2}, created.ID, 2)
	require.NoError(t, err)

	err = svc.RemoveMember(ctx, stranger, created.ID, 2)
	assert.ErrorIs(t, err, core.ErrForbidden)

	roster, err := svc.Roster(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)

	require.NoError(t, svc.RemoveMember(ctx, core.Actor{ID: 1}, created.ID, 2))

	_, err = svc.AddMember(ctx, core.Actor{ID: 3, Role: core.RoleAdmin}, created.ID, 2)
	require.NoError(t, err)
}

func TestMembershipOnUnknownTournament(t *testing.T) {
	svc := NewService(newMemoryRepository(3))

	_, err := svc.AddMember(context.Background(), core.Actor{ID: 3}, 99, 3)
	assert.ErrorIs(t, err, core.ErrNotFound)

	err = svc.RemoveMember(context.Background(), core.Actor{ID: 3}, 99, 3)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
