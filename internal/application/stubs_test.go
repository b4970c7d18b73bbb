package application

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/persistence"
)

var (
	adminPrincipal    = Principal{EmployeeID: "emp-admin", Role: entity.RoleAdmin}
	employeePrincipal = Principal{EmployeeID: "emp-1", Role: entity.RoleEmployee}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

// plainHasher stores secrets with a recognizable prefix so tests avoid argon2 cost.
func plainHasher(secret string) (string, error) {
	return "plain:" + secret, nil
}

func plainVerifier(hash, secret string) error {
	if hash != "plain:"+secret {
		return ErrInvalidCredentials
	}
	return nil
}

// memoryStore implements every persistence interface in memory for tests.
type memoryStore struct {
	employees   map[string]entity.Employee
	checkIns    map[entity.CheckInKey]entity.CheckIn
	rewards     map[string]entity.Reward
	goals       map[string]entity.Goal
	credentials map[string]entity.Credential
	redemptions []entity.Redemption
	initialized map[string]bool

	err         error
	snapshotErr error
	putCredErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		employees:   make(map[string]entity.Employee),
		checkIns:    make(map[entity.CheckInKey]entity.CheckIn),
		rewards:     make(map[string]entity.Reward),
		goals:       make(map[string]entity.Goal),
		credentials: make(map[string]entity.Credential),
		initialized: make(map[string]bool),
	}
}

func (m *memoryStore) withEmployees(employees ...entity.Employee) *memoryStore {
	for _, e := range employees {
		m.employees[e.ID] = e
	}
	return m
}

func (m *memoryStore) withCheckIns(records ...entity.CheckIn) *memoryStore {
	for _, r := range records {
		m.checkIns[r.Key()] = r
	}
	return m
}

func (m *memoryStore) CreateEmployee(ctx context.Context, employee entity.Employee) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.employees[employee.ID]; ok {
		return persistence.ErrAlreadyExists
	}
	for _, existing := range m.employees {
		if strings.EqualFold(existing.Email, employee.Email) {
			return persistence.ErrAlreadyExists
		}
	}
	m.employees[employee.ID] = employee
	return nil
}

func (m *memoryStore) UpdateEmployee(ctx context.Context, employee entity.Employee) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.employees[employee.ID]; !ok {
		return persistence.ErrNotFound
	}
	for _, existing := range m.employees {
		if existing.ID != employee.ID && strings.EqualFold(existing.Email, employee.Email) {
			return persistence.ErrAlreadyExists
		}
	}
	m.employees[employee.ID] = employee
	return nil
}

func (m *memoryStore) GetEmployee(ctx context.Context, id string) (entity.Employee, error) {
	if m.err != nil {
		return entity.Employee{}, m.err
	}
	e, ok := m.employees[id]
	if !ok {
		return entity.Employee{}, persistence.ErrNotFound
	}
	return e, nil
}

func (m *memoryStore) GetEmployeeByEmail(ctx context.Context, email string) (entity.Employee, error) {
	if m.err != nil {
		return entity.Employee{}, m.err
	}
	for _, e := range m.employees {
		if strings.EqualFold(e.Email, email) {
			return e, nil
		}
	}
	return entity.Employee{}, persistence.ErrNotFound
}

func (m *memoryStore) ListEmployees(ctx context.Context) ([]entity.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entity.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) DeleteEmployee(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.employees[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.employees, id)
	delete(m.credentials, id)
	for key := range m.checkIns {
		if key.EmployeeID == id {
			delete(m.checkIns, key)
		}
	}
	return nil
}

func (m *memoryStore) CreateCheckIn(ctx context.Context, checkIn entity.CheckIn) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.checkIns[checkIn.Key()]; ok {
		return persistence.ErrAlreadyExists
	}
	if _, ok := m.employees[checkIn.EmployeeID]; !ok {
		return persistence.ErrConstraintViolation
	}
	m.checkIns[checkIn.Key()] = checkIn
	return nil
}

func (m *memoryStore) UpdateCheckIn(ctx context.Context, checkIn entity.CheckIn) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.checkIns[checkIn.Key()]; !ok {
		return persistence.ErrNotFound
	}
	m.checkIns[checkIn.Key()] = checkIn
	return nil
}

func (m *memoryStore) GetCheckIn(ctx context.Context, employeeID, date string) (entity.CheckIn, error) {
	if m.err != nil {
		return entity.CheckIn{}, m.err
	}
	c, ok := m.checkIns[entity.CheckInKey{EmployeeID: employeeID, Date: date}]
	if !ok {
		return entity.CheckIn{}, persistence.ErrNotFound
	}
	return c, nil
}

func (m *memoryStore) ListCheckIns(ctx context.Context, filter persistence.CheckInFilter) ([]entity.CheckIn, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids := make(map[string]bool, len(filter.EmployeeIDs))
	for _, id := range filter.EmployeeIDs {
		ids[id] = true
	}
	out := make([]entity.CheckIn, 0)
	for _, c := range m.checkIns {
		if len(ids) > 0 && !ids[c.EmployeeID] {
			continue
		}
		if filter.From != "" && c.Date < filter.From {
			continue
		}
		if filter.To != "" && c.Date > filter.To {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}

func (m *memoryStore) CreateReward(ctx context.Context, reward entity.Reward) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rewards[reward.ID]; ok {
		return persistence.ErrAlreadyExists
	}
	m.rewards[reward.ID] = reward
	return nil
}

func (m *memoryStore) UpdateReward(ctx context.Context, reward entity.Reward) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rewards[reward.ID]; !ok {
		return persistence.ErrNotFound
	}
	m.rewards[reward.ID] = reward
	return nil
}

func (m *memoryStore) GetReward(ctx context.Context, id string) (entity.Reward, error) {
	if m.err != nil {
		return entity.Reward{}, m.err
	}
	r, ok := m.rewards[id]
	if !ok {
		return entity.Reward{}, persistence.ErrNotFound
	}
	return r, nil
}

func (m *memoryStore) ListRewards(ctx context.Context) ([]entity.Reward, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entity.Reward, 0, len(m.rewards))
	for _, r := range m.rewards {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PointsRequired == out[j].PointsRequired {
			return out[i].ID < out[j].ID
		}
		return out[i].PointsRequired < out[j].PointsRequired
	})
	return out, nil
}

func (m *memoryStore) DeleteReward(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rewards[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.rewards, id)
	return nil
}

func (m *memoryStore) CreateGoal(ctx context.Context, goal entity.Goal) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.goals[goal.ID]; ok {
		return persistence.ErrAlreadyExists
	}
	m.goals[goal.ID] = goal
	return nil
}

func (m *memoryStore) UpdateGoal(ctx context.Context, goal entity.Goal) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.goals[goal.ID]; !ok {
		return persistence.ErrNotFound
	}
	m.goals[goal.ID] = goal
	return nil
}

func (m *memoryStore) GetGoal(ctx context.Context, id string) (entity.Goal, error) {
	if m.err != nil {
		return entity.Goal{}, m.err
	}
	g, ok := m.goals[id]
	if !ok {
		return entity.Goal{}, persistence.ErrNotFound
	}
	return g, nil
}

func (m *memoryStore) ListGoals(ctx context.Context, filter persistence.GoalFilter) ([]entity.Goal, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entity.Goal, 0)
	for _, g := range m.goals {
		if filter.EmployeeID != "" && g.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Month != "" && g.Month != filter.Month {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month == out[j].Month {
			return out[i].ID < out[j].ID
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (m *memoryStore) DeleteGoal(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.goals[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.goals, id)
	return nil
}

func (m *memoryStore) PutCredential(ctx context.Context, credential entity.Credential) error {
	if m.putCredErr != nil {
		return m.putCredErr
	}
	if m.err != nil {
		return m.err
	}
	m.credentials[credential.EmployeeID] = credential
	return nil
}

func (m *memoryStore) GetCredential(ctx context.Context, employeeID string) (entity.Credential, error) {
	if m.err != nil {
		return entity.Credential{}, m.err
	}
	c, ok := m.credentials[employeeID]
	if !ok {
		return entity.Credential{}, persistence.ErrNotFound
	}
	return c, nil
}

func (m *memoryStore) DeleteCredential(ctx context.Context, employeeID string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.credentials, employeeID)
	return nil
}

func (m *memoryStore) CreateRedemption(ctx context.Context, redemption entity.Redemption) error {
	if m.err != nil {
		return m.err
	}
	m.redemptions = append(m.redemptions, redemption)
	return nil
}

func (m *memoryStore) ListRedemptions(ctx context.Context, employeeID string) ([]entity.Redemption, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entity.Redemption, 0)
	for _, r := range m.redemptions {
		if employeeID == "" || r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryStore) IsInitialized(ctx context.Context, name string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.initialized[name], nil
}

func (m *memoryStore) MarkInitialized(ctx context.Context, name string) error {
	if m.err != nil {
		return m.err
	}
	m.initialized[name] = true
	return nil
}

func (m *memoryStore) Snapshot(ctx context.Context) (entity.Snapshot, error) {
	if m.snapshotErr != nil {
		return entity.Snapshot{}, m.snapshotErr
	}
	employees, _ := m.ListEmployees(ctx)
	checkIns, _ := m.ListCheckIns(ctx, persistence.CheckInFilter{})
	rewards, _ := m.ListRewards(ctx)
	goals, _ := m.ListGoals(ctx, persistence.GoalFilter{})
	redemptions, _ := m.ListRedemptions(ctx, "")
	return entity.Snapshot{
		Employees:   employees,
		CheckIns:    checkIns,
		Rewards:     rewards,
		Goals:       goals,
		Redemptions: redemptions,
	}, nil
}
