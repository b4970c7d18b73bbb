package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/sereno-rh/internal/application"
	"github.com/example/sereno-rh/internal/metrics"
	"github.com/example/sereno-rh/internal/persistence"
)

// CheapArgon2idParams keeps secret hashing fast in tests.
var CheapArgon2idParams = application.Argon2idParams{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  8,
	KeyLength:   16,
}

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Location    *time.Location
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		Location:    time.UTC,
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	if factory.Location == nil {
		factory.Location = time.UTC
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithLocation overrides the calendar location used by the factory.
func WithLocation(loc *time.Location) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Location = loc
	}
}

// Hasher returns a fast argon2id hasher.
func (f *ServiceFactory) Hasher() application.SecretHasher {
	return application.NewSecretHasher(CheapArgon2idParams)
}

// Engine returns a metrics engine driven by the factory clock.
func (f *ServiceFactory) Engine() *metrics.Engine {
	return metrics.NewEngine(f.Clock.NowFunc(), f.Location)
}

// NewEmployeeService builds an employee service over the given repositories.
func (f *ServiceFactory) NewEmployeeService(employees persistence.EmployeeRepository, credentials persistence.CredentialRepository) *application.EmployeeService {
	return application.NewEmployeeService(employees, credentials, f.IDGenerator.NextFunc(), f.Hasher(), f.Logger)
}

// NewAttendanceService builds an attendance service driven by the factory clock.
func (f *ServiceFactory) NewAttendanceService(checkIns persistence.CheckInRepository, employees persistence.EmployeeRepository) *application.AttendanceService {
	return application.NewAttendanceService(checkIns, employees, f.Clock.NowFunc(), f.Location, f.Logger)
}

// NewRewardService builds a reward service.
func (f *ServiceFactory) NewRewardService(rewards persistence.RewardRepository, redemptions persistence.RedemptionRepository, checkIns persistence.CheckInRepository) *application.RewardService {
	return application.NewRewardService(rewards, redemptions, checkIns, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Logger)
}

// NewGoalService builds a goal service.
func (f *ServiceFactory) NewGoalService(goals persistence.GoalRepository, employees persistence.EmployeeRepository) *application.GoalService {
	return application.NewGoalService(goals, employees, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Location, f.Logger)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Employees   persistence.EmployeeRepository
	Credentials persistence.CredentialRepository
	Secret      []byte
	SessionTTL  time.Duration
}

// NewAuthService builds an auth service verifying argon2id hashes.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	secret := deps.Secret
	if len(secret) == 0 {
		secret = []byte("testfixtures-session-secret")
	}
	return application.NewAuthService(deps.Employees, deps.Credentials, application.VerifySecret, secret, deps.SessionTTL, f.Clock.NowFunc(), f.Logger)
}

// NewDashboardService builds a dashboard service over a snapshot reader.
func (f *ServiceFactory) NewDashboardService(store persistence.SnapshotReader) *application.DashboardService {
	return application.NewDashboardService(store, f.Engine(), f.Logger)
}

// NewSeeder builds a seeder hashing with the fast parameters.
func (f *ServiceFactory) NewSeeder(store application.SeedStore) *application.Seeder {
	return application.NewSeeder(store, f.Hasher(), f.Logger)
}
