package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/metrics"
	"github.com/example/sereno-rh/internal/persistence"
)

// RewardService manages the reward catalogue and point redemptions.
type RewardService struct {
	rewards     persistence.RewardRepository
	redemptions persistence.RedemptionRepository
	checkIns    persistence.CheckInRepository
	newRewardID IDGenerator
	newRedeemID IDGenerator
	now         func() time.Time
	logger      *slog.Logger
}

// NewRewardService wires dependencies for the reward service.
func NewRewardService(rewards persistence.RewardRepository, redemptions persistence.RedemptionRepository, checkIns persistence.CheckInRepository, newID IDGenerator, now func() time.Time, logger *slog.Logger) *RewardService {
	if now == nil {
		now = time.Now
	}
	return &RewardService{
		rewards:     rewards,
		redemptions: redemptions,
		checkIns:    checkIns,
		newRewardID: orDefaultID(newID, "rew"),
		newRedeemID: orDefaultID(newID, "red"),
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *RewardService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RewardService", operation, attrs...)
}

// CreateReward adds a reward to the catalogue. New rewards are active unless
// the input says otherwise.
func (s *RewardService) CreateReward(ctx context.Context, params CreateRewardParams) (reward entity.Reward, err error) {
	if s == nil {
		return entity.Reward{}, fmt.Errorf("RewardService is nil")
	}
	logger := s.loggerWith(ctx, "CreateReward", "principal_id", params.Principal.EmployeeID)
	defer func() { logOutcome(ctx, logger, err, "reward created", "reward_id", reward.ID) }()

	if !params.Principal.IsAdmin() {
		return entity.Reward{}, ErrUnauthorized
	}

	input := normalizeRewardInput(params.Input)
	if vErr := validateRewardInput(input); vErr.HasErrors() {
		return entity.Reward{}, vErr
	}

	reward = entity.Reward{
		ID:             s.newRewardID(),
		Name:           input.Name,
		Description:    input.Description,
		PointsRequired: input.PointsRequired,
		Active:         input.Active == nil || *input.Active,
	}
	if err = s.rewards.CreateReward(ctx, reward); err != nil {
		return entity.Reward{}, storeError(err)
	}
	return reward, nil
}

// UpdateReward replaces the editable fields of a reward. A nil Active keeps the current flag.
func (s *RewardService) UpdateReward(ctx context.Context, params UpdateRewardParams) (reward entity.Reward, err error) {
	if s == nil {
		return entity.Reward{}, fmt.Errorf("RewardService is nil")
	}
	logger := s.loggerWith(ctx, "UpdateReward", "principal_id", params.Principal.EmployeeID, "reward_id", params.RewardID)
	defer func() { logOutcome(ctx, logger, err, "reward updated") }()

	if !params.Principal.IsAdmin() {
		return entity.Reward{}, ErrUnauthorized
	}

	reward, err = s.rewards.GetReward(ctx, params.RewardID)
	if err != nil {
		return entity.Reward{}, storeError(err)
	}

	input := normalizeRewardInput(params.Input)
	if vErr := validateRewardInput(input); vErr.HasErrors() {
		return entity.Reward{}, vErr
	}

	reward.Name = input.Name
	reward.Description = input.Description
	reward.PointsRequired = input.PointsRequired
	if input.Active != nil {
		reward.Active = *input.Active
	}
	if err = s.rewards.UpdateReward(ctx, reward); err != nil {
		return entity.Reward{}, storeError(err)
	}
	return reward, nil
}

// ToggleReward flips the active flag of a reward.
func (s *RewardService) ToggleReward(ctx context.Context, principal Principal, rewardID string) (reward entity.Reward, err error) {
	if s == nil {
		return entity.Reward{}, fmt.Errorf("RewardService is nil")
	}
	logger := s.loggerWith(ctx, "ToggleReward", "principal_id", principal.EmployeeID, "reward_id", rewardID)
	defer func() { logOutcome(ctx, logger, err, "reward toggled", "active", reward.Active) }()

	if !principal.IsAdmin() {
		return entity.Reward{}, ErrUnauthorized
	}

	reward, err = s.rewards.GetReward(ctx, rewardID)
	if err != nil {
		return entity.Reward{}, storeError(err)
	}
	reward.Active = !reward.Active
	if err = s.rewards.UpdateReward(ctx, reward); err != nil {
		return entity.Reward{}, storeError(err)
	}
	return reward, nil
}

// DeleteReward removes a reward. Past redemptions keep their reward id.
func (s *RewardService) DeleteReward(ctx context.Context, principal Principal, rewardID string) (err error) {
	if s == nil {
		return fmt.Errorf("RewardService is nil")
	}
	logger := s.loggerWith(ctx, "DeleteReward", "principal_id", principal.EmployeeID, "reward_id", rewardID)
	defer func() { logOutcome(ctx, logger, err, "reward deleted") }()

	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	return storeError(s.rewards.DeleteReward(ctx, rewardID))
}

// ListRewards returns the catalogue as seen by the principal. Employees only
// see active rewards; administrators see every reward.
func (s *RewardService) ListRewards(ctx context.Context, principal Principal) (RewardCatalog, error) {
	if s == nil {
		return RewardCatalog{}, fmt.Errorf("RewardService is nil")
	}
	if principal.EmployeeID == "" {
		return RewardCatalog{}, ErrUnauthorized
	}

	balance, err := s.Balance(ctx, principal.EmployeeID)
	if err != nil {
		return RewardCatalog{}, err
	}
	rewards, err := s.rewards.ListRewards(ctx)
	if err != nil {
		return RewardCatalog{}, storeError(err)
	}

	catalog := RewardCatalog{Balance: balance, Rewards: make([]RewardView, 0, len(rewards))}
	for _, reward := range rewards {
		if !reward.Active && !principal.IsAdmin() {
			continue
		}
		view := RewardView{Reward: reward, Available: reward.Active && balance >= reward.PointsRequired}
		if missing := reward.PointsRequired - balance; missing > 0 {
			view.PointsMissing = missing
		}
		catalog.Rewards = append(catalog.Rewards, view)
	}
	return catalog, nil
}

// Balance returns the points earned by employeeID minus the points already redeemed.
func (s *RewardService) Balance(ctx context.Context, employeeID string) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("RewardService is nil")
	}
	records, err := s.checkIns.ListCheckIns(ctx, persistence.CheckInFilter{EmployeeIDs: []string{employeeID}})
	if err != nil {
		return 0, storeError(err)
	}
	redemptions, err := s.redemptions.ListRedemptions(ctx, employeeID)
	if err != nil {
		return 0, storeError(err)
	}
	return pointsBalance(records, redemptions), nil
}

// Redeem spends points of the principal on an active reward.
func (s *RewardService) Redeem(ctx context.Context, params RedeemParams) (result RedeemResult, err error) {
	if s == nil {
		return RedeemResult{}, fmt.Errorf("RewardService is nil")
	}
	logger := s.loggerWith(ctx, "Redeem", "principal_id", params.Principal.EmployeeID, "reward_id", params.RewardID)
	defer func() { logOutcome(ctx, logger, err, "reward redeemed", "balance", result.Balance) }()

	if params.Principal.EmployeeID == "" {
		return RedeemResult{}, ErrUnauthorized
	}

	reward, err := s.rewards.GetReward(ctx, params.RewardID)
	if err != nil {
		return RedeemResult{}, storeError(err)
	}
	if !reward.Active {
		return RedeemResult{}, ErrNotFound
	}

	balance, err := s.Balance(ctx, params.Principal.EmployeeID)
	if err != nil {
		return RedeemResult{}, err
	}
	if balance < reward.PointsRequired {
		return RedeemResult{}, fmt.Errorf("%w: %d of %d", ErrInsufficientPoints, balance, reward.PointsRequired)
	}

	redemption := entity.Redemption{
		ID:         s.newRedeemID(),
		EmployeeID: params.Principal.EmployeeID,
		RewardID:   reward.ID,
		Points:     reward.PointsRequired,
		RedeemedAt: s.now().UTC(),
	}
	if err = s.redemptions.CreateRedemption(ctx, redemption); err != nil {
		return RedeemResult{}, storeError(err)
	}
	return RedeemResult{Redemption: redemption, Balance: balance - reward.PointsRequired}, nil
}

func pointsBalance(records []entity.CheckIn, redemptions []entity.Redemption) int {
	balance := metrics.Points(records)
	for _, r := range redemptions {
		balance -= r.Points
	}
	return balance
}

func normalizeRewardInput(input RewardInput) RewardInput {
	input.Name = strings.Join(strings.Fields(input.Name), " ")
	input.Description = strings.TrimSpace(input.Description)
	return input
}

func validateRewardInput(input RewardInput) *ValidationError {
	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.PointsRequired < 0 {
		vErr.add("points_required", "points required cannot be negative")
	}
	return vErr
}
