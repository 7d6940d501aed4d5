// Package service provides business logic implementations.
package service

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"shin-chat-bot/internal/repository"
)

// Reward engine constants.
const (
	// ClaimCooldownSeconds is the minimum gap between daily claims.
	ClaimCooldownSeconds = 24 * 3600

	// TransferTaxDivisor taxes transfers and thefts: the recipient is
	// credited round(amount/1.25), a 20% cut. The theft side of this
	// is a reconstruction of the intended rule, not a port.
	TransferTaxDivisor = 1.25
)

// Protection tiers purchasable with coins.
var protectTiers = map[string]struct {
	Days int
	Cost int64
}{
	"1d": {Days: 1, Cost: 200},
	"2d": {Days: 2, Cost: 700},
	"3d": {Days: 3, Cost: 2000},
}

// Reward engine errors.
var (
	ErrAlreadyClaimed      = errors.New("daily reward already claimed")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount: must be positive")
	ErrUnknownTier         = errors.New("unknown protection tier")
	ErrBotTarget           = errors.New("target is a bot")
	ErrSelfSteal           = errors.New("cannot steal from yourself")
	ErrTargetProtected     = errors.New("target is protected")
	ErrTargetExempt        = errors.New("target is exempt from theft")
	ErrTargetBroke         = errors.New("target has no coin")
)

// ClaimResult reports the outcome of a daily claim.
type ClaimResult struct {
	Amount      int64 // payout, zero when refused
	NewBalance  int64
	NextAllowed int64 // next eligible timestamp, set when refused
}

// RewardService implements the coin economy: daily claims with tiered
// random payouts, protection purchases, taxed transfers and thefts, and
// admin adjustments.
type RewardService struct {
	users     *repository.UserRepository
	exemptIDs map[int64]bool
	now       func() time.Time
	roll      func() float64 // uniform [0,100)
	randInt   func(lo, hi int64) int64
}

// NewRewardService creates a RewardService over the user ledger.
// exemptIDs lists users that can never be stolen from.
func NewRewardService(users *repository.UserRepository, exemptIDs []int64) *RewardService {
	exempt := make(map[int64]bool, len(exemptIDs))
	for _, id := range exemptIDs {
		exempt[id] = true
	}
	return &RewardService{
		users:     users,
		exemptIDs: exempt,
		now:       time.Now,
		roll:      func() float64 { return rand.Float64() * 100 },
		randInt: func(lo, hi int64) int64 {
			return lo + rand.Int63n(hi-lo+1)
		},
	}
}

// PayoutRange returns the inclusive payout bounds for a tier roll in
// [0,100). Tiers are inclusive at their lower bound and exclusive at
// their upper bound.
func PayoutRange(roll float64) (lo, hi int64) {
	switch {
	case roll < 60:
		return 1, 100
	case roll < 90:
		return 101, 500
	case roll < 95:
		return 501, 2000
	case roll < 99:
		return 2000, 10000
	default:
		return 10000, 50000
	}
}

// ClaimEligibility reports whether a claim at now is allowed given the
// last successful claim, and the next eligible timestamp when it is not.
func ClaimEligibility(lastClaim, now int64) (bool, int64) {
	if now-lastClaim < ClaimCooldownSeconds {
		return false, lastClaim + ClaimCooldownSeconds
	}
	return true, 0
}

// TaxedAmount returns the post-tax credit for a gross transfer amount.
func TaxedAmount(amount int64) int64 {
	return int64(math.Round(float64(amount) / TransferTaxDivisor))
}

// Claim attempts the daily claim for a user. Within the cooldown it
// returns ErrAlreadyClaimed with NextAllowed set; otherwise it draws a
// payout tier, credits the payout and stamps the claim time.
func (s *RewardService) Claim(userID int64) (ClaimResult, error) {
	rec := s.users.Ensure(userID)
	now := s.now().Unix()

	ok, next := ClaimEligibility(rec.LastClaim, now)
	if !ok {
		return ClaimResult{NextAllowed: next}, ErrAlreadyClaimed
	}

	lo, hi := PayoutRange(s.roll())
	amount := s.randInt(lo, hi)

	s.users.SetLastClaim(userID, now)
	balance := s.users.ChangeCoin(userID, amount)
	return ClaimResult{Amount: amount, NewBalance: balance}, nil
}

// ProtectTier returns the duration and cost of a protection tier.
func ProtectTier(tier string) (days int, cost int64, ok bool) {
	t, ok := protectTiers[tier]
	return t.Days, t.Cost, ok
}

// Protect buys time-boxed theft immunity. Returns the expiry timestamp
// and the remaining balance.
func (s *RewardService) Protect(userID int64, tier string) (until int64, balance int64, err error) {
	days, cost, ok := ProtectTier(tier)
	if !ok {
		return 0, 0, ErrUnknownTier
	}
	rec := s.users.Ensure(userID)
	if rec.Coin < cost {
		return 0, rec.Coin, ErrInsufficientBalance
	}
	balance = s.users.ChangeCoin(userID, -cost)
	until = s.users.SetProtection(userID, days)
	return until, balance, nil
}

// Transfer gifts coins to another user. The sender is debited the full
// amount; the recipient is credited the taxed amount. targetIsBot
// refuses gifts to automated accounts.
func (s *RewardService) Transfer(fromID, toID int64, amount int64, targetIsBot bool) (credited int64, senderBalance int64, err error) {
	if amount <= 0 {
		return 0, 0, ErrInvalidAmount
	}
	if targetIsBot {
		return 0, 0, ErrBotTarget
	}
	rec := s.users.Ensure(fromID)
	if rec.Coin < amount {
		return 0, rec.Coin, ErrInsufficientBalance
	}

	senderBalance = s.users.ChangeCoin(fromID, -amount)
	credited = TaxedAmount(amount)
	s.users.ChangeCoin(toID, credited)
	return credited, senderBalance, nil
}

// StealResult reports a successful theft.
type StealResult struct {
	Taken      int64 // debited from the target
	Credited   int64 // taxed amount credited to the actor
	NewBalance int64 // actor's new balance
}

// Steal takes up to amount coins from the target. Refused when the
// target is protected, exempt, broke, or the actor themselves. The
// actor receives the taxed amount of whatever was actually taken.
func (s *RewardService) Steal(actorID, targetID int64, amount int64) (StealResult, error) {
	if amount <= 0 {
		return StealResult{}, ErrInvalidAmount
	}
	if s.exemptIDs[targetID] {
		return StealResult{}, ErrTargetExempt
	}
	if targetID == actorID {
		return StealResult{}, ErrSelfSteal
	}
	if s.users.IsProtected(targetID) {
		return StealResult{}, ErrTargetProtected
	}

	target := s.users.Ensure(targetID)
	taken := amount
	if target.Coin < taken {
		taken = target.Coin
	}
	if taken <= 0 {
		return StealResult{}, ErrTargetBroke
	}

	s.users.ChangeCoin(targetID, -taken)
	credited := TaxedAmount(taken)
	balance := s.users.ChangeCoin(actorID, credited)
	return StealResult{Taken: taken, Credited: credited, NewBalance: balance}, nil
}

// AdminAdjust applies an arbitrary signed balance change, bypassing the
// economy rules. The caller is responsible for gating access.
func (s *RewardService) AdminAdjust(targetID int64, delta int64) int64 {
	return s.users.ChangeCoin(targetID, delta)
}

// Balance returns the user's current balance, creating the record if
// needed.
func (s *RewardService) Balance(userID int64) int64 {
	return s.users.Ensure(userID).Coin
}

// IsProtected reports whether the user's protection is active.
func (s *RewardService) IsProtected(userID int64) bool {
	return s.users.IsProtected(userID)
}
