package services

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"time"

	"bankroll/internal/interfaces"
	"bankroll/internal/models"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
)

type ServiceRain struct {
	container *do.Injector
	rs        *redsync.Redsync
	store     interfaces.DistributionStore
	presence  interfaces.Presence
	publisher interfaces.EventPublisher
	random    interfaces.Random
	logger    *slog.Logger

	serviceLedger *ServiceLedger
}

func NewServiceRain(container *do.Injector) (*ServiceRain, error) {
	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	store, err := do.Invoke[interfaces.DistributionStore](container)
	if err != nil {
		return nil, err
	}

	presence, err := do.Invoke[interfaces.Presence](container)
	if err != nil {
		return nil, err
	}

	publisher, err := do.Invoke[interfaces.EventPublisher](container)
	if err != nil {
		return nil, err
	}

	random, err := do.Invoke[interfaces.Random](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*slog.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceLedger, err := do.Invoke[*ServiceLedger](container)
	if err != nil {
		return nil, err
	}

	return &ServiceRain{container, rs, store, presence, publisher, random, logger, serviceLedger}, nil
}

// SplitDistribution gives every recipient one unit when the pool allows it,
// then hands out the remainder one unit at a time to uniformly drawn
// recipients. Shares keep the order of recipients.
func SplitDistribution(total int64, recipients []int64, random interfaces.Random) []models.DistributionShare {
	shares := make([]models.DistributionShare, len(recipients))
	for i, id := range recipients {
		shares[i].AccountID = id
	}
	if len(recipients) == 0 || total <= 0 {
		return shares
	}

	pool := total
	if total >= int64(len(recipients)) {
		for i := range shares {
			shares[i].Amount = 1
		}
		pool -= int64(len(recipients))
	}

	for ; pool > 0; pool-- {
		shares[random.Intn(len(shares))].Amount++
	}
	return shares
}

// RequestDistribution escrows amount from the sender and either runs the
// rain now or schedules it for the sweep. Only a member of scope may rain
// into it.
func (service *ServiceRain) RequestDistribution(ctx context.Context, senderID, amount int64, delay time.Duration, scope string) (*models.DistributionResult, error) {
	if !slices.Contains(RainTiers, amount) {
		return nil, errorx.Wrap(ErrInvalidTier, errorx.Validation)
	}
	if !slices.Contains(RainDelays, delay) {
		return nil, errorx.Wrap(ErrInvalidDelay, errorx.Validation)
	}
	if senderID == models.BANK_ID {
		return nil, errorx.Wrap(ErrInvalidRecipient, errorx.Validation)
	}

	members, err := service.presence.ScopeMembers(ctx, scope)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(members, senderID) {
		return nil, errorx.Wrap(ErrNotInScope, errorx.Invalid)
	}

	result := &models.DistributionResult{
		ID:       uuid.New(),
		SenderID: senderID,
		Amount:   amount,
		Scope:    scope,
	}

	ok, err := service.serviceLedger.Transfer(ctx, senderID, models.BANK_ID, amount, models.TxKindRainEscrow)
	if err != nil {
		return nil, err
	}
	if !ok {
		result.Outcome = models.OutcomeInsufficientFunds
		return result, nil
	}

	pending := &models.PendingDistribution{
		ID:          result.ID,
		SenderID:    senderID,
		TotalAmount: amount,
		Scope:       scope,
		DueTime:     time.Now().UTC().Add(delay),
		CreatedAt:   time.Now().UTC(),
	}

	if delay == 0 {
		result, err := service.execute(ctx, pending)
		if err != nil {
			service.refundUnpaid(ctx, pending, result)
			return nil, err
		}
		return result, nil
	}

	if err := service.store.InsertPendingDistribution(ctx, pending); err != nil {
		// the escrow already moved; hand it back rather than strand it
		if _, refundErr := service.serviceLedger.Payout(ctx, senderID, amount, models.TxKindRainRefund); refundErr != nil {
			service.logger.Error("refund after failed schedule", "distribution_id", pending.ID, "error", refundErr)
		}
		return nil, err
	}

	result.Outcome = models.OutcomeScheduled
	result.DueTime = &pending.DueTime
	return result, nil
}

func (service *ServiceRain) execute(ctx context.Context, pending *models.PendingDistribution) (*models.DistributionResult, error) {
	result := &models.DistributionResult{
		ID:       pending.ID,
		SenderID: pending.SenderID,
		Amount:   pending.TotalAmount,
		Scope:    pending.Scope,
	}

	members, err := service.presence.ScopeMembers(ctx, pending.Scope)
	if err != nil {
		return result, err
	}

	recipients := make([]int64, 0, len(members))
	for _, id := range members {
		if id == pending.SenderID || id == models.BANK_ID || slices.Contains(recipients, id) {
			continue
		}
		recipients = append(recipients, id)
	}

	if len(recipients) == 0 {
		ok, err := service.serviceLedger.Payout(ctx, pending.SenderID, pending.TotalAmount, models.TxKindRainRefund)
		if err != nil {
			return result, err
		}
		if !ok {
			service.logger.Error("rain refund failed", "distribution_id", pending.ID, "sender_id", pending.SenderID)
			result.Outcome = models.OutcomeBankInsolvent
			return result, nil
		}
		result.Outcome = models.OutcomeRefunded
		return result, nil
	}

	shares := SplitDistribution(pending.TotalAmount, recipients, service.random)
	result.Shares = shares
	for i := range shares {
		if shares[i].Amount == 0 {
			continue
		}
		ok, err := service.serviceLedger.Payout(ctx, shares[i].AccountID, shares[i].Amount, models.TxKindRain)
		if err != nil {
			return result, err
		}
		if !ok {
			service.logger.Error("rain share payout failed", "distribution_id", pending.ID, "account_id", shares[i].AccountID, "amount", shares[i].Amount)
			continue
		}
		shares[i].Paid = true
	}

	sort.SliceStable(shares, func(i, j int) bool { return shares[i].Amount > shares[j].Amount })
	result.Outcome = models.OutcomeExecuted
	return result, nil
}

// refundUnpaid hands the sender back whatever part of the escrow a failed
// execution did not pay out.
func (service *ServiceRain) refundUnpaid(ctx context.Context, pending *models.PendingDistribution, result *models.DistributionResult) {
	unpaid := pending.TotalAmount
	if result != nil {
		unpaid -= result.Distributed()
	}
	if unpaid <= 0 {
		return
	}

	ok, err := service.serviceLedger.Payout(context.WithoutCancel(ctx), pending.SenderID, unpaid, models.TxKindRainRefund)
	if err != nil || !ok {
		service.logger.Error("refund after failed rain", "distribution_id", pending.ID, "sender_id", pending.SenderID, "amount", unpaid, "error", err)
	}
}

func (service *ServiceRain) Sweep(ctx context.Context) (int, error) {
	return service.SweepAt(ctx, time.Now().UTC())
}

// SweepAt runs every pending distribution due at now. A row runs only for the
// sweeper whose claim removed it.
func (service *ServiceRain) SweepAt(ctx context.Context, now time.Time) (int, error) {
	mutex := service.rs.NewMutex(LockKeyRainSweep(), redsync.WithExpiry(LOCK_EXPIRY_TICK), redsync.WithTries(1))
	if err := mutex.TryLockContext(ctx); err != nil {
		return 0, errorx.Wrap(ErrDistributionLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.UnlockContext(context.WithoutCancel(ctx))

	pendings, err := service.store.DuePendingDistributions(ctx, now, RAIN_SWEEP_BATCH)
	if err != nil {
		return 0, err
	}

	executed := 0
	for _, pending := range pendings {
		claimed, err := service.store.ClaimPendingDistribution(ctx, pending.ID)
		if err != nil {
			return executed, err
		}
		if !claimed {
			continue
		}

		result, err := service.execute(ctx, pending)
		if err != nil {
			service.refundUnpaid(ctx, pending, result)
			return executed, err
		}
		executed++

		err = service.publisher.Publish(ctx, &models.Event{
			Type:      models.EventRainExecuted,
			AccountID: pending.SenderID,
			Rain:      result,
			CreatedAt: now,
		})
		if err != nil {
			service.logger.Warn("publish rain result", "distribution_id", pending.ID, "error", err)
		}
	}

	return executed, nil
}

func (service *ServiceRain) PendingCount(ctx context.Context) (int, error) {
	return service.store.CountPendingDistributions(ctx)
}

// Airdrop splits amount evenly across everyone online, paid from the Bank.
func (service *ServiceRain) Airdrop(ctx context.Context, amount int64) (*models.AirdropResult, error) {
	if amount <= 0 {
		return nil, errorx.Wrap(ErrInvalidAmount, errorx.Validation)
	}

	members, err := service.presence.ActiveMembers(ctx)
	if err != nil {
		return nil, err
	}

	recipients := slices.DeleteFunc(slices.Clone(members), func(id int64) bool { return id == models.BANK_ID })
	if len(recipients) == 0 {
		return nil, errorx.Wrap(ErrEmptyScope, errorx.Validation)
	}

	per := amount / int64(len(recipients))
	if per < 1 {
		return nil, errorx.Wrap(ErrInvalidAmount, errorx.Validation)
	}

	result := &models.AirdropResult{Amount: amount, PerAccount: per}

	bank, err := service.serviceLedger.BankBalance(ctx)
	if err != nil {
		return nil, err
	}
	if bank < amount {
		result.Outcome = models.OutcomeBankInsolvent
		return result, nil
	}

	for _, id := range recipients {
		ok, err := service.serviceLedger.Payout(ctx, id, per, models.TxKindAirdrop)
		if err != nil {
			return result, err
		}
		if ok {
			result.Recipients = append(result.Recipients, id)
		}
	}

	result.Outcome = models.OutcomeExecuted
	return result, nil
}
