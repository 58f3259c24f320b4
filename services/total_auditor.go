package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-commands/models"
)

// TotalAuditor periodically re-derives the cached totals of open commands
// from their items at each command's own rate and persists any that
// disagree, whether the stored value was lost or is stale.
type TotalAuditor struct {
	Repo     CommandRepository
	Billing  BillingCalculator
	Notifier Notifier
	Logger   *logrus.Logger
	Interval time.Duration

	stop chan struct{}
}

func NewTotalAuditor(repo CommandRepository) *TotalAuditor {
	return &TotalAuditor{
		Repo:     repo,
		Logger:   logrus.StandardLogger(),
		Interval: time.Minute,
		stop:     make(chan struct{}),
	}
}

func (a *TotalAuditor) Start() {
	go func() {
		ticker := time.NewTicker(a.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := a.Audit(context.Background()); err != nil {
					a.Logger.WithError(err).Error("total audit failed")
				}
			case <-a.stop:
				return
			}
		}
	}()
}

func (a *TotalAuditor) Stop() {
	close(a.stop)
}

// Audit runs one pass and returns the number of commands healed.
func (a *TotalAuditor) Audit(ctx context.Context) (int, error) {
	open, err := a.Repo.ListCommandsByStatus(ctx, models.CommandOpen)
	if err != nil {
		return 0, err
	}

	healed := 0
	for _, c := range open {
		cmd, stored, ok, err := a.heal(ctx, c.ID)
		if err != nil {
			return healed, err
		}
		if !ok {
			continue
		}
		healed++
		a.Logger.WithFields(logrus.Fields{
			"command_id": cmd.ID,
			"stored":     stored.StringFixed(2),
			"healed":     cmd.Total.StringFixed(2),
		}).Warn("cached command total healed")
		if a.Notifier != nil {
			total := cmd.Total
			ev := Event{Type: EventTotalHealed, RestaurantID: cmd.RestaurantID, CommandID: cmd.ID, TableID: cmd.TableID, Status: string(cmd.Status), Total: &total, At: time.Now().UTC()}
			if err := a.Notifier.Notify(ctx, ev); err != nil {
				a.Logger.WithError(err).Warn("event delivery failed")
			}
		}
	}
	return healed, nil
}

// heal recomputes the total of a still open command under its row lock and
// writes it when it differs from the stored one. It reports the previous
// total and whether a write happened.
func (a *TotalAuditor) heal(ctx context.Context, commandID uint) (models.Command, decimal.Decimal, bool, error) {
	var (
		cmd    models.Command
		stored decimal.Decimal
		healed bool
	)
	err := a.Repo.WithinTx(ctx, func(repo CommandRepository) error {
		var err error
		cmd, err = repo.GetCommand(ctx, commandID)
		if err != nil {
			return err
		}
		if cmd.Status != models.CommandOpen {
			return nil
		}
		items, err := repo.ListItems(ctx, cmd.ID)
		if err != nil {
			return err
		}
		stored = cmd.Total
		rec := a.Billing.Finalize(&stored, items, cmd.ServiceChargeRate)
		if rec.Total.Equal(stored) {
			return nil
		}
		cmd.Total = rec.Total
		cmd.UpdatedAt = time.Now().UTC()
		if err := repo.SaveCommand(ctx, &cmd, models.CommandOpen); err != nil {
			if errors.Is(err, ErrConflict) {
				return nil
			}
			return err
		}
		healed = true
		return nil
	})
	return cmd, stored, healed, err
}
