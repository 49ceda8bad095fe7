package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/daap14/billing/internal/observability"
)

// Catalog owns the lifecycle of plan records. It performs no authorization;
// callers gate mutations before reaching it.
type Catalog struct {
	repo    Repository
	metrics *observability.Metrics
	log     *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithMetrics records catalog outcomes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Catalog) {
		c.metrics = m
	}
}

// WithLogger sends catalog log lines to l, tagged with component=plan.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		c.log = l.With("component", "plan")
	}
}

// NewCatalog creates a Catalog over the given repository. Without WithLogger
// it logs through slog.Default().
func NewCatalog(repo Repository, opts ...Option) *Catalog {
	c := &Catalog{repo: repo, log: slog.Default().With("component", "plan")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetByID returns the plan with the given id, or ErrPlanNotFound.
func (c *Catalog) GetByID(ctx context.Context, id int64) (*Plan, error) {
	p, err := c.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			return nil, err
		}
		return nil, c.storeFailure(ctx, "get", err, "id", id)
	}
	return p, nil
}

// List returns every plan. An empty catalog yields an empty slice and a nil
// error; a store failure yields ErrStoreUnavailable.
func (c *Catalog) List(ctx context.Context) ([]Plan, error) {
	plans, err := c.repo.List(ctx)
	if err != nil {
		return nil, c.storeFailure(ctx, "list", err)
	}
	return plans, nil
}

// Create validates and inserts a new plan, returning it with its id.
func (c *Catalog) Create(ctx context.Context, name string, price int64) (*Plan, error) {
	if err := Validate(name, price); err != nil {
		c.metrics.RecordPlanMutation("create", "invalid")
		return nil, err
	}

	p := &Plan{Name: strings.TrimSpace(name), Price: price}
	if err := c.repo.Create(ctx, p); err != nil {
		c.metrics.RecordPlanMutation("create", "error")
		return nil, c.storeFailure(ctx, "create", err, "name", p.Name)
	}

	c.metrics.RecordPlanMutation("create", "success")
	c.log.Info("plan created", "id", p.ID, "name", p.Name, "price", p.Price)
	return p, nil
}

// Update overwrites name and price of an existing plan. Applying the same
// update twice leaves the same state as applying it once.
func (c *Catalog) Update(ctx context.Context, id int64, name string, price int64) (*Plan, error) {
	if err := Validate(name, price); err != nil {
		c.metrics.RecordPlanMutation("update", "invalid")
		return nil, err
	}

	p := &Plan{ID: id, Name: strings.TrimSpace(name), Price: price}
	if err := c.repo.Update(ctx, p); err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			c.metrics.RecordPlanMutation("update", "not_found")
			return nil, err
		}
		c.metrics.RecordPlanMutation("update", "error")
		return nil, c.storeFailure(ctx, "update", err, "id", id)
	}

	c.metrics.RecordPlanMutation("update", "success")
	c.log.Info("plan updated", "id", p.ID, "name", p.Name, "price", p.Price)
	return p, nil
}

// ProratedUpgradePrice loads both plans and prices a mid-cycle switch from
// currentPlanID to newPlanID with remainingDays left in the cycle.
func (c *Catalog) ProratedUpgradePrice(ctx context.Context, currentPlanID, newPlanID int64, remainingDays int) (Quote, error) {
	if err := ValidateRemainingDays(remainingDays); err != nil {
		return Quote{}, err
	}

	var current, next *Plan
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.GetByID(gctx, currentPlanID)
		if err != nil {
			return fmt.Errorf("loading current plan %d: %w", currentPlanID, err)
		}
		current = p
		return nil
	})
	g.Go(func() error {
		p, err := c.GetByID(gctx, newPlanID)
		if err != nil {
			return fmt.Errorf("loading new plan %d: %w", newPlanID, err)
		}
		next = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return Quote{}, err
	}

	q, err := ProrateUpgrade(*current, *next, remainingDays)
	if err != nil {
		return Quote{}, err
	}
	c.metrics.RecordQuote(q.Direction())
	return q, nil
}

// storeFailure logs a record store error and wraps it in ErrStoreUnavailable.
// Cancellation is passed through unlogged.
func (c *Catalog) storeFailure(ctx context.Context, op string, err error, attrs ...any) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	c.metrics.RecordStoreError(op)
	c.log.Error("plan store failure", append([]any{"operation", op, "error", err}, attrs...)...)
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
