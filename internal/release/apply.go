package release

import (
	"context"
	"fmt"
	"log/slog"
)

// Store is the remote release store.
type Store interface {
	List(ctx context.Context) ([]Remote, error)
	Create(ctx context.Context, r Release) error
	Update(ctx context.Context, id int64, r Release) error
	Delete(ctx context.Context, id int64) error
}

// Summary counts what Apply did (or would do, in dry-run).
type Summary struct {
	Created int
	Updated int
	Deleted int
	Skipped int
}

// Executor applies a plan to a store.
type Executor struct {
	store  Store
	dryRun bool
	log    *slog.Logger
	// OnItem, if set, is called before each store call.
	OnItem func(action Action, tag string)
}

// NewExecutor creates an executor. In dry-run mode the store is never called.
func NewExecutor(store Store, dryRun bool, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{store: store, dryRun: dryRun, log: log}
}

// Apply executes orphan deletions first, then items in tag chronology.
// It stops at the first store failure.
func (e *Executor) Apply(ctx context.Context, plan *Plan) (Summary, error) {
	var sum Summary

	for _, orphan := range plan.Orphans {
		e.notify(Delete, orphan.Tag)
		if err := e.delete(ctx, orphan); err != nil {
			return sum, err
		}
		sum.Deleted++
	}

	for _, item := range plan.Items {
		d := item.Desired.Release
		if item.Action != Skip {
			e.notify(item.Action, d.Tag)
		}

		switch item.Action {
		case Skip:
			e.log.Debug("release up to date", "tag", d.Tag)
			sum.Skipped++
		case Create:
			if err := e.create(ctx, d); err != nil {
				return sum, err
			}
			sum.Created++
		case Update:
			if err := e.update(ctx, item.Remote.ID, d); err != nil {
				return sum, err
			}
			sum.Updated++
		case DeleteThenRecreate:
			if err := e.delete(ctx, *item.Remote); err != nil {
				return sum, err
			}
			sum.Deleted++
			if err := e.create(ctx, d); err != nil {
				return sum, err
			}
			sum.Created++
		}
	}
	return sum, nil
}

func (e *Executor) notify(a Action, tag string) {
	if e.OnItem != nil {
		e.OnItem(a, tag)
	}
}

func (e *Executor) create(ctx context.Context, r Release) error {
	e.log.Info("creating release", "tag", r.Tag, "prerelease", r.Prerelease, "dry_run", e.dryRun)
	if e.dryRun {
		return nil
	}
	if err := e.store.Create(ctx, r); err != nil {
		return fmt.Errorf("creating release %s: %w", r.Tag, err)
	}
	return nil
}

func (e *Executor) update(ctx context.Context, id int64, r Release) error {
	e.log.Info("updating release", "tag", r.Tag, "prerelease", r.Prerelease, "dry_run", e.dryRun)
	if e.dryRun {
		return nil
	}
	if err := e.store.Update(ctx, id, r); err != nil {
		return fmt.Errorf("updating release %s: %w", r.Tag, err)
	}
	return nil
}

func (e *Executor) delete(ctx context.Context, r Remote) error {
	e.log.Info("deleting release", "tag", r.Tag, "dry_run", e.dryRun)
	if e.dryRun {
		return nil
	}
	if err := e.store.Delete(ctx, r.ID); err != nil {
		return fmt.Errorf("deleting release %s: %w", r.Tag, err)
	}
	return nil
}
