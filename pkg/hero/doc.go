// Package hero provides an in-process registry of formulas: named business
// processes made of ordered, named steps that run in sequence against a
// mutable target and an options bag.
//
// # Overview
//
// A Registry maps formula names to Formulas. Each Formula owns exactly one
// StepList, which keeps its steps unique by name and in execution order:
//
//	checkout := hero.Get("checkout")
//	_ = checkout.AddStepFunc(func(ctx context.Context, target any, opts hero.Options) error {
//	    order := target.(*Order)
//	    order.Total = order.Subtotal + order.Tax
//	    return nil
//	}, "total")
//	_ = checkout.AddStep(&ChargeCard{})         // name inferred: "ChargeCard"
//	_ = checkout.AddStep("notify", NotifyStep{}) // explicit name
//
//	if err := checkout.Run(ctx, &order, nil); err != nil {
//	    // the failing step's error, returned verbatim
//	}
//
// Adding a step under a name that already exists removes the old entry and
// appends the new one at the end.
//
// # Logging
//
// SetLogger installs a process-wide Logger. When one is set every step call
// emits a "before" line, then an "after" line on success or an "error" line
// on failure:
//
//	HERO before checkout -> total Context: {...} Options: map[]
//	HERO after  checkout -> total Context: {...} Options: map[]
//
// # Concurrency
//
// Nothing in this package takes a lock. Registries, formulas, step lists and
// the logger slot are plain shared state; an application that touches them
// from several goroutines must serialize that access itself. Steps run
// synchronously on the caller's goroutine.
package hero
