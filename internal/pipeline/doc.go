// Package pipeline orchestrates the modeling workflow as an ordered
// sequence of stages: clean, transform, split, train, evaluate.
//
// Core Components:
//
// Runner: Executes the stages in order against a shared State. Each run
// gets a uuid run ID, every stage is logged with its duration, and when
// tracing is enabled each stage runs inside its own span. The first
// failing stage aborts the run and the remaining stages are marked
// skipped.
//
// Stage: A single unit of work. Stages read their inputs from the State
// and write their outputs back to it, so the Runner stays ignorant of
// what flows between them.
//
// State: The evolving result of a run. It carries the working table,
// the train/eval split, the fitted models, accumulated warnings, the
// final ranking, and a StageState per stage with status and timing.
//
// The training stage is the only concurrent one: the trainers run under
// a bounded errgroup and each trainer's failure is recorded against that
// trainer alone. The stage itself fails only when no model could be
// fitted at all.
//
// Example usage:
//
//	runner := pipeline.NewRunner(cfg, logger, tracer)
//	state, err := runner.Run(ctx, table)
//	if err != nil {
//		return err
//	}
//	ranking := state.Ranking()
package pipeline
