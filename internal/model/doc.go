// Package model implements the regression trainers the pipeline compares:
// an ordinary-least-squares linear model with coefficient significance
// tests, a bootstrap-aggregated forest of regression trees, and
// squared-error gradient boosting.
//
// # Contract
//
// Every trainer implements Trainer and produces an immutable FittedModel:
//
//	model, err := trainer.Fit(ctx, train, "SalePrice")
//	preds, err := model.Predict(eval)
//	scores := model.FeatureImportance()
//
// A FittedModel is read-only after Fit returns. Fit failures are reported
// as fit errors carrying the trainer name; one trainer failing never
// affects another.
//
// # Encoding
//
// Tables are expanded into numeric design matrices by an Encoder built
// once from the training table: numeric columns pass through, categorical
// columns become indicator columns from their fixed level set. The linear
// model drops the first level of each categorical as the reference; the
// tree models keep every level. Each fitted model carries its encoder, so
// the design columns seen at predict time are identical in name and order
// to those seen at fit time. A label outside the fixed level set cannot
// be encoded and fails the call.
//
// # Determinism
//
// All randomness flows from caller-supplied seeds. The forest seeds tree
// i with seed+i and aggregates in tree order, so fitting twice with the
// same seed yields bit-identical predictions even though trees grow in
// parallel. The linear model and boosting are deterministic throughout.
package model
