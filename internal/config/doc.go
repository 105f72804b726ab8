// Package config provides centralized configuration management for the
// housing-price modeling workflow. It handles loading configuration from
// multiple sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern HOUSING_* for namespacing:
//
//	HOUSING_PIPELINE_SEED=42
//	HOUSING_PIPELINE_TRAIN_FRACTION=0.8
//	HOUSING_PIPELINE_MISSING_THRESHOLD=0.7
//	HOUSING_MODEL_TREE_COUNT=300
//	HOUSING_MODEL_ROUND_COUNT=100
//	HOUSING_REPORT_TOP_K=10
//	HOUSING_DATA_TARGET_COLUMN=SalePrice
//	HOUSING_LOGGING_LEVEL=info
//
// # Validation
//
// All configuration is validated at load time with go-playground/validator
// struct tags. Out-of-range values for any recognized option are rejected
// with a config error before the pipeline starts:
//
//	- train_fraction must lie strictly in (0, 1)
//	- missing_threshold must lie in [0, 1]
//	- tree_count, round_count, top_k, max_depth must be positive
//	- learning_rate must lie in (0, 1]
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For testing, config.Default() builds a configuration with the documented
// defaults and no environment or file access.
package config
