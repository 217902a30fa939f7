// Package config provides configuration management for the deposit approval
// analyzer.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//	1. Default values (Default)
//	2. A YAML file (config.yaml, configs/config.yaml, or the -config flag)
//	3. Environment variables, optionally seeded from a .env file
//
// # Environment Variables
//
// All environment variables follow the pattern APPROVAL_<SECTION>_<FIELD>:
//
//	APPROVAL_INPUT_PATH=/data/attempts.xlsx
//	APPROVAL_ANALYSIS_CUSTOMER_MONTH=9
//	APPROVAL_ANALYSIS_EARLIER_QUARTER=2020Q4
//	APPROVAL_ANALYSIS_SEED=42
//	APPROVAL_LOGGING_LEVEL=debug
//	APPROVAL_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/analyzer.prom
//
// # Path Management
//
// Paths resolves the data, report and log directories relative to the
// executable location:
//
//	paths, err := config.GetPaths()
//	workbook := paths.GetAnalysisWorkbookPath(time.Now())
//
// # Validation
//
// Field constraints are declared with validator tags and checked at load time,
// together with the ordering of the quarter pair used by the factor analysis.
package config
