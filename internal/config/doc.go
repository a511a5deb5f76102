// Package config provides configuration management for the vaprisk toolkit.
//
// Configuration is loaded from an optional YAML file and then overridden by
// environment variables with the VAPRISK prefix, for example:
//
//	VAPRISK_LOGGING_LEVEL=debug
//	VAPRISK_PATHS_REPORTS_DIR=/var/data/reports
//	VAPRISK_MODEL_TRIALS=100
//
// All values are validated against struct tags before use, so the command
// line tools fail fast on malformed configuration instead of producing
// partial output.
package config
