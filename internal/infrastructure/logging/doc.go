// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// Components obtain named children via Logger.Component so every line
// carries its origin ("state", "batch", "workflow", ...).
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	log := logger.Component("batch")
//	log.Info("queue started", zap.Int("items", n))
package logging
