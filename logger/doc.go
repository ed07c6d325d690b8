// Package logger provides structured logging on top of zerolog.
//
// Loggers are created explicitly and handed to the components that need
// them; nothing in this module reads a global logger.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg.Logging, "personctl").WithComponent("person")
//	log.Debug("request issued", logger.Fields("id", 42, "url", url))
package logger
