// Package config loads application configuration from environment
// variables into typed structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: .env
// files feed the process environment, env tags map variables onto struct
// fields, and each configuration type is parsed once per process and cached
// afterwards.
//
//	var dbCfg pg.Config
//	config.MustLoad(&dbCfg)
//
// Real environment variables always take precedence over .env file values,
// so the same binary runs unchanged from local development to production.
// ResetCache exists for tests that need to reload after mutating the
// environment.
package config
