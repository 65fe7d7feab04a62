// Package environment carries the deployment environment (development,
// staging, production) through request contexts, with helpers for
// environment-conditional behavior, a logger attribute extractor, and HTTP
// middleware that stamps every request context.
//
// Short forms ("dev", "stage", "prod") are accepted by the Is* checks so
// deploy tooling does not have to agree on one spelling.
package environment
