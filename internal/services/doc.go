// Package services defines shared utilities consumed by the prediction stages
// and the external tool integrations beneath them.
//
// Key responsibilities:
//   - Context helpers that stamp stage names and prediction correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures carry a
//     consistent "stage: operation: message" shape and map to a CLI exit code.
//   - ServiceError, which keeps the captured stderr location of a failed
//     external command next to the cause.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
