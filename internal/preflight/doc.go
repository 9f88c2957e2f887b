// Package preflight provides readiness checks for the binaries, model files
// and filesystem paths a prediction depends on.
//
// These checks run in two contexts:
//   - The predict command calls RunAll before touching the accelerator lock.
//     If any check fails, it stops before spending minutes loading models.
//   - The "scribe doctor" command renders every result, passed or not.
package preflight
