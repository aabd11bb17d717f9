// Package numeric holds the primitives shared by the emulator packages:
// the error kinds every operation reports, and a partitioned worker helper.
//
// # Errors
//
// Four error kinds cover every failure the emulator can produce:
//
//   - [ErrParameterOutOfRange]: a cosmological parameter left its interval ([ParameterError])
//   - [ErrIntegrationFailure]: adaptive quadrature did not converge ([IntegrationError])
//   - [ErrSplineDomain]: a spline lookup fell outside its table ([DomainError])
//   - [ErrLoad]: the coefficient table is missing or malformed ([LoadError])
//
// Use errors.Is against the sentinels and errors.As to reach the context.
//
// # Parallelism
//
// [ParallelFor] partitions an index range into disjoint chunks, so workers
// that only write inside their own chunk share no mutable state.
package numeric
