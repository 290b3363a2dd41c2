// Package exchange owns the engine lifecycle and the per-call protocol that
// reconciles driver timesteps with engine steps. The session applies driver
// inputs with a one-call lag: the outputs returned for an interval are
// produced from exactly the inputs that were valid during that interval, not
// the inputs that only became known at its end.
package exchange
