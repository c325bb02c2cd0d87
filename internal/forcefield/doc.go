// Package forcefield moves placed elements under pointer repulsion, an
// optional vortex and per-frame damping.
//
// Every element is an independent function of (time, pointer, its own
// velocity), so the simulator evaluates them in parallel chunks. Forces are
// expressed in per-frame units: a step adds force then multiplies the
// velocity by the damping factor once, regardless of the frame's delta.
//
// # Example
//
//	sim := forcefield.New(layout.Elements, forcefield.DefaultParams(compact))
//	sim.SetVortexStrength(1)
//	for tick := range ticks {
//	    out := sim.Step(tick, tracker.State())
//	    ...
//	}
package forcefield
