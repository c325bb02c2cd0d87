// Package engine assembles the animated background from its components and
// advances all of them together, one frame per tick.
//
// A Scene owns a pointer tracker, the placed elements and their force field,
// the fog layers, the deformable grid, the particle stream, the light
// streaks and the title label. Components never talk to each other: the
// scene reads the pointer once per frame and hands the same value to each.
//
// # Example
//
//	cfg := config.DefaultConfig()
//	sc, err := engine.New(cfg, nil, logging.Nop())
//	if err != nil {
//		return err
//	}
//	defer sc.Close()
//
//	sc.Pointer().Move(640, 360, 1280, 720)
//	frame := sc.Step(scene.Tick{Elapsed: 0.5, Delta: 1.0 / 60})
//
// # Thread Safety
//
// Pointer writes may arrive from any goroutine. Step, Activate and the
// tunable setters serialize on an internal mutex. A Frame returned by Step
// shares buffers with the scene and is only valid until the next Step; use
// Clone to keep one.
package engine
