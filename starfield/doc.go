// Package starfield animates a background field of drifting, twinkling
// particles on a caller-owned surface.
//
// An Animator composes three parts: an adapter that tracks the surface size
// and regenerates the population when it changes, a Store holding the
// particles as ECS entities, and a Loop that runs advance-then-paint once per
// frame on a host-supplied Scheduler.
//
//	anim, err := starfield.New(surface, starfield.Env{
//		Scheduler: starfield.NewTimerScheduler(60),
//		Resize:    resizes,
//	}, starfield.Options{Count: 100, Speed: 0.3, TwinkleRate: 0.01})
//	if err != nil {
//		return err
//	}
//	defer anim.Destroy()
//
// Stepping is frame-count driven: perceived drift speed depends on the host
// frame rate.
package starfield
