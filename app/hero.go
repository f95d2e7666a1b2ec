// Package app mounts the starfield behind a hero section and drives it in
// each host mode.
package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pthm-cable/starfield/starfield"
)

// ErrNotMounted is returned by operations that need a live animator.
var ErrNotMounted = errors.New("app: starfield not mounted")

// Hero owns the animator shown behind the hero section. The surface and
// environment outlive any single animator: Mount creates one, Unmount
// destroys it, and Remount replaces it when options change.
type Hero struct {
	surface starfield.Surface
	env     starfield.Env

	mu        sync.Mutex
	opts      starfield.Options
	anim      *starfield.Animator
	onRemount func()
}

// NewHero prepares a hero section. Nothing runs until Mount.
func NewHero(surface starfield.Surface, env starfield.Env, opts starfield.Options) *Hero {
	return &Hero{surface: surface, env: env, opts: opts}
}

// OnRemount registers fn to be called after each successful Remount.
func (h *Hero) OnRemount(fn func()) {
	h.mu.Lock()
	h.onRemount = fn
	h.mu.Unlock()
}

// Mount starts an animator if none is running.
func (h *Hero) Mount() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mountLocked()
}

func (h *Hero) mountLocked() error {
	if h.anim != nil && h.anim.Running() {
		return nil
	}
	anim, err := starfield.New(h.surface, h.env, h.opts)
	if err != nil {
		return fmt.Errorf("mounting starfield: %w", err)
	}
	h.anim = anim
	return nil
}

// Unmount destroys the current animator. Safe to call when not mounted.
func (h *Hero) Unmount() {
	h.mu.Lock()
	anim := h.anim
	h.anim = nil
	h.mu.Unlock()

	if anim != nil {
		anim.Destroy()
	}
}

// Remount destroys the current animator and mounts a new one with opts.
// On error the hero is left unmounted and keeps its previous options.
func (h *Hero) Remount(opts starfield.Options) error {
	h.mu.Lock()
	if h.anim != nil {
		h.anim.Destroy()
		h.anim = nil
	}
	prev := h.opts
	h.opts = opts
	if err := h.mountLocked(); err != nil {
		h.opts = prev
		h.mu.Unlock()
		return err
	}
	fn := h.onRemount
	h.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

// Animator returns the mounted animator, or nil.
func (h *Hero) Animator() *starfield.Animator {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.anim
}

// Mounted reports whether a running animator is mounted. An animator that
// stopped itself after a frame panic counts as unmounted.
func (h *Hero) Mounted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.anim != nil && h.anim.Running()
}

// Options returns the options the next Mount will use.
func (h *Hero) Options() starfield.Options {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.opts
}

// Stats returns the mounted animator's stats.
func (h *Hero) Stats() (starfield.Stats, error) {
	anim := h.Animator()
	if anim == nil {
		return starfield.Stats{}, ErrNotMounted
	}
	return anim.Stats(), nil
}
