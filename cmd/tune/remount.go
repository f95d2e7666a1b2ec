package main

import (
	"errors"

	"github.com/pthm-cable/starfield/app"
	"github.com/pthm-cable/starfield/starfield"
)

// applyOptions remounts hero with opts. When that fails the hero mounts again
// with its previous options; the error reports both failures.
func applyOptions(hero *app.Hero, opts starfield.Options) error {
	err := hero.Remount(opts)
	if err == nil {
		return nil
	}
	if mountErr := hero.Mount(); mountErr != nil {
		return errors.Join(err, mountErr)
	}
	return err
}
