// Package main is the entry point for the reel application.
package main

import (
	"github.com/reel-player/reel/cmd"
	"github.com/reel-player/reel/config"
	"github.com/reel-player/reel/internal/cache"
	"github.com/reel-player/reel/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	defer func() {
		_ = log.Close()
	}()

	go func() {
		if removed, err := cache.CollectGarbage(); err != nil {
			log.Warnf("collect probe cache: %s", err)
		} else if removed > 0 {
			log.Debugf("removed %d expired probe cache entries", removed)
		}
	}()

	cmd.Execute()
}
