//go:build debug

package main

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/labi-le/mammon/internal/config"
)

func applyTagsOverrides(cfg *config.Config) {
	cfg.Verbose = true
	cfg.Notify = false

	go func() {
		addr := "127.0.0.1:6060"
		if err := http.ListenAndServe(addr, nil); err != nil {
			panic(err)
		}
	}()
}
