//go:build !debug

package main

import "github.com/labi-le/mammon/internal/config"

func applyTagsOverrides(*config.Config) {}
