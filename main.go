// Package main is the entry point for the bggstats CLI tool, which syncs
// BoardGameGeek play logs and computes per-player play statistics.
package main

import "github.com/pable/go-bgg-stats/cmd"

func main() {
	cmd.Execute()
}
