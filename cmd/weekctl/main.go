// Package main implements weekctl, an offline CLI for fiscal week calendar queries.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
