// Command hoverprobe reports where the hover player attaches on a page for
// a scripted sequence of pointer moves and scrolls.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
