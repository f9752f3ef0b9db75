package main

import (
	"os"

	"github.com/kpango/glg"
)

func setupLogging(verbose, quiet bool) {
	l := glg.Get()
	if !verbose {
		l.SetLevelMode(glg.DEBG, glg.NONE)
	}
	if quiet {
		l.SetLevelMode(glg.INFO, glg.NONE)
		l.SetLevelMode(glg.WARN, glg.NONE)
	}
	if !isTerminalFd(os.Stderr.Fd()) {
		l.DisableColor()
	}
}
