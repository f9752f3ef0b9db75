package main

import (
	"github.com/kpango/glg"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		glg.Fatal(err)
	}
}
