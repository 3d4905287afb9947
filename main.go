package main

import (
	"fmt"
	"os"

	"github.com/dcvideo/pvrscan/debugger"
	"github.com/dcvideo/pvrscan/gui"
	"github.com/dcvideo/pvrscan/gui/ebiten"
)

func main() {
	// buffered channels. this means we don't have to worry about the gui closing
	// before the debugger and vice versa
	endGui := make(chan bool, 1)
	endDebugger := make(chan bool, 1)

	// the debugger result channel is buffered because we don't know the order
	// in which the gui and debugger will end
	resultDebugger := make(chan error, 1)

	g := gui.NewGUI()

	go func() {
		resultDebugger <- debugger.Launch(endDebugger, g, os.Args[1:])
		endGui <- true
	}()

	// the gui must run on the main goroutine
	if err := ebiten.Launch(endGui, g); err != nil {
		fmt.Printf("*** %s\n", err)
	}
	endDebugger <- true

	if err := <-resultDebugger; err != nil {
		fmt.Printf("*** %s\n", err)
	}
}
