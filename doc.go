/*
Package gamebridge carries input from a GUI toolkit to a game running on its
own goroutine. The toolkit side converts its native input into Events and
posts them to a thread safe Queue; the game side polls the queue the way a
classic game loop would, with Get, Poll and Wait.

The package ships a Gio host (Canvas) and, in the ebitenhost sub-package, an
Ebitengine host. A command line maze game is available under cmd/maze:

	$ maze --help

A minimal game looks like this:

	package main

	import (
		"context"
		"log"

		"gioui.org/app"
		"github.com/esimov/gamebridge"
	)

	func main() {
		b, err := gamebridge.New(gamebridge.Config{Title: "Demo"})
		if err != nil {
			log.Fatal(err)
		}
		go func() {
			err := gamebridge.NewCanvas(b).Run(func(ctx context.Context, b *gamebridge.Bridge) error {
				for {
					e, err := b.Events().WaitContext(ctx)
					if err != nil || e.Type == gamebridge.Quit {
						return err
					}
				}
			})
			b.Close()
			if err != nil {
				log.Fatal(err)
			}
		}()
		app.Main()
	}
*/
package gamebridge
