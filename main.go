package main

import "github.com/klytics/deckdoc/cmd"

func main() {
	cmd.Execute()
}
