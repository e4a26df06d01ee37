package main

import "github.com/qrave1/MatchRoom/cmd"

func main() {
	cmd.Execute()
}
