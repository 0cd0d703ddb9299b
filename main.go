package main

import "github.com/samsaffron/editrender/cmd"

func main() {
	cmd.Execute()
}
