package main

import "github.com/campus-oda/oda-rooms/cmd/rooms/cmd"

func main() {
	cmd.Execute()
}
