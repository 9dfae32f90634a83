package main

import "aghi-dashboard/cmd"

func main() {
	cmd.Execute()
}
