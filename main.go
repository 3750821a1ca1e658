package main

import "github.com/faris-sait/ClauseGuard24/cmd"

func main() {
	cmd.Execute()
}
