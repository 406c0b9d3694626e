// cmd/main.go
package main

import cmd "github.com/mwiater/stratplot/cmd/stratplot"

// main starts the stratplot CLI by delegating to the cobra root command
// defined in the stratplot package.
func main() {
	cmd.Execute()
}
