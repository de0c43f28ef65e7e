package main

import "github.com/caruhq/caru/cmd"

func main() {
	cmd.Execute()
}
