package main

import "github.com/restviews/restviews/cmd"

func main() {
	cmd.Execute()
}
