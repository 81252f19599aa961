package main

import "github.com/longkey1/omnichat/cmd"

func main() {
	cmd.Execute()
}
