package main

import "github.com/kanzihuang/shellexec/cmd"

func main() {
	cmd.Execute()
}
