package main

import "github.com/rankforge/site-backend/commands"

func main() {
	commands.Execute()
}
