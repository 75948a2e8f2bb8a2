package main

import "storefront/cmd/storefront-cli/commands"

func main() {
	commands.Execute()
}
