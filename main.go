package main

import "github.com/zinc-sig/ghost-allure/cmd"

func main() {
	cmd.Execute()
}
