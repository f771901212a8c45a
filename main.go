package main

import "github.com/ashewa/campaignbot/cmd"

func main() {
	cmd.Execute()
}
