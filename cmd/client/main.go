package main

import "github.com/rmartinsanz/gin-userbase-api/internal/client/cli"

func main() {
	cli.Execute()
}
