package main

import (
	"episcrape/cmd/episcrape/commands"
	"episcrape/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
