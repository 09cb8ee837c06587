// main is the entry point for the toolrank CLI.
package main

import (
	"github.com/aipowerranking/toolrank/cmd"
	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Cannot write profiles", perr)
	}
	iocache.CloseStores()

	if err != nil {
		contract.LogFatal("toolrank failed", err)
	}
}
