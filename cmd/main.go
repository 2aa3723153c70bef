package main

import (
	"github.com/diskstats-collector/cmd/agent"
)

func main() {
	agent.Execute()
}
