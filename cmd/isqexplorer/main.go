package main

import (
	"context"
	"isqexplorer-backend/cmd/isqexplorer/commands"
	"isqexplorer-backend/lib/serviceutil"
	"isqexplorer-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "isqexplorer")
	telemetry.InitSlog(true)
	commands.ExecuteContext(serviceutil.SignalContext())
}
