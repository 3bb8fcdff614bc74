package isq

import (
	"isqexplorer-backend/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/isq")
var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes clients created afterwards dump
// their http exchanges to the given output.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
