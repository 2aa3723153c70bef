package registers

import "context"

// Agent manages the lifecycle of every registered collector. Adding a new
// data source only requires implementing Collector and registering it here.
type Agent interface {
	Register(collector Collector)
	Start(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// Collector is the contract every data-source collector implements.
type Collector interface {
	Name() string
	Init() error
	Collect(ctx context.Context) error
	Close() error
}
