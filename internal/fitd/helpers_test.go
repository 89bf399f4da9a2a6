package fitd

import (
	"github.com/GoSim-25-26J-441/kinfit/pkg/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Optimizer.MaxIterations = 300
	cfg.Server.RateLimitRPS = 0
	cfg.Server.MaxObservations = 20
	return cfg
}

func newTestServices(cfg *config.Config) (*FitStore, *FitExecutor, *Metrics) {
	store := NewFitStore()
	metrics := NewMetrics()
	return store, NewFitExecutor(store, cfg, metrics), metrics
}
