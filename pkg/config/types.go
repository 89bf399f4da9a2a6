package config

// Config represents the main fitting configuration
type Config struct {
	LogLevel  string                   `yaml:"log_level"`
	LogFormat string                   `yaml:"log_format,omitempty"` // text or json
	Model     string                   `yaml:"model"`                // rate-law model name or alias
	Dataset   string                   `yaml:"dataset,omitempty"`    // matlab, table or all
	DataFile  string                   `yaml:"data_file,omitempty"`  // YAML or CSV file; overrides dataset
	Models    map[string]ModelSettings `yaml:"models,omitempty"`     // per-model overrides keyed by canonical name
	Optimizer Optimizer                `yaml:"optimizer"`
	Server    Server                   `yaml:"server"`
}

// ModelSettings holds the initial guess and box constraints of one model
type ModelSettings struct {
	Initial []float64 `yaml:"initial"`
	Lower   []float64 `yaml:"lower"`
	Upper   []float64 `yaml:"upper"`
}

// Optimizer represents the bounded minimizer configuration
type Optimizer struct {
	Method            string  `yaml:"method"` // nelder-mead, lbfgs or compass
	MaxIterations     int     `yaml:"max_iterations"`
	FunctionTolerance float64 `yaml:"ftol"`
	StallIterations   int     `yaml:"stall_iterations"`
	StepTolerance     float64 `yaml:"step_tol"`
	GradientTolerance float64 `yaml:"grad_tol"`
	Retry             Retry   `yaml:"retry"`
	Seed              int64   `yaml:"seed"`
	Starts            int     `yaml:"starts"`       // multi-start count; 1 runs a single fit
	MaxParallel       int     `yaml:"max_parallel"` // concurrent multi-start runs
}

// Retry controls how a candidate with a non-finite score is perturbed
type Retry struct {
	MaxRetries int     `yaml:"max_retries"`
	Schedule   string  `yaml:"schedule"` // exponential, linear, constant
	Base       float64 `yaml:"base"`     // fraction of the bound width
	Max        float64 `yaml:"max"`
}

// Server represents the fit service configuration
type Server struct {
	GRPCAddr        string  `yaml:"grpc_addr"`
	HTTPAddr        string  `yaml:"http_addr"`
	RateLimitRPS    float64 `yaml:"rate_limit_rps"` // 0 disables limiting
	Burst           int     `yaml:"burst"`
	MaxObservations int     `yaml:"max_observations"`
	MaxStarts       int     `yaml:"max_starts"`     // 0 disables the cap
	MaxIterations   int     `yaml:"max_iterations"` // 0 disables the cap
}

// Canonical model names; kept in sync with the kinetics registry
const (
	ModelHougenWatson    = "hougen-watson"
	ModelMarsVanKrevelen = "mars-van-krevelen"
)

// DefaultModelSettings returns the built-in initial guess and bounds for a
// canonical model name. The Hougen-Watson guess is already projected onto
// its bounds (b2 starts at its lower bound of 5).
func DefaultModelSettings(model string) (ModelSettings, bool) {
	switch model {
	case ModelHougenWatson:
		return ModelSettings{
			Initial: []float64{0.034616542, 5, 14.80747964},
			Lower:   []float64{0.005, 5, 14.80747964},
			Upper:   []float64{0.05, 7, 20},
		}, true
	case ModelMarsVanKrevelen:
		return ModelSettings{
			Initial: []float64{0.1, 15.0},
			Lower:   []float64{1e-6, 1e-6},
			Upper:   []float64{1000.0, 1000.0},
		}, true
	default:
		return ModelSettings{}, false
	}
}

// ModelSettingsFor returns the configured settings for model, falling back
// to the defaults for any field the override leaves empty.
func (c *Config) ModelSettingsFor(model string) (ModelSettings, bool) {
	ms, ok := DefaultModelSettings(model)
	override, hasOverride := c.Models[model]
	if !ok && !hasOverride {
		return ModelSettings{}, false
	}
	if hasOverride {
		if len(override.Initial) > 0 {
			ms.Initial = override.Initial
		}
		if len(override.Lower) > 0 {
			ms.Lower = override.Lower
		}
		if len(override.Upper) > 0 {
			ms.Upper = override.Upper
		}
	}
	return ms, true
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Model:     ModelMarsVanKrevelen,
		Dataset:   "matlab",
		Optimizer: Optimizer{
			Method:            "nelder-mead",
			MaxIterations:     9000,
			FunctionTolerance: 1e-9,
			StallIterations:   200,
			StepTolerance:     1e-10,
			GradientTolerance: 1e-10,
			Retry: Retry{
				MaxRetries: 3,
				Schedule:   "exponential",
				Base:       1e-8,
				Max:        1e-2,
			},
			Seed:        1,
			Starts:      1,
			MaxParallel: 4,
		},
		Server: Server{
			GRPCAddr:        ":50051",
			HTTPAddr:        ":8080",
			RateLimitRPS:    5,
			Burst:           10,
			MaxObservations: 1000,
			MaxStarts:       32,
			MaxIterations:   100000,
		},
	}
}
