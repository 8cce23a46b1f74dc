package config

const (
	defaultDelimiter        = ";"
	defaultEncoding         = "utf-8"
	defaultTimeColumn       = "time"
	defaultTimeFormat       = "dmy-minutes"
	defaultPeriodMinutes    = 10
	defaultMedianWindow     = 21
	defaultDerivativeWindow = 11
	defaultOutputDir        = "figures"
	defaultSource           = SourceCSV
	defaultLogLevel         = "info"
	defaultEvaporation      = "evap"
	defaultConductance      = "cond"
	defaultPAR              = "PAR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Dataset: Dataset{
			Delimiter:   defaultDelimiter,
			Encoding:    defaultEncoding,
			TimeColumns: []string{defaultTimeColumn},
			TimeFormat:  defaultTimeFormat,
		},
		Sampling: Sampling{
			PeriodMinutes:    defaultPeriodMinutes,
			MedianWindow:     defaultMedianWindow,
			DerivativeWindow: defaultDerivativeWindow,
			TrimPartialDays:  true,
		},
		Evaporation: Evaporation{
			Channel: defaultEvaporation,
		},
		Porometer: Porometer{
			Conductance: defaultConductance,
			PAR:         defaultPAR,
		},
		Output: Output{
			Dir:     defaultOutputDir,
			Figures: true,
		},
		Storage: Storage{
			Source: defaultSource,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
