package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile         string
	OutputDir       string
	SkipTranslation bool
	RefreshWords    bool
	Archive         bool
	ListModels      bool
	NoProgress      bool

	// Enrichment flags
	Concurrency int
	RateLimit   float64

	// LLM flags
	Model              string
	BaseURL            string
	Timeout            int
	WordMaxTokens      int
	TranslateMaxTokens int
	BreakerThreshold   int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		OutputDir:          "input-pages",
		Concurrency:        5,
		Model:              "deepseek-chat",
		BaseURL:            "https://api.deepseek.com",
		Timeout:            60,
		WordMaxTokens:      300,
		TranslateMaxTokens: 1000,
		BreakerThreshold:   5,
	}
}
