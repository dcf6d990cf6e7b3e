package scripts

import "time"

// Config holds the configuration for the ScriptRunner
type Config struct {
	Launcher     string   // Executable used to start scripts, "uv" by default
	LauncherArgs []string // Arguments placed before the script path, ["run"] for uv
	ScriptsPath  string
	Timeout      time.Duration
	Environment  []string
	Required     []string // Scripts that must exist before the runner is usable
}

// SummaryResult is printed by summarize.py
type SummaryResult struct {
	Summary   string `json:"summary"`
	ModelName string `json:"model_name"`
	Error     string `json:"error,omitempty"`
}

// TranscriptionResult is printed by transcribe.py
type TranscriptionResult struct {
	Text      string  `json:"text"`
	ModelName string  `json:"model_name"`
	Language  string  `json:"language,omitempty"`
	Duration  float64 `json:"duration"`
	Error     string  `json:"error,omitempty"`
}

// TranslationResult is printed by translate.py
type TranslationResult struct {
	Translation string `json:"translation"`
	ModelName   string `json:"model_name"`
	Error       string `json:"error,omitempty"`
}
