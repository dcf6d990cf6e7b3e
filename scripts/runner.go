package scripts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	SummarizeScript  = "summarize.py"
	TranscribeScript = "transcribe.py"
	TranslateScript  = "translate.py"
)

var execCommand = exec.CommandContext

// ScriptRunner runs the Python model scripts and decodes their JSON output.
type ScriptRunner struct {
	config Config
	logger *logrus.Logger
}

func NewScriptRunner(cfg Config, logger *logrus.Logger) (*ScriptRunner, error) {
	if cfg.Launcher == "" {
		cfg.Launcher = "uv"
		cfg.LauncherArgs = []string{"run"}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &ScriptRunner{config: cfg, logger: logger}, nil
}

func validateConfig(cfg Config) error {
	if cfg.ScriptsPath == "" {
		return errors.New("scripts path is required")
	}
	if _, err := os.Stat(cfg.ScriptsPath); os.IsNotExist(err) {
		return errors.Errorf("scripts directory does not exist: %s", cfg.ScriptsPath)
	}
	for _, script := range cfg.Required {
		scriptPath := filepath.Join(cfg.ScriptsPath, script)
		if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
			return errors.Errorf("required script not found: %s", scriptPath)
		}
	}
	return nil
}

func (r *ScriptRunner) Summarize(ctx context.Context, text, model string, maxLength, minLength int) (SummaryResult, error) {
	var result SummaryResult
	args := map[string]string{
		"model":      model,
		"max_length": strconv.Itoa(maxLength),
		"min_length": strconv.Itoa(minLength),
	}
	if err := r.run(ctx, SummarizeScript, nil, args, text, &result); err != nil {
		return result, err
	}
	if result.Error != "" {
		return result, newScriptError("ScriptRunner.Summarize", SummarizeScript, nil, result.Error)
	}
	return result, nil
}

func (r *ScriptRunner) Transcribe(ctx context.Context, audioPath, model string) (TranscriptionResult, error) {
	var result TranscriptionResult
	args := map[string]string{"model": model}
	if err := r.run(ctx, TranscribeScript, []string{audioPath}, args, "", &result); err != nil {
		return result, err
	}
	if result.Error != "" {
		return result, newScriptError("ScriptRunner.Transcribe", TranscribeScript, nil, result.Error)
	}
	return result, nil
}

func (r *ScriptRunner) Translate(ctx context.Context, text, model, sourceLang string) (TranslationResult, error) {
	var result TranslationResult
	args := map[string]string{
		"model":  model,
		"source": sourceLang,
	}
	if err := r.run(ctx, TranslateScript, nil, args, text, &result); err != nil {
		return result, err
	}
	if result.Error != "" {
		return result, newScriptError("ScriptRunner.Translate", TranslateScript, nil, result.Error)
	}
	return result, nil
}

// run executes scriptName with input on stdin and decodes its JSON output
// into out.
func (r *ScriptRunner) run(ctx context.Context, scriptName string, positional []string, args map[string]string, input string, out interface{}) error {
	const op = "ScriptRunner.run"

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	scriptPath := filepath.Join(r.config.ScriptsPath, scriptName)
	cmdArgs := append(append([]string{}, r.config.LauncherArgs...), buildCommandArgs(scriptPath, positional, args)...)

	logger := r.logger.WithFields(logrus.Fields{
		"script":  scriptName,
		"command": r.config.Launcher,
	})
	logger.Debug("Executing script")

	cmd := execCommand(ctx, r.config.Launcher, cmdArgs...)
	cmd.Dir = r.config.ScriptsPath
	cmd.Env = append(os.Environ(), r.config.Environment...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.WithFields(logrus.Fields{
			"error":  err,
			"stderr": stderr.String(),
		}).Error("Script execution failed")
		scriptErr := newScriptError(op, scriptName, err, "execution failed")
		scriptErr.Stderr = stderr.String()
		return scriptErr
	}

	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		logger.WithField("output", stdout.String()).Error("Invalid JSON output")
		return newScriptError(op, scriptName, errors.Wrap(err, "decode output"), "returned invalid JSON")
	}

	return nil
}

// buildCommandArgs renders --key=value flags in sorted order so invocations
// are reproducible. Empty values are dropped.
func buildCommandArgs(scriptPath string, positional []string, args map[string]string) []string {
	cmdArgs := []string{scriptPath}
	cmdArgs = append(cmdArgs, positional...)

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if v := args[k]; v != "" {
			cmdArgs = append(cmdArgs, fmt.Sprintf("--%s=%s", k, v))
		}
	}
	return append(cmdArgs, "--json")
}
