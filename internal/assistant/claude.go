package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const defaultClaudeModel = "sonnet"

// ClaudeCLI generates text by invoking the Claude CLI as a subprocess.
type ClaudeCLI struct {
	Binary string // default "claude"
	Model  string // default "sonnet"
}

// claudeRawOutput is the JSON envelope returned by Claude CLI
// with --output-format json.
type claudeRawOutput struct {
	Type       string  `json:"type"`
	Subtype    string  `json:"subtype"`
	Result     string  `json:"result"`
	CostUSD    float64 `json:"cost_usd"`
	DurationMS int64   `json:"duration_ms"`
	SessionID  string  `json:"session_id"`
	IsError    bool    `json:"is_error"`
}

// Generate implements Generator.
func (c *ClaudeCLI) Generate(ctx context.Context, prompt string) (string, error) {
	binary := c.Binary
	if binary == "" {
		binary = "claude"
	}

	cmd := exec.CommandContext(ctx, binary, c.args(prompt)...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", &ServiceError{Provider: "claude", Err: ctx.Err()}
		}
		return "", &ServiceError{
			Provider: "claude",
			Err:      fmt.Errorf("exited with error: %w: %s", err, strings.TrimSpace(stderr.String())),
		}
	}

	text, err := parseClaudeOutput(stdout.Bytes())
	if err != nil {
		return "", &ServiceError{Provider: "claude", Err: err}
	}
	return text, nil
}

// args constructs the CLI argument slice for a Claude invocation.
func (c *ClaudeCLI) args(prompt string) []string {
	model := c.Model
	if model == "" {
		model = defaultClaudeModel
	}
	return []string{
		"-p", prompt,
		"--output-format", "json",
		"--model", model,
	}
}

// parseClaudeOutput extracts the result text from Claude's JSON output.
func parseClaudeOutput(raw []byte) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", errors.New("empty claude output")
	}

	var out claudeRawOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("parsing claude output: %w", err)
	}
	if out.Type != "result" {
		return "", fmt.Errorf("unexpected claude output type: %q (expected \"result\")", out.Type)
	}
	if out.IsError {
		return "", fmt.Errorf("claude reported an error: %s", out.Result)
	}
	return out.Result, nil
}
