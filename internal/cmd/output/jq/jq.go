// Package jq filters structured command output with jq expressions,
// powered by gojq.
package jq

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/itchyny/gojq"
	"github.com/kinetta/takeoffctl/internal/config"
	"github.com/spf13/pflag"
)

const (
	FlagName                    = "jq"
	RawOutputFlagName           = "jq-raw-output"
	RawOutputFlagShort          = "r"
	DefaultExpressionConfigPath = "jq.default-expression"
	RawOutputConfigPath         = "jq.raw-output"
)

var jqQueryCache sync.Map

type Settings struct {
	Filter    string
	RawOutput bool
}

func AddFlags(flags *pflag.FlagSet) {
	flags.String(
		FlagName,
		"",
		"Filter JSON responses using jq expressions (powered by gojq for full jq compatibility)",
	)

	flags.BoolP(
		RawOutputFlagName,
		RawOutputFlagShort,
		false,
		fmt.Sprintf(`Output string jq results without JSON quotes (like jq -r).
- Config path: [ %s ]`, RawOutputConfigPath),
	)
}

func BindFlags(cfg config.Hook, flags *pflag.FlagSet) error {
	if cfg == nil || flags == nil {
		return nil
	}
	if f := flags.Lookup(RawOutputFlagName); f != nil {
		return cfg.BindFlag(RawOutputConfigPath, f)
	}
	return nil
}

// ResolveSettings reads the jq flags, falling back to the profile's default
// expression when no --jq flag was given.
func ResolveSettings(cfg config.Hook, flags *pflag.FlagSet) (Settings, error) {
	var s Settings

	if flags != nil {
		if f := flags.Lookup(FlagName); f != nil {
			s.Filter = f.Value.String()
		}
	}
	if cfg != nil {
		if s.Filter == "" || (flags != nil && !flags.Changed(FlagName)) {
			if def := strings.TrimSpace(cfg.GetString(DefaultExpressionConfigPath)); def != "" && s.Filter == "" {
				s.Filter = def
			}
		}
		s.RawOutput = cfg.GetBool(RawOutputConfigPath)
	}
	return s, nil
}

// compileQuery parses and caches jq expressions; repeated invocations with
// the same filter reuse the compiled form.
func compileQuery(expr string) (*gojq.Query, error) {
	if cached, ok := jqQueryCache.Load(expr); ok {
		return cached.(*gojq.Query), nil
	}
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}
	jqQueryCache.Store(expr, query)
	return query, nil
}

// Apply runs the filter over data and returns the result values. Data is
// round-tripped through JSON so typed structs behave like jq inputs.
func Apply(data any, expr string) ([]any, error) {
	query, err := compileQuery(expr)
	if err != nil {
		return nil, err
	}

	normalized, err := normalize(data)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := query.Run(normalized)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if itErr, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq evaluation failed: %w", itErr)
		}
		results = append(results, v)
	}
	return results, nil
}

// Render formats filter results one per line. With raw output enabled,
// string results print without JSON quoting, matching jq -r.
func Render(results []any, rawOutput bool) (string, error) {
	var b strings.Builder
	for _, r := range results {
		if s, ok := r.(string); ok && rawOutput {
			b.WriteString(s)
			b.WriteString("\n")
			continue
		}
		encoded, err := json.Marshal(r)
		if err != nil {
			return "", err
		}
		b.Write(encoded)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func normalize(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("preparing data for jq: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
