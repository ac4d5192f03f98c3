package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

// The sales policy prompt is a versioned artifact, not code: deployments
// override it through policy.path without rebuilding.
//
//go:embed sales_policy.txt
var defaultPolicy string

// LoadPolicy returns the sales policy prompt text. An empty path yields
// the embedded default.
func LoadPolicy(path string) (string, error) {
	if path == "" {
		return strings.TrimSpace(defaultPolicy), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading policy file: %w", err)
	}
	policy := strings.TrimSpace(string(data))
	if policy == "" {
		return "", fmt.Errorf("policy file %s is empty", path)
	}
	return policy, nil
}
