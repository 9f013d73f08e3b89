package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from a .swa.kdl file under
// projectRoot. Returns (nil, nil) when no such file exists, so callers can
// fall back to Default().
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, ".swa.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .swa.kdl: %w", err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	if cfg.ProjectRoot == "" {
		absRoot, err := filepath.Abs(projectRoot)
		if err == nil {
			cfg.ProjectRoot = absRoot
		} else {
			cfg.ProjectRoot = projectRoot
		}
	} else if !filepath.IsAbs(cfg.ProjectRoot) {
		cfg.ProjectRoot = filepath.Clean(filepath.Join(projectRoot, cfg.ProjectRoot))
	}

	return cfg, nil
}

// parseKDL walks the KDL document tree, overlaying values found onto a
// Default() config. Unrecognized nodes are ignored, matching the teacher's
// forgiving config-reader behavior.
func parseKDL(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.ProjectRoot = v })
			}
		case "clone":
			parseCloneSection(cfg, n)
		case "unused":
			parseUnusedSection(cfg, n)
		case "cache":
			parseCacheSection(cfg, n)
		case "concurrency":
			parseConcurrencySection(cfg, n)
		}
	}

	return cfg, nil
}

func parseCloneSection(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "algorithm":
			if s, ok := firstStringArg(cn); ok {
				cfg.Clone.Algorithm = Algorithm(s)
			}
		case "min_tokens":
			if v, ok := firstIntArg(cn); ok {
				cfg.Clone.MinTokens = v
			}
		case "min_similarity":
			if v, ok := firstFloatArg(cn); ok {
				cfg.Clone.MinSimilarity = v
			}
		case "shingle_size":
			if v, ok := firstIntArg(cn); ok {
				cfg.Clone.ShingleSize = v
			}
		case "min_hash_width":
			if v, ok := firstIntArg(cn); ok {
				cfg.Clone.MinHashWidth = v
			}
		case "bands":
			if v, ok := firstIntArg(cn); ok {
				cfg.Clone.Bands = v
			}
		}
	}
}

func parseUnusedSection(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "mode":
			if s, ok := firstStringArg(cn); ok {
				cfg.Unused.Mode = s
			}
		case "enabled_kinds":
			cfg.Unused.EnabledKinds = collectStringArgs(cn)
		case "root_policy":
			for _, rn := range cn.Children {
				switch nodeName(rn) {
				case "treat_public_as_root":
					if b, ok := firstBoolArg(rn); ok {
						cfg.Unused.RootPolicy.TreatPublicAsRoot = b
					}
				case "treat_objc_as_root":
					if b, ok := firstBoolArg(rn); ok {
						cfg.Unused.RootPolicy.TreatObjcAsRoot = b
					}
				case "treat_tests_as_root":
					if b, ok := firstBoolArg(rn); ok {
						cfg.Unused.RootPolicy.TreatTestsAsRoot = b
					}
				case "treat_swiftui_views_as_root":
					if b, ok := firstBoolArg(rn); ok {
						cfg.Unused.RootPolicy.TreatSwiftUIViewsAsRoot = b
					}
				case "test_path_globs":
					cfg.Unused.RootPolicy.TestPathGlobs = collectStringArgs(rn)
				case "view_protocols":
					cfg.Unused.RootPolicy.ViewProtocols = collectStringArgs(rn)
				}
			}
		}
	}
}

func parseCacheSection(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "enabled":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Cache.Enabled = b
			}
		case "path":
			if s, ok := firstStringArg(cn); ok {
				cfg.Cache.Path = s
			}
		}
	}
}

func parseConcurrencySection(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "parallel_mode":
			if s, ok := firstStringArg(cn); ok {
				cfg.Concurrency.ParallelMode = ParallelMode(s)
			}
		case "workers":
			if v, ok := firstIntArg(cn); ok {
				cfg.Concurrency.Workers = v
			}
		}
	}
}

// Helper functions over the kdl-go document model, following the
// teacher's own traversal style.

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
