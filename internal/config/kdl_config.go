package config

import (
	"fmt"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// mergeKDL parses a .matchd.kdl document and overlays its values onto cfg.
// Sections/keys absent from the document leave cfg's existing value (the
// defaults) untouched — same "overlay, don't replace" behavior as the
// teacher's parseKDL.
func mergeKDL(cfg *Config, content string) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "server":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "addr":
					if s, ok := firstStringArg(cn); ok {
						cfg.Server.Addr = s
					}
				case "read_timeout_sec":
					if v, ok := firstIntArg(cn); ok {
						cfg.Server.ReadTimeoutSec = v
					}
				case "write_timeout_sec":
					if v, ok := firstIntArg(cn); ok {
						cfg.Server.WriteTimeoutSec = v
					}
				case "shutdown_timeout_sec":
					if v, ok := firstIntArg(cn); ok {
						cfg.Server.ShutdownTimeoutSec = v
					}
				}
			}
		case "store":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "driver":
					if s, ok := firstStringArg(cn); ok {
						cfg.Store.Driver = s
					}
				case "dsn":
					if s, ok := firstStringArg(cn); ok {
						cfg.Store.DSN = s
					}
				case "max_pool_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Store.MaxPoolSize = v
					}
				}
			}
		case "matching":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "threshold":
					if v, ok := firstIntArg(cn); ok {
						cfg.Matching.Threshold = v
					}
				case "top_k":
					if v, ok := firstIntArg(cn); ok {
						cfg.Matching.TopK = v
					}
				case "workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Matching.Workers = v
					}
				}
			}
		case "accounts":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "enabled":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Accounts.Enabled = b
					}
				case "jwt_secret":
					if s, ok := firstStringArg(cn); ok {
						cfg.Accounts.JWTSecret = s
					}
				case "token_ttl_hours":
					if v, ok := firstIntArg(cn); ok {
						cfg.Accounts.TokenTTLHours = v
					}
				}
			}
		}
	}

	return nil
}

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
