// Package flash drives the blink/highlight loop that draws attention to a
// hidden host panel when chat activity arrives.
package flash

import (
	"context"
	"fmt"
	"strings"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/helpdeskhq/chatflash-go/tool"
	"github.com/helpdeskhq/chatflash-go/types"
)

// PanelBar is the host panel registry consumed by the controller. Hosts
// populate it asynchronously after mount, so lookups may fail for a while
// before they succeed.
type PanelBar interface {
	GetAllPanelInfo() ([]types.PanelInfo, error)
	GetPanelInfo(id string) (types.PanelInfo, error)
	SetPanelHighlighted(id string, highlighted bool) error
}

const targetCacheTTL = 10 * time.Minute

// targetResolver finds the panel whose label matches the configured target
// label, caching resolved ids so the registry walk happens once per instance
// lifetime (the TTL only exists to recover if a host rebuilds its bar).
type targetResolver struct {
	bar   PanelBar
	label string
	cache *ttlworker.Cache[string, string]
}

func newTargetResolver(bar PanelBar, label string) *targetResolver {
	return &targetResolver{
		bar:   bar,
		label: strings.ToLower(strings.TrimSpace(label)),
		cache: ttlworker.NewCache[string, string](targetCacheTTL),
	}
}

// resolveOnce walks the registry and matches the target label
// case-insensitively against each panel's candidate label fields, first
// non-empty match wins.
func (r *targetResolver) resolveOnce() (string, error) {
	if r.label == "" {
		return "", fmt.Errorf("flash: no target panel label configured")
	}
	if id := r.cache.Get(r.label); id != "" {
		return id, nil
	}
	infos, err := r.bar.GetAllPanelInfo()
	if err != nil {
		return "", err
	}
	for _, info := range infos {
		for _, candidate := range info.Labels() {
			if candidate == "" {
				continue
			}
			header := strings.ToLower(candidate)
			if header == r.label || strings.Contains(header, r.label) {
				r.cache.Set(r.label, info.ID)
				return info.ID, nil
			}
			break // first non-empty label field decides for this panel
		}
	}
	return "", fmt.Errorf("flash: no panel matching label %q", r.label)
}

// resolve retries resolveOnce on a fixed delay; the panel registry populates
// asynchronously after component mount.
func (r *targetResolver) resolve(ctx context.Context, attempts int, delay time.Duration) (string, error) {
	return tool.RetryValue(ctx, attempts, delay, r.resolveOnce)
}
