package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/helpdeskhq/chatflash-go/types"
)

// PanelBar exposes the host application's utility bar over its panel API. It
// satisfies the registry interface the flash controller polls, so the bridge
// between chat events and the visible panel chrome stays HTTP-shaped.
type PanelBar struct {
	c *Client
}

func NewPanelBar(c *Client) *PanelBar {
	return &PanelBar{c: c}
}

func (p *PanelBar) GetAllPanelInfo() ([]types.PanelInfo, error) {
	var out []types.PanelInfo
	err := p.c.call(context.Background(), http.MethodGet, "/api/panel/v1/panels", nil, &out)
	return out, err
}

func (p *PanelBar) GetPanelInfo(id string) (types.PanelInfo, error) {
	var out types.PanelInfo
	err := p.c.call(context.Background(), http.MethodGet, "/api/panel/v1/panels/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (p *PanelBar) SetPanelHighlighted(id string, highlighted bool) error {
	body := map[string]any{"highlighted": highlighted}
	return p.c.call(context.Background(), http.MethodPost, "/api/panel/v1/panels/"+url.PathEscape(id)+"/highlight", body, nil)
}
