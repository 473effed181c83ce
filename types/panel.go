package types

// PanelInfo describes one panel of the host panel registry. Different hosts
// populate different label fields, so target resolution checks them in order.
type PanelInfo struct {
	ID               string `json:"id"`
	PanelHeaderLabel string `json:"panelHeaderLabel,omitempty"`
	UtilityLabel     string `json:"utilityLabel,omitempty"`
	Label            string `json:"label,omitempty"`
	Visible          bool   `json:"visible"`
	Highlighted      bool   `json:"highlighted"`
}

// Labels returns the candidate label fields in resolution order.
func (p PanelInfo) Labels() []string {
	return []string{p.PanelHeaderLabel, p.UtilityLabel, p.Label}
}
