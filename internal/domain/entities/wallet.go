package entities

// WalletSession is the connection state owned by the active wallet adapter
type WalletSession struct {
	Connected          bool     `json:"connected"`
	Address            string   `json:"address,omitempty"`
	Network            string   `json:"network,omitempty"`
	Accounts           []string `json:"accounts"`
	ActiveAccountIndex int      `json:"activeAccountIndex"`
}

// ActiveAccount returns the selected account address
func (s WalletSession) ActiveAccount() (string, bool) {
	if !s.Connected || s.ActiveAccountIndex < 0 || s.ActiveAccountIndex >= len(s.Accounts) {
		return "", false
	}
	return s.Accounts[s.ActiveAccountIndex], true
}
