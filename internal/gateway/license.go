package gateway

import "context"

// CheckLicenseStatus reports whether an activated license is stored.
func (g *Gateway) CheckLicenseStatus(_ context.Context) bool {
	_, err := g.store.GetCredentials()
	return err == nil
}
