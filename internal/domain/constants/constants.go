// Package constants defines shared constant values used across layers.
package constants

// Pub/Sub provider names selectable via configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
