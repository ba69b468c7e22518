// Package dispatch routes completion requests across three failover provider
// slots, retrying with a fixed rotation until one succeeds or the attempt
// budget is spent.
package dispatch

import (
	"fmt"

	"github.com/atomiclibrary/atom/src/config"
)

// Role selects which credential set and model family a dispatch uses.
type Role string

const (
	RoleChat   Role = "chat"
	RoleVision Role = "vision"
)

// ProviderID identifies one of the three failover credential slots. The
// slots share an upstream endpoint; only the key differs.
type ProviderID int

// FirstProvider is where every dispatch starts.
const FirstProvider ProviderID = 1

const providerCount = 3

// NextProviderID returns the cyclic successor: 1→2→3→1.
func NextProviderID(id ProviderID) ProviderID {
	return id%providerCount + 1
}

// Pool is a read-only registry of credentials and model selection, built
// once from configuration.
type Pool struct {
	chatKeys   [providerCount]string
	visionKeys [providerCount]string
	models     config.ModelSelection
}

// NewPool builds a pool from configuration. The config loader guarantees
// exactly three credential slots per role.
func NewPool(cfg *config.Config) *Pool {
	p := &Pool{models: cfg.Models}
	copy(p.chatKeys[:], cfg.Credentials.Chat)
	copy(p.visionKeys[:], cfg.Credentials.Vision)
	return p
}

// Credential returns the API key for a provider slot and role.
func (p *Pool) Credential(id ProviderID, role Role) (string, error) {
	if id < 1 || id > providerCount {
		return "", fmt.Errorf("unknown provider id %d", id)
	}

	var key string
	switch role {
	case RoleVision:
		key = p.visionKeys[id-1]
	default:
		key = p.chatKeys[id-1]
	}

	if key == "" {
		return "", fmt.Errorf("no %s credential configured for provider %d", role, id)
	}
	return key, nil
}

// ModelFor selects the model for an attempt. Chat dispatches try the primary
// model first and fall back to the backup on every later attempt; vision
// always uses the single vision model. Model selection is attempt-indexed
// while the credential is provider-indexed; the two rotate independently.
func (p *Pool) ModelFor(role Role, attempt int) string {
	if role == RoleVision {
		return p.models.Vision
	}
	if attempt == 0 {
		return p.models.Primary
	}
	return p.models.Backup
}
