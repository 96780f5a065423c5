package services

import (
	"context"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
)

// PolicyProvider supplies tenant return policy. The engine consumes the
// values as-is; it never interprets or caches them.
type PolicyProvider interface {
	ReturnPolicy(ctx context.Context, tenantID string) (domain.ReturnPolicy, error)
}

// StaticPolicy answers every tenant with the same configured policy.
type StaticPolicy struct {
	Policy domain.ReturnPolicy
}

func (p StaticPolicy) ReturnPolicy(context.Context, string) (domain.ReturnPolicy, error) {
	return p.Policy, nil
}
