package domain

import "context"

// ServicePort defines the service contract for touchlog
type ServicePort interface {
	Record(ctx context.Context, t Touch) error
	Recent(ctx context.Context, in RecentInput) ([]Touch, error)
}
