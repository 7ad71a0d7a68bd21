package service

import "context"

// CompanyNameResolver resolves a display name for a normalized ticker.
type CompanyNameResolver interface {
	CompanyName(ctx context.Context, ticker string) string
}

// AIWorkflow runs an AI analysis workflow for an annotation. The returned
// map carries the workflow's named outputs.
type AIWorkflow interface {
	Run(ctx context.Context, input, mode string) (map[string]interface{}, error)
}
