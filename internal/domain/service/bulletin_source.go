package service

import (
	"context"
)

// BulletinSource defines the interface for retrieving the raw daily bulletin
type BulletinSource interface {
	// FetchBulletin returns the bulletin text exactly as published
	FetchBulletin(ctx context.Context) (string, error)
}
