package resettokens

import "context"

type Repository interface {
	Create(ctx context.Context, token *ResetToken) (*ResetToken, error)
	FindByID(ctx context.Context, id string) (*ResetToken, error)
	MarkUsed(ctx context.Context, id string) error
	DeleteUnusedByUser(ctx context.Context, userID string) error
}
