package projects

import (
	"context"

	"github.com/dberzins/envault/internal/cryptox"
)

type Repository interface {
	Create(ctx context.Context, project *Project) (*Project, error)
	GetByID(ctx context.Context, userID, id string) (*Project, error)
	ListByUser(ctx context.Context, userID string) ([]*Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, userID, id string) error

	ReplaceVariables(ctx context.Context, projectID string, vars []cryptox.EncryptedVariable) error
	GetVariables(ctx context.Context, projectID string) ([]cryptox.EncryptedVariable, error)
}
