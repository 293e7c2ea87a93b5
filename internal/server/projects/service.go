package projects

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dberzins/envault/internal/common"
	"github.com/dberzins/envault/internal/cryptox"
	"github.com/dberzins/envault/internal/dbx"
	"github.com/dberzins/envault/internal/logging"
)

type Service struct {
	db     *sql.DB
	repo   Repository
	logger logging.Logger
}

func NewService(db *sql.DB, logger logging.Logger) *Service {
	return &Service{
		db:     db,
		repo:   NewPostgresRepository(db),
		logger: logger.With("module", "projects"),
	}
}

// SecretForProject resolves the passphrase used to seal and open the
// project's variables.
//
// When the caller typed a private key it is first verified against the
// stored commitment; VerifySaltedHash permits an absent commitment here on
// purpose, since a project without one has nothing to gate. The secret
// itself is the stored hash when present, otherwise the generated opaque
// secret.
func SecretForProject(p *Project, typedPrivateKey string) (string, error) {
	typed := strings.TrimSpace(typedPrivateKey)
	if typed != "" {
		if !cryptox.VerifySaltedHash(typed, p.MasterKeyHash, p.MasterKeySalt) {
			return "", cryptox.ErrInvalidPrivateKey
		}
	}
	if p.MasterKeyHash != "" {
		return p.MasterKeyHash, nil
	}
	if p.MasterKeyEncrypted != "" {
		return p.MasterKeyEncrypted, nil
	}
	return "", cryptox.ErrMissingMasterSecret
}

// Create stores a new project. With a private key, the project commits to
// it and later reads must present it; without one, an opaque random secret
// is generated so the server can open the variables on demand. Variables
// are sealed one envelope each before anything touches the database, and
// the project row plus its variables land in one transaction.
func (s *Service) Create(ctx context.Context, userID, name, privateKey string, vars []cryptox.Variable) (*Project, error) {
	project := &Project{
		UserID: userID,
		Name:   name,
	}

	if strings.TrimSpace(privateKey) != "" {
		project.MasterKeyHash, project.MasterKeySalt = cryptox.ComputeSaltedHash(strings.TrimSpace(privateKey))
	} else {
		project.MasterKeyEncrypted = cryptox.EncodeBase64(common.GenerateRandByteArray(32))
	}

	secret, err := SecretForProject(project, "")
	if err != nil {
		return nil, err
	}

	sealed, err := cryptox.SealVariables(vars, secret)
	if err != nil {
		return nil, fmt.Errorf("error sealing variables: %v", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewPostgresRepository(tx)
		if _, err := repo.Create(ctx, project); err != nil {
			return err
		}
		return repo.ReplaceVariables(ctx, project.ID, sealed)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating project: %v", err)
	}

	return project, nil
}

// List returns the caller's projects without variables.
func (s *Service) List(ctx context.Context, userID string) ([]*Project, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns a project and its sealed variables. Values stay encrypted;
// use Reveal to decrypt.
func (s *Service) Get(ctx context.Context, userID, id string) (*Project, []cryptox.EncryptedVariable, error) {
	project, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	vars, err := s.repo.GetVariables(ctx, project.ID)
	if err != nil {
		return nil, nil, err
	}
	return project, vars, nil
}

// Reveal decrypts the project's variables. The returned map may omit
// entries that failed to open; names always lists every stored variable so
// callers can render the full set.
func (s *Service) Reveal(ctx context.Context, userID, id, typedPrivateKey string) (values map[string]string, names []string, err error) {
	project, vars, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	secret, err := SecretForProject(project, typedPrivateKey)
	if err != nil {
		return nil, nil, err
	}

	names = make([]string, 0, len(vars))
	for _, v := range vars {
		names = append(names, v.Name)
	}

	values = cryptox.OpenVariables(vars, secret)
	if len(values) < len(vars) {
		s.logger.Warn(ctx, "some variables failed to decrypt",
			"project_id", project.ID, "failed", len(vars)-len(values))
	}

	return values, names, nil
}

// Update renames the project and replaces its variable set with freshly
// sealed envelopes. The gate is checked before any write.
func (s *Service) Update(ctx context.Context, userID, id, name, typedPrivateKey string, vars []cryptox.Variable) error {
	project, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	secret, err := SecretForProject(project, typedPrivateKey)
	if err != nil {
		return err
	}

	sealed, err := cryptox.SealVariables(vars, secret)
	if err != nil {
		return fmt.Errorf("error sealing variables: %v", err)
	}

	project.Name = name

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewPostgresRepository(tx)
		if err := repo.Update(ctx, project); err != nil {
			return err
		}
		return repo.ReplaceVariables(ctx, project.ID, sealed)
	})
}

// Delete removes the project and, via cascade, its variables.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
