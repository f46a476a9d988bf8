package postgres

import (
	"context"

	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the repository.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a repository.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Create persists a new account entity to the database.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailTaken.WrapMessage("email already registered")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required account information")
		}

		return domainerrors.NewDatabaseError(err, "failed to create account")
	}

	// Propagate generated ID and timestamps back to the entity.
	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel

	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// FindByEmail retrieves a single account by its normalized email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel

	err := repo.db.WithContext(ctx).
		Where("email = ?", entity.NormalizeEmail(email)).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

// Update modifies an existing account entity in the database.
// Save writes all columns so cleared fields (e.g. the refresh token slot)
// are persisted as well.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Save(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailTaken.WrapMessage("email already registered")
		}

		return domainerrors.NewDatabaseError(err, "failed to update account")
	}

	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// List returns a page of accounts matching the filter and the total match count.
func (repo *accountRepository) List(ctx context.Context, filter repository.AccountFilter, page repository.Page) ([]*entity.Account, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.AccountModel{})

	if filter.Role.IsValid() {
		query = query.Where("role = ?", filter.Role.String())
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count accounts")
	}

	var accountMs []model.AccountModel
	err := query.
		Order(page.SortBy + " " + page.SortOrder).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&accountMs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list accounts")
	}

	accounts := make([]*entity.Account, 0, len(accountMs))
	for i := range accountMs {
		accounts = append(accounts, toAccountDomain(&accountMs[i]))
	}

	return accounts, total, nil
}

// CountByRole returns the number of accounts holding the given role.
func (repo *accountRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	var count int64

	err := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("role = ?", role.String()).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count accounts by role")
	}

	return count, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	role, _ := entity.RoleFromString(data.Role)

	return &entity.Account{
		ID:               data.ID,
		Email:            data.Email,
		Name:             data.Name,
		PasswordHash:     data.PasswordHash,
		Role:             role,
		Phone:            data.Phone,
		Address:          data.Address,
		IsActive:         data.IsActive,
		LastLoginAt:      data.LastLoginAt,
		RefreshTokenHash: data.RefreshTokenHash,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel for persistence.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:               data.ID,
		Email:            entity.NormalizeEmail(data.Email),
		Name:             data.Name,
		PasswordHash:     data.PasswordHash,
		Role:             data.Role.String(),
		Phone:            data.Phone,
		Address:          data.Address,
		IsActive:         data.IsActive,
		LastLoginAt:      data.LastLoginAt,
		RefreshTokenHash: data.RefreshTokenHash,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
