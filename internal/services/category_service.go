package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "wallet/internal/errors"
	"wallet/internal/models"
	"wallet/internal/pagination"
	"wallet/internal/query"
)

const maxCategoryName = 100

var categoryOrderFields = query.Fields{
	"name":       {Table: "categories", Name: "name"},
	"created_at": {Table: "categories", Name: "created_at"},
}

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

func validateCategoryName(name string) error {
	if name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryName {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name must be at most 100 characters")
	}
	return nil
}

// nameTaken reports whether another live category of the user has name.
func (s *categoryService) nameTaken(userID, name, exceptID string) (bool, error) {
	var count int64
	q := s.db.Model(&models.Category{}).Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(userID, name, color string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if color == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category color is required")
	}

	taken, err := s.nameTaken(userID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Color:  strings.ToLower(color),
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetUserCategories retrieves a paginated list of categories for a user.
func (s *categoryService) GetUserCategories(userID string, page pagination.PageRequest, orderBy string) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	orders, err := query.ParseOrderBy(orderBy, "asc", categoryOrderFields)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		orders = []query.Order{{Field: "name"}}
	}

	base := s.db.Model(&models.Category{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.
		Scopes(query.OrderScope(orders, categoryOrderFields), pagination.Paginate(page)).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "categories", Name: "id"}}).
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse("categories", categories, page.Page, page.PerPage, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	return findCategory(s.db, userID, categoryID)
}

func findCategory(db *gorm.DB, userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory renames or recolors a category. Nil fields are unchanged.
func (s *categoryService) UpdateCategory(userID, categoryID string, name, color *string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil {
		n := strings.TrimSpace(*name)
		if err := validateCategoryName(n); err != nil {
			return nil, err
		}
		taken, err := s.nameTaken(userID, n, categoryID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrDuplicateCategory
		}
		updates["name"] = n
	}
	if color != nil && *color != "" {
		updates["color"] = strings.ToLower(*color)
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory soft-deletes a category. Entries keep their category_id and
// read back uncategorized.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
