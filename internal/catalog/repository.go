package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bzt-portal/training-scheduler/internal/models"
	"github.com/bzt-portal/training-scheduler/pkg/apperror"
)

// Repository handles category and class persistence. Every statement carries
// the tenant ID as an equality predicate; ids are unique per tenant only.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a catalog repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const categoryColumns = `tenant_id, id, name, display_name, icon, sort_order, active, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var cat models.Category
	err := row.Scan(&cat.TenantID, &cat.ID, &cat.Name, &cat.DisplayName, &cat.Icon,
		&cat.SortOrder, &cat.Active, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// ListCategories returns the tenant's categories ordered by sort order then
// display name. Inactive categories are excluded unless includeInactive is set.
func (r *Repository) ListCategories(ctx context.Context, tenantID int64, includeInactive bool) ([]models.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM training_categories WHERE tenant_id = $1`
	if !includeInactive {
		q += ` AND active = TRUE`
	}
	q += ` ORDER BY sort_order ASC, display_name ASC`

	rows, err := r.pool.Query(ctx, q, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	list := []models.Category{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *cat)
	}
	return list, rows.Err()
}

// GetCategory returns a category by ID within the tenant scope.
func (r *Repository) GetCategory(ctx context.Context, tenantID int64, id string) (*models.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM training_categories WHERE id = $1 AND tenant_id = $2`
	cat, err := scanCategory(r.pool.QueryRow(ctx, q, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return cat, nil
}

// NewCategory carries the fields accepted when creating a category.
type NewCategory struct {
	ID          string
	Name        string
	DisplayName string
	Icon        *string
	SortOrder   int
	Active      *bool
}

// CreateCategory inserts a category and returns the stored row. Name defaults
// to the ID and display name to the name when unset.
func (r *Repository) CreateCategory(ctx context.Context, tenantID int64, in NewCategory) (*models.Category, error) {
	if in.ID == "" {
		return nil, fmt.Errorf("%w: category id is required", apperror.ErrValidation)
	}
	name := in.Name
	if name == "" {
		name = in.ID
	}
	displayName := in.DisplayName
	if displayName == "" {
		displayName = name
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	const q = `INSERT INTO training_categories (tenant_id, id, name, display_name, icon, sort_order, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + categoryColumns
	cat, err := scanCategory(r.pool.QueryRow(ctx, q, tenantID, in.ID, name, displayName, in.Icon, in.SortOrder, active))
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

// CategoryPatch carries the fields of a sparse category update. Nil fields
// keep their prior values.
type CategoryPatch struct {
	Name        *string
	DisplayName *string
	Icon        *string
	SortOrder   *int
	Active      *bool
}

// UpdateCategory applies a sparse update and returns the post-write row. An
// empty patch returns the current row unchanged.
func (r *Repository) UpdateCategory(ctx context.Context, tenantID int64, id string, patch CategoryPatch) (*models.Category, error) {
	var sets []string
	var args []interface{}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.DisplayName != nil {
		add("display_name", *patch.DisplayName)
	}
	if patch.Icon != nil {
		add("icon", *patch.Icon)
	}
	if patch.SortOrder != nil {
		add("sort_order", *patch.SortOrder)
	}
	if patch.Active != nil {
		add("active", *patch.Active)
	}
	if len(sets) == 0 {
		return r.GetCategory(ctx, tenantID, id)
	}

	args = append(args, id, tenantID)
	q := fmt.Sprintf(`UPDATE training_categories SET %s, updated_at = NOW() WHERE id = $%d AND tenant_id = $%d RETURNING `+categoryColumns,
		strings.Join(sets, ", "), len(args)-1, len(args))
	cat, err := scanCategory(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return cat, nil
}

const classColumns = `tenant_id, id, name, level, duration, tuition_cents, category, sort_order, badge,
	summary, description, highlights, equipment, prerequisites, active, created_at, updated_at`

func scanClass(row pgx.Row) (*models.Class, error) {
	var cl models.Class
	err := row.Scan(&cl.TenantID, &cl.ID, &cl.Name, &cl.Level, &cl.Duration, &cl.TuitionCents,
		&cl.Category, &cl.SortOrder, &cl.Badge, &cl.Summary, &cl.Description,
		&cl.Highlights, &cl.Equipment, &cl.Prerequisites, &cl.Active, &cl.CreatedAt, &cl.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

// levelRank orders Beginner < Intermediate < Advanced < everything else.
const levelRank = `CASE level
	WHEN 'Beginner' THEN 1
	WHEN 'Intermediate' THEN 2
	WHEN 'Advanced' THEN 3
	ELSE 4
END`

// ListClasses returns the tenant's active classes, optionally filtered by
// category ("" or "all" means no filter) and a case-insensitive substring
// search over name, summary and description.
func (r *Repository) ListClasses(ctx context.Context, tenantID int64, category, search string) ([]models.Class, error) {
	q := `SELECT ` + classColumns + ` FROM training_classes WHERE tenant_id = $1 AND active = TRUE`
	args := []interface{}{tenantID}

	if category != "" && category != "all" {
		args = append(args, category)
		q += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if s := strings.TrimSpace(search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		q += fmt.Sprintf(` AND (name ILIKE $%d OR summary ILIKE $%d OR description ILIKE $%d)`, n, n, n)
	}
	q += ` ORDER BY ` + levelRank + `, sort_order ASC, name ASC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	list := []models.Class{}
	for rows.Next() {
		cl, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *cl)
	}
	return list, rows.Err()
}

// GetClass returns an active class by ID within the tenant scope.
func (r *Repository) GetClass(ctx context.Context, tenantID int64, id string) (*models.Class, error) {
	const q = `SELECT ` + classColumns + ` FROM training_classes WHERE id = $1 AND tenant_id = $2 AND active = TRUE`
	cl, err := scanClass(r.pool.QueryRow(ctx, q, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return cl, nil
}

// NewClass carries the fields accepted when creating a class.
type NewClass struct {
	ID            string
	Name          string
	Level         string
	Duration      *string
	TuitionCents  int64
	Category      string
	SortOrder     int
	Badge         *string
	Summary       *string
	Description   *string
	Highlights    *string
	Equipment     *string
	Prerequisites *string
	Active        *bool
}

// CreateClass inserts a class and returns the stored row.
func (r *Repository) CreateClass(ctx context.Context, tenantID int64, in NewClass) (*models.Class, error) {
	switch {
	case in.ID == "":
		return nil, fmt.Errorf("%w: class id is required", apperror.ErrValidation)
	case in.Name == "":
		return nil, fmt.Errorf("%w: class name is required", apperror.ErrValidation)
	case in.Level == "":
		return nil, fmt.Errorf("%w: class level is required", apperror.ErrValidation)
	case in.TuitionCents < 0:
		return nil, fmt.Errorf("%w: tuition must be non-negative", apperror.ErrValidation)
	}
	category := in.Category
	if category == "" {
		category = "other"
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	const q = `INSERT INTO training_classes
		(tenant_id, id, name, level, duration, tuition_cents, category, sort_order, badge,
		 summary, description, highlights, equipment, prerequisites, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + classColumns
	cl, err := scanClass(r.pool.QueryRow(ctx, q, tenantID, in.ID, in.Name, in.Level, in.Duration,
		in.TuitionCents, category, in.SortOrder, in.Badge, in.Summary, in.Description,
		in.Highlights, in.Equipment, in.Prerequisites, active))
	if err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}
	return cl, nil
}

// ClassPatch carries the fields of a sparse class update. Nil fields keep
// their prior values.
type ClassPatch struct {
	Name          *string
	Level         *string
	Duration      *string
	TuitionCents  *int64
	Category      *string
	SortOrder     *int
	Badge         *string
	Summary       *string
	Description   *string
	Highlights    *string
	Equipment     *string
	Prerequisites *string
	Active        *bool
}

// UpdateClass applies a sparse update and returns the post-write row. An
// empty patch returns the current row unchanged.
func (r *Repository) UpdateClass(ctx context.Context, tenantID int64, id string, patch ClassPatch) (*models.Class, error) {
	if patch.TuitionCents != nil && *patch.TuitionCents < 0 {
		return nil, fmt.Errorf("%w: tuition must be non-negative", apperror.ErrValidation)
	}

	var sets []string
	var args []interface{}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Level != nil {
		add("level", *patch.Level)
	}
	if patch.Duration != nil {
		add("duration", *patch.Duration)
	}
	if patch.TuitionCents != nil {
		add("tuition_cents", *patch.TuitionCents)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.SortOrder != nil {
		add("sort_order", *patch.SortOrder)
	}
	if patch.Badge != nil {
		add("badge", *patch.Badge)
	}
	if patch.Summary != nil {
		add("summary", *patch.Summary)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Highlights != nil {
		add("highlights", *patch.Highlights)
	}
	if patch.Equipment != nil {
		add("equipment", *patch.Equipment)
	}
	if patch.Prerequisites != nil {
		add("prerequisites", *patch.Prerequisites)
	}
	if patch.Active != nil {
		add("active", *patch.Active)
	}
	if len(sets) == 0 {
		return r.GetClass(ctx, tenantID, id)
	}

	args = append(args, id, tenantID)
	q := fmt.Sprintf(`UPDATE training_classes SET %s, updated_at = NOW() WHERE id = $%d AND tenant_id = $%d RETURNING `+classColumns,
		strings.Join(sets, ", "), len(args)-1, len(args))
	cl, err := scanClass(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("update class: %w", err)
	}
	return cl, nil
}
