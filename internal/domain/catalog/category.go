package catalog

import (
	"time"

	"github.com/catalog/backend/internal/domain/shared"
)

// Category represents a product category mirrored from the external ERP.
// Categories form a tree encoded with a materialized path; the ERP is the
// source of truth and local rows are overwritten on every sync.
type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Partition string    `gorm:"type:varchar(50);not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Slug      string    `gorm:"type:varchar(150);not null;uniqueIndex"`
	ParentID  *int64    `gorm:"index"`
	Path      string    `gorm:"type:varchar(500);not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "product_categories"
}

// NewCategory creates a category after validating all invariants
func NewCategory(id int64, partition, name, slug string, parentID *int64, path TreePath) (*Category, error) {
	externalID, err := shared.NewExternalID(id)
	if err != nil {
		return nil, err
	}
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if err := validatePartition(partition); err != nil {
		return nil, err
	}
	if _, err := ParseTreePath(path.String()); err != nil {
		return nil, err
	}
	if parentID != nil && *parentID == id {
		return nil, shared.NewDomainError("INVALID_PARENT", "Category cannot be its own parent")
	}

	return &Category{
		ID:        externalID.Int64(),
		Partition: partition,
		Name:      name,
		Slug:      slug,
		ParentID:  parentID,
		Path:      path.String(),
	}, nil
}

// Rename updates the category name and slug, re-running validation
func (c *Category) Rename(name, slug string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = name
	c.Slug = slug
	c.UpdatedAt = time.Now()
	return nil
}

// Reparent moves the category under a new parent path.
// It rejects self-parenting and moves under the category's own
// descendants; both would corrupt the tree.
func (c *Category) Reparent(newParentID int64, newParentPath TreePath) error {
	current := TreePath(c.Path)
	if newParentPath == current {
		return shared.NewDomainError("INVALID_REPARENT", "Category cannot be its own parent")
	}
	if current.IsAncestorOf(newParentPath) {
		return shared.NewDomainError("INVALID_REPARENT", "Category cannot be moved under its own descendant")
	}
	newPath, err := newParentPath.Child(current.Leaf())
	if err != nil {
		return err
	}
	c.ParentID = &newParentID
	c.Path = newPath.String()
	c.UpdatedAt = time.Now()
	return nil
}

// RelocateRoot rewrites the materialized path of a partition root.
// Non-root categories move through Reparent so their subtree guards run.
func (c *Category) RelocateRoot(path TreePath) error {
	if !c.IsRoot() {
		return shared.NewDomainError("INVALID_REPARENT", "Only a root category can be relocated directly")
	}
	if _, err := ParseTreePath(path.String()); err != nil {
		return err
	}
	c.Path = path.String()
	c.UpdatedAt = time.Now()
	return nil
}

// IsRoot returns true if this is a partition root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// TreePath returns the materialized path as a value type
func (c *Category) TreePath() TreePath {
	return TreePath(c.Path)
}

// IsAncestorOf returns true if this category is an ancestor of other
func (c *Category) IsAncestorOf(other *Category) bool {
	if other == nil {
		return false
	}
	return c.TreePath().IsAncestorOf(other.TreePath())
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}

func validatePartition(partition string) error {
	if partition == "" {
		return shared.NewDomainError("INVALID_PARTITION", "Partition cannot be empty")
	}
	return nil
}
