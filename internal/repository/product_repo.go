package repository

import (
	"context"

	"go-forklift-catalog/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	// ReplaceImages deletes and recreates the product's images wholesale.
	// Images have no ownership outside the product, so no partial patch.
	ReplaceImages(productID uuid.UUID, images []model.ProductImage) error
	// Delete removes the images first, then the product, in one transaction.
	Delete(id uuid.UUID, deletedBy string) error
	FindAll(publishedOnly bool) ([]model.Product, error)
	FindBySerialNumber(serial string) (*model.Product, error)
	FindWithoutSlug() ([]model.Product, error)
	AllSlugs() ([]string, error)
	AllImages() ([]model.ProductImage, error)
	UpdateImageURL(imageID uuid.UUID, url string) error

	// Read side consumed by the resolver (context-aware so an abandoned
	// request abandons its in-flight store calls)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindByNameLike(ctx context.Context, name string, limit int) ([]model.Product, error)
	ImagesFor(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Omit("Images").Save(product).Error
}

func (r *productRepo) ReplaceImages(productID uuid.UUID, images []model.ProductImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ID = uuid.Nil
			images[i].ProductID = productID
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}

func (r *productRepo) Delete(id uuid.UUID, deletedBy string) error {
	// Referential-integrity ordering: child images go before the product row
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Product{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
}

func (r *productRepo) FindAll(publishedOnly bool) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC NULLS LAST, created_at ASC")
	})
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindBySerialNumber(serial string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "serial_number = ?", serial).Error
	return &product, err
}

func (r *productRepo) FindWithoutSlug() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("slug = '' OR slug IS NULL").Find(&products).Error
	return products, err
}

func (r *productRepo) AllSlugs() ([]string, error) {
	var slugs []string
	err := r.db.Model(&model.Product{}).Where("slug <> ''").Pluck("slug", &slugs).Error
	return slugs, err
}

func (r *productRepo) AllImages() ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.db.Find(&images).Error
	return images, err
}

func (r *productRepo) UpdateImageURL(imageID uuid.UUID, url string) error {
	return r.db.Model(&model.ProductImage{}).Where("id = ?", imageID).Update("url", url).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "slug = ? AND slug <> ''", slug).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByNameLike(ctx context.Context, name string, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+name+"%").
		Limit(limit).
		Order("created_at ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) ImagesFor(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&images).Error
	return images, err
}
