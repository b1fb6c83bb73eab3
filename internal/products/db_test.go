package product

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/flamoure/flamoure-backend/pkg/db/models"
	"github.com/flamoure/flamoure-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("FLAMOURE_DB_DSN")
	if dsn == "" {
		t.Skip("FLAMOURE_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, productType enums.ProductType, price int64, active bool) *models.Product {
	t.Helper()

	slug := fmt.Sprintf("test-%s", uuid.NewString())
	row := &models.Product{
		Slug:     slug,
		Name:     "Test Listing",
		Type:     productType,
		Price:    price,
		IsActive: active,
	}
	if productType == enums.ProductTypePhotostrip {
		slots := 3
		row.SlotCount = &slots
	}
	if err := tx.Create(row).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return row
}
