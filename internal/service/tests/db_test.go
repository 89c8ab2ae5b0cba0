package service_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fazamuttaqien/lending/internal/model"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// One named in-memory database per test, shared across pooled connections.
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)

	err = model.AutoMigrate(db)
	assert.NoError(t, err)

	return db
}
