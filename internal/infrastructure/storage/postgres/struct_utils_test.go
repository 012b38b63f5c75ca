package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stockpilot/internal/core/entity"
	"stockpilot/internal/core/id"
)

type MockCatalog struct {
	entity.BaseCatalog
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

type MockDocument struct {
	entity.BaseDocument
	Number string `db:"number" json:"number"`
	Skip   string `db:"-" json:"skip"`
}

func TestExtractDBColumns_EmbeddedStructs(t *testing.T) {
	cols := ExtractDBColumns[MockCatalog]()

	expectedCols := []string{"id", "deletion_mark", "version", "code", "name"}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestExtractDBColumns_SkipsDashTag(t *testing.T) {
	cols := ExtractDBColumns[MockDocument]()

	assert.Contains(t, cols, "number")
	assert.Contains(t, cols, "created_at")
	assert.NotContains(t, cols, "-")
	for _, c := range cols {
		assert.NotEqual(t, "Skip", c)
	}
}

func TestStructToMap_EmbeddedStructs(t *testing.T) {
	cat := MockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		Code: "TEST",
		Name: "Test Name",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "TEST", m["code"])
	assert.Equal(t, "Test Name", m["name"])
}

func TestStructToMap_AuditFields(t *testing.T) {
	now := time.Now().UTC()
	doc := MockDocument{
		BaseDocument: entity.BaseDocument{
			BaseEntity: entity.NewBaseEntity(),
			CreatedAt:  now,
			UpdatedAt:  now,
			CreatedBy:  "user-1",
		},
		Number: "DOC-001",
		Skip:   "ignored",
	}

	m := StructToMap(doc)

	assert.Equal(t, "DOC-001", m["number"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "user-1", m["created_by"])
	assert.NotContains(t, m, "Skip")
	assert.NotContains(t, m, "-")
}
