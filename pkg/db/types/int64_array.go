package dbtypes

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Int64Array is an ordered bigint[] column. Scanning and encoding use the
// Postgres array literal via lib/pq; on sqlite the literal is stored as text.
type Int64Array []int64

func (a *Int64Array) Scan(src any) error {
	var arr pq.Int64Array
	if err := arr.Scan(src); err != nil {
		return err
	}
	if arr == nil {
		*a = Int64Array{}
		return nil
	}
	*a = Int64Array(arr)
	return nil
}

func (a Int64Array) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	return pq.Int64Array(a).Value()
}

// GormDBDataType picks the column type per dialect.
func (Int64Array) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "bigint[]"
	}
	return "text"
}
