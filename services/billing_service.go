package services

import (
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"pgmanager-backend/models"
	"pgmanager-backend/utils"
)

// ErrVersionConflict signals that a row changed under the caller's feet; the
// update carried a stale version and was not applied.
var ErrVersionConflict = errors.New("row was modified by another user")

const invoiceRetries = 5

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	// sqlite in tests reports the violation by message only.
	return strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateBill assigns a generated invoice id and inserts the bill. The random
// invoice suffix can collide, so the insert retries under the unique index.
func CreateBill(db *gorm.DB, bill *models.Bill) error {
	var err error
	for attempt := 0; attempt < invoiceRetries; attempt++ {
		bill.InvoiceID, err = utils.GenerateInvoiceID(time.Now())
		if err != nil {
			return err
		}
		bill.Version = 1
		err = db.Create(bill).Error
		if !isDuplicateKey(err) {
			return err
		}
	}
	return err
}

// UpdateVersioned applies updates to the row only if the caller still holds
// the current version, bumping the version in the same statement. A stale
// version returns ErrVersionConflict so the API can answer 409.
func UpdateVersioned(db *gorm.DB, model interface{}, id uint, version uint, updates map[string]interface{}) error {
	delete(updates, "id")
	delete(updates, "version")
	delete(updates, "created_at")
	updates["version"] = version + 1

	res := db.Model(model).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
