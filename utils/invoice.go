package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateInvoiceID builds an invoice id like "INV-20230501-4821". The random
// suffix can collide, so callers insert under a unique index and retry.
func GenerateInvoiceID(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%04d", now.Format("20060102"), n.Int64()), nil
}
