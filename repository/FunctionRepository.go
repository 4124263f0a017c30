package repository

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

func GenerateRandomNumber() int {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return rng.Intn(900000000) + 100000000
}

// GenerateRandomCode returns a short code of two uppercase letters followed
// by five digits, e.g. "AB12345".
func GenerateRandomCode() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	prefix := string(letters[rng.Intn(len(letters))]) + string(letters[rng.Intn(len(letters))])
	number := rng.Intn(90000) + 10000

	return fmt.Sprintf("%s%d", prefix, number)
}

// GenerateOrderNumber builds a purchase-order number in the format
// "PO-AB12345". Uniqueness is enforced by the purchase_orders table.
func GenerateOrderNumber() string {
	return "PO-" + GenerateRandomCode()
}

// NormalizeReferenceName trims and collapses inner whitespace in a
// reference-data name before it is stored or compared.
func NormalizeReferenceName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
