package allure

import (
	"crypto/md5"
	"encoding/hex"
	"sort"

	"github.com/google/uuid"

	"github.com/zinc-sig/ghost-allure/pkg/model"
)

// HistoryFunc derives the history id of a test from its full name and parameters.
type HistoryFunc func(fullName string, params []model.Parameter) string

// DefaultHistoryID hashes the full name and the non-excluded parameters, so the
// same test with the same parameters correlates across runs.
func DefaultHistoryID(fullName string, params []model.Parameter) string {
	included := make([]model.Parameter, 0, len(params))
	for _, p := range params {
		if !p.Excluded {
			included = append(included, p)
		}
	}
	sort.SliceStable(included, func(i, j int) bool {
		return included[i].Name < included[j].Name
	})

	h := md5.New()
	h.Write([]byte(fullName))
	for _, p := range included {
		h.Write([]byte{0})
		h.Write([]byte(p.Name))
		h.Write([]byte{'='})
		h.Write([]byte(p.Value))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// RandomHistoryID gives every run its own history id.
func RandomHistoryID(string, []model.Parameter) string {
	return uuid.New().String()
}

// TestCaseID identifies the test case independent of its parameters.
func TestCaseID(fullName string) string {
	sum := md5.Sum([]byte(fullName))
	return hex.EncodeToString(sum[:])
}
