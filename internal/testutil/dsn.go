package testutil

import (
	"fmt"

	"github.com/google/uuid"
)

// NewTestDSN generates a DSN for an in-memory SQLite database for testing purposes.
// A random suffix keeps databases apart when the same test name is reused.
func NewTestDSN(testName string) string {
	return fmt.Sprintf("file:%s-%s?mode=memory&cache=shared", testName, uuid.NewString())
}
