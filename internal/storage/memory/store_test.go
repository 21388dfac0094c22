package memory

import (
	"testing"

	"financas/internal/storage/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, New())
}
