package memory_test

import (
	"testing"

	"github.com/devsanthoshmk/home360/pkg/adapters/memory"
	"github.com/devsanthoshmk/home360/pkg/ports"
)

func TestStoreContract(t *testing.T) {
	ports.RunStateStoreContract(t, memory.NewStore())
}
