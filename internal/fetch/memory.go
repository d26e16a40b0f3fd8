package fetch

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

// MemoryProbe reports how many bytes can currently be allocated.
type MemoryProbe func(ctx context.Context) (uint64, error)

// AvailableMemory returns the memory the OS reports as available for new
// allocations without swapping.
func AvailableMemory(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("query virtual memory: %w", err)
	}
	return vm.Available, nil
}
