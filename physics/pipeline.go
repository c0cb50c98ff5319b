package physics

import "sync"

// task applies fn to every element, split in contiguous chunks over at most
// workersCount goroutines. Each element is visited exactly once.
func task[T any](workersCount int, data []T, fn func(data T)) {
	dataSize := len(data)
	workersCount = min(workersCount, dataSize)
	if workersCount <= 1 {
		for _, d := range data {
			fn(d)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for start := 0; start < dataSize; start += chunkSize {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(start, min(start+chunkSize, dataSize))
	}
	wg.Wait()
}
