package sim

import "sort"

// Counts maps an observed bitstring to the number of shots that produced it.
type Counts map[string]int

// KeyCount is one entry of Counts.
type KeyCount struct {
	Key   string
	Count int
}

// MostCommon returns the n most frequent outcomes, ties broken by key. n <= 0
// returns all of them.
func (c Counts) MostCommon(n int) []KeyCount {
	out := make([]KeyCount, 0, len(c))
	for k, v := range c {
		out = append(out, KeyCount{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Total is the number of shots recorded.
func (c Counts) Total() int {
	t := 0
	for _, v := range c {
		t += v
	}
	return t
}

// Frequency is the empirical probability of key.
func (c Counts) Frequency(key string) float64 {
	t := c.Total()
	if t == 0 {
		return 0
	}
	return float64(c[key]) / float64(t)
}

// Merge adds o into c.
func (c Counts) Merge(o Counts) {
	for k, v := range o {
		c[k] += v
	}
}
