package store

// NextDeskNumber picks the lowest positive integer not taken by a live desk,
// scanning up to limit. Gaps left by deleted desks are always filled before
// the sequence grows.
func NextDeskNumber(existing []int, limit int) (int, error) {
	if limit <= 0 {
		limit = 999
	}
	taken := make(map[int]bool, len(existing))
	for _, number := range existing {
		taken[number] = true
	}
	for candidate := 1; candidate <= limit; candidate++ {
		if !taken[candidate] {
			return candidate, nil
		}
	}
	return 0, ErrDeskNumbersExhausted
}
