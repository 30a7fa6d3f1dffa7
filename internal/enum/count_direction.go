package enum

type CountDirection string

const (
	CountIncrease CountDirection = "increase"
	CountDecrease CountDirection = "decrease"
)

func (d CountDirection) Delta() int {
	if d == CountDecrease {
		return -1
	}
	return 1
}

func DecodeCountDirection(s string) CountDirection {
	if CountDirection(s) == CountDecrease {
		return CountDecrease
	}
	return CountIncrease
}
