package shared

import "fmt"

// Battery represents an immutable battery state
type Battery struct {
	Level    float64
	Capacity float64
}

// NewBattery creates a new battery value object with validation
func NewBattery(level, capacity float64) (*Battery, error) {
	if level < 0 {
		return nil, fmt.Errorf("battery level cannot be negative")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("battery capacity must be positive")
	}
	if level > capacity {
		return nil, fmt.Errorf("battery level cannot exceed capacity")
	}

	return &Battery{
		Level:    level,
		Capacity: capacity,
	}, nil
}

// Percentage returns charge as percentage of capacity
func (b *Battery) Percentage() float64 {
	return b.Level / b.Capacity * 100.0
}

// Drain returns a new Battery with amount removed, clamped at zero
func (b *Battery) Drain(amount float64) (*Battery, error) {
	if amount < 0 {
		return nil, fmt.Errorf("drain amount cannot be negative")
	}
	newLevel := b.Level - amount
	if newLevel < 0 {
		newLevel = 0
	}
	return &Battery{
		Level:    newLevel,
		Capacity: b.Capacity,
	}, nil
}

// Charge returns a new Battery with amount added, clamped at capacity
func (b *Battery) Charge(amount float64) (*Battery, error) {
	if amount < 0 {
		return nil, fmt.Errorf("charge amount cannot be negative")
	}
	newLevel := b.Level + amount
	if newLevel > b.Capacity {
		newLevel = b.Capacity
	}
	return &Battery{
		Level:    newLevel,
		Capacity: b.Capacity,
	}, nil
}

// CanTravel checks if the charge covers the given steps with a safety margin
func (b *Battery) CanTravel(steps int, drainRate, safetyMargin float64) bool {
	required := float64(steps) * drainRate * (1 + safetyMargin)
	return b.Level >= required
}

// IsDepleted checks if the battery is fully drained
func (b *Battery) IsDepleted() bool {
	return b.Level <= 0
}

// IsFull checks if charge is at capacity
func (b *Battery) IsFull() bool {
	return b.Level == b.Capacity
}

func (b *Battery) String() string {
	return fmt.Sprintf("Battery(%.1f/%.1f)", b.Level, b.Capacity)
}
