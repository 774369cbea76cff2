package game

import "cardle/internal/models"

// ExtractHint normalizes one catalog attribute into a hint string. Absent
// or all-empty values produce no hint at all, so callers never render a
// key that was never set.
func ExtractHint(value models.FlexStrings, key string) (string, bool) {
	if key == "" || value.IsEmpty() {
		return "", false
	}
	return value.Join(), true
}

// Hints builds the full hint mapping for a car. Keys follow the client's
// translation identifiers.
func Hints(car *models.Car) map[string]string {
	if car == nil {
		return map[string]string{}
	}
	hints := make(map[string]string, 6)
	add := func(value models.FlexStrings, key string) {
		if hint, ok := ExtractHint(value, key); ok {
			hints[key] = hint
		}
	}
	add(car.Cylinders, "cylinders")
	add(car.Drive, "driveTrain")
	add(car.Transmission, "transmission")
	add(car.TransmissionDesc, "transmissionDesc")
	add(car.FuelType, "fuelType")
	add(car.VClass, "vehicleClass")
	return hints
}
